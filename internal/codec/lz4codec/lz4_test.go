package lz4codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func TestCodec_Extension(t *testing.T) {
	if got := New().Extension(); got != "lz4" {
		t.Errorf("Extension() = %q, want %q", got, "lz4")
	}
}

func TestWithLevel(t *testing.T) {
	tests := []struct {
		level int
		want  lz4.CompressionLevel
	}{
		{-1, lz4.Fast},
		{0, lz4.Fast},
		{1, lz4.Level1},
		{5, lz4.Level5},
		{9, lz4.Level9},
		{10, lz4.Level9},
	}

	for _, tt := range tests {
		if got := New(WithLevel(tt.level)).Level(); got != tt.want {
			t.Errorf("WithLevel(%d) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty": {},
		"small": []byte("Hello, World! This is test data for lz4 compression."),
		"large": bytes.Repeat([]byte("lz4 frames are block based "), 20000),
	}

	for name, original := range inputs {
		for _, level := range []int{0, 10} {
			c := New(WithLevel(level))

			var compressed bytes.Buffer
			writer, err := c.Writer(&compressed)
			if err != nil {
				t.Fatalf("%s: Writer() error = %v", name, err)
			}
			if _, err := writer.Write(original); err != nil {
				t.Fatalf("%s: Write() error = %v", name, err)
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("%s: Close() error = %v", name, err)
			}

			reader, err := c.Reader(&compressed)
			if err != nil {
				t.Fatalf("%s: Reader() error = %v", name, err)
			}
			got, err := io.ReadAll(reader)
			reader.Close()
			if err != nil {
				t.Fatalf("%s: ReadAll() error = %v", name, err)
			}
			if !bytes.Equal(got, original) {
				t.Errorf("%s level %d: round-trip got %d bytes, want %d", name, level, len(got), len(original))
			}
		}
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	reader, err := New().Reader(bytes.NewReader([]byte("this is not an lz4 frame")))
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	defer reader.Close()

	if _, err := io.ReadAll(reader); err == nil {
		t.Error("ReadAll() expected error for invalid lz4 data, got nil")
	}
}
