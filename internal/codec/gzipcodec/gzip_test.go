package gzipcodec

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "gz" {
		t.Errorf("Extension() = %q, want %q", got, "gz")
	}
}

func TestWithLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{-5, gzip.DefaultCompression},
		{-1, gzip.DefaultCompression},
		{0, gzip.NoCompression},
		{6, 6},
		{9, gzip.BestCompression},
		{10, gzip.BestCompression},
		{22, gzip.BestCompression},
	}

	for _, tt := range tests {
		if got := New(WithLevel(tt.level)).Level(); got != tt.want {
			t.Errorf("WithLevel(%d) level = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func roundTrip(t *testing.T, c *Codec, original []byte) []byte {
	t.Helper()

	var compressed bytes.Buffer
	writer, err := c.Writer(&compressed)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := writer.Write(original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reader, err := c.Reader(&compressed)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return decompressed
}

func TestCodec_RoundTrip(t *testing.T) {
	original := []byte("Hello, World! This is test data for gzip compression.")

	for _, level := range []int{0, 1, 9, 10} {
		got := roundTrip(t, New(WithLevel(level)), original)
		if !bytes.Equal(got, original) {
			t.Errorf("level %d: round-trip got %q, want %q", level, got, original)
		}
	}
}

func TestCodec_RoundTrip_LargeData(t *testing.T) {
	c := New(WithLevel(9))
	original := bytes.Repeat([]byte("ABCDEFGHIJ"), 10000) // 100KB of repetitive data

	var compressed bytes.Buffer
	writer, err := c.Writer(&compressed)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := writer.Write(original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Verify compression ratio for repetitive data.
	if compressed.Len() >= len(original) {
		t.Errorf("Expected compression, got %d bytes from %d bytes", compressed.Len(), len(original))
	}

	if got := roundTrip(t, c, original); !bytes.Equal(got, original) {
		t.Error("Round-trip failed for large data")
	}
}

func TestCodec_RoundTrip_EmptyData(t *testing.T) {
	got := roundTrip(t, New(), []byte{})
	if len(got) != 0 {
		t.Errorf("Round-trip failed for empty data: got %q", got)
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c := New()
	invalidData := bytes.NewReader([]byte("not gzip data"))

	_, err := c.Reader(invalidData)
	if err == nil {
		t.Error("Reader() expected error for invalid gzip data, got nil")
	}
}
