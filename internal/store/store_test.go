package store

import (
	"testing"
)

func TestScheme(t *testing.T) {
	tests := map[string]string{
		"gs://bucket/key":     "gs",
		"s3://bucket/a/b":     "s3",
		"/tmp/file.txt":       "",
		"relative/file":       "",
		"C:\\data\\file.txt":  "",
		"file://bucket/a.txt": "file",
	}
	for in, want := range tests {
		if got := Scheme(in); got != want {
			t.Errorf("Scheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		scheme     string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"gs://bucket/key.gz", "gs", "bucket", "key.gz", false},
		{"gs://bucket/a/b/c.zst", "gs", "bucket", "a/b/c.zst", false},
		{"s3://my-bucket/data.lz4", "s3", "my-bucket", "data.lz4", false},
		{"s3://bucket/key", "gs", "", "", true},
		{"gs://", "gs", "", "", true},
		{"gs:///key", "gs", "", "", true},
		{"gs://bucket", "gs", "", "", true},
		{"gs://bucket/", "gs", "", "", true},
		{"gs://bucket/dir/", "gs", "", "", true},
		{"/local/path", "gs", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseURI(tt.name, tt.scheme)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseURI(%q) expected error", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURI(%q) error = %v", tt.name, err)
			}
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Errorf("ParseURI(%q) = (%q, %q), want (%q, %q)",
					tt.name, bucket, key, tt.wantBucket, tt.wantKey)
			}
		})
	}
}
