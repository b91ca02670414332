package gcsstore

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

func newOfflineClient(t *testing.T) *storage.Client {
	t.Helper()
	client, err := storage.NewClient(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint("http://127.0.0.1:0/storage/v1/"),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestStore_InvalidPaths(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	for _, name := range []string{"gs://", "gs://bucket", "gs://bucket/", "s3://bucket/key", "/local/file"} {
		if _, err := s.Open(ctx, name); err == nil {
			t.Errorf("Open(%q) expected error", name)
		}
		if _, err := s.Create(ctx, name); err == nil {
			t.Errorf("Create(%q) expected error", name)
		}
	}
}

func TestStore_Canceled(t *testing.T) {
	s := &Store{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Open(ctx, "gs://bucket/key"); !errors.Is(err, context.Canceled) {
		t.Errorf("Open() error = %v, want context.Canceled", err)
	}
	if _, err := s.Create(ctx, "gs://bucket/key"); !errors.Is(err, context.Canceled) {
		t.Errorf("Create() error = %v, want context.Canceled", err)
	}
}

func TestStore_CreateChunkSize(t *testing.T) {
	s := NewWithClient(newOfflineClient(t), WithChunkSize(256*1024))

	w, err := s.Create(context.Background(), "gs://bucket/out.zst")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	gw, ok := w.(*storage.Writer)
	if !ok {
		t.Fatalf("Create() returned %T, want *storage.Writer", w)
	}
	if gw.ChunkSize != 256*1024 {
		t.Errorf("ChunkSize = %d, want %d", gw.ChunkSize, 256*1024)
	}
	if gw.ObjectAttrs.Name != "out.zst" {
		t.Errorf("object name = %q, want %q", gw.ObjectAttrs.Name, "out.zst")
	}
}

func TestStore_ObjectHandle(t *testing.T) {
	s := NewWithClient(newOfflineClient(t))

	tests := []struct {
		name       string
		wantBucket string
		wantObject string
	}{
		{"gs://bucket/out.zst", "bucket", "out.zst"},
		{"gs://logs/2024/03/app.log.gz", "logs", "2024/03/app.log.gz"},
	}

	for _, tt := range tests {
		obj, err := s.object(tt.name)
		if err != nil {
			t.Fatalf("object(%q) error = %v", tt.name, err)
		}
		if obj.BucketName() != tt.wantBucket || obj.ObjectName() != tt.wantObject {
			t.Errorf("object(%q) = %s/%s, want %s/%s",
				tt.name, obj.BucketName(), obj.ObjectName(), tt.wantBucket, tt.wantObject)
		}
	}
}
