package squashfx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/discochess/squash"
	"github.com/discochess/squash/internal/progress"
)

func TestModule_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello, squash"), 0o644); err != nil {
		t.Fatal(err)
	}

	var updates int
	var client *squash.Client

	app := fxtest.New(t,
		fx.Supply(
			zaptest.NewLogger(t),
			Config{Root: dir, TempDir: t.TempDir()},
		),
		fx.Provide(func() progress.Func {
			return func(progress.Progress) { updates++ }
		}),
		Module,
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	res, err := client.Compress(context.Background(), "notes.txt", "notes.txt.zip", "zip", 10)
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if res.BytesRead != 13 {
		t.Errorf("BytesRead = %d, want 13", res.BytesRead)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt.zip")); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if updates == 0 {
		t.Error("progress func was never called")
	}
}

func TestModule_Quiet(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("quiet"), 0o644); err != nil {
		t.Fatal(err)
	}

	var updates int
	var client *squash.Client

	app := fxtest.New(t,
		fx.Supply(
			zaptest.NewLogger(t),
			Config{Root: dir, Quiet: true},
		),
		fx.Provide(func() progress.Func {
			return func(progress.Progress) { updates++ }
		}),
		Module,
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	if _, err := client.Compress(context.Background(), "a.txt", "a.txt.gz", "gzip", 10); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if updates != 0 {
		t.Errorf("progress called %d times in quiet mode", updates)
	}
}
