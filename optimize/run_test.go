package optimize

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssopt/state"
)

const sampleCSS = "a{color:red}b{margin:0}c{color:red}"

const sampleResult = "b{margin:0}a,c{color:red}"

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv, *Pipeline) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = testConfig(t)
	pipe, err := NewPipeline(env.Cfg, nil, logger)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return ctx, env, pipe
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read result: %v", err)
	}
	return string(data)
}

func makeArchive(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(f)
	for name, content := range files {
		zf, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := zf.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write file in zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
}

func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("not an archive", func(t *testing.T) {
		path := filepath.Join(tmpDir, "test.zip")
		writeFile(t, path, "not a real zip file")
		got, err := isArchiveFile(path)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Errorf("isArchiveFile() = %v, want false", got)
		}
	})

	t.Run("archive", func(t *testing.T) {
		path := filepath.Join(tmpDir, "styles.bin")
		makeArchive(t, path, map[string]string{"a.css": sampleCSS})
		got, err := isArchiveFile(path)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if !got {
			t.Errorf("isArchiveFile() = %v, want true", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		path := filepath.Join(tmpDir, "empty")
		writeFile(t, path, "")
		if got, err := isArchiveFile(path); err != nil || got {
			t.Errorf("isArchiveFile() = %v, %v, want false, nil", got, err)
		}
	})

	t.Run("non existent", func(t *testing.T) {
		if _, err := isArchiveFile(filepath.Join(tmpDir, "missing.zip")); err == nil {
			t.Error("Expected error for non-existent file, got nil")
		}
	})
}

func TestOutputPath(t *testing.T) {
	dst := filepath.Join("out", "dir")
	tests := []struct {
		src  string
		ext  string
		want string
	}{
		{"a.css", ".min.css", filepath.Join(dst, "a.min.css")},
		{"a.CSS", ".css", filepath.Join(dst, "a.css")},
		{"x/b.min.css", ".min.css", filepath.Join(dst, "x", "b.min.css")},
		{"x/b.min.css", ".css", filepath.Join(dst, "x", "b.css")},
		{"c.less", ".css", filepath.Join(dst, "c.less.css")},
		{"./x//d.css", ".css", filepath.Join(dst, "x", "d.css")},
		{"../escape.css", ".css", filepath.Join(dst, "_bad_file_name_", "escape.css")},
		{"x/../../up.css", ".css", filepath.Join(dst, "x", "_bad_file_name_", "_bad_file_name_", "up.css")},
		{"", ".css", filepath.Join(dst, "_bad_file_name_.css")},
	}
	for _, tt := range tests {
		if got := outputPath(tt.src, dst, tt.ext); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.src, tt.ext, got, tt.want)
		}
	}
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)

	err := process(ctx, filepath.Join(t.TempDir(), "missing", "file.css"), t.TempDir(), pipe, env.Log)
	if err == nil {
		t.Fatal("Expected error for non-existent path, got nil")
	}
	if !strings.Contains(err.Error(), "input source was not found") {
		t.Errorf("Expected error containing 'input source was not found', got: %v", err)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	tmpDir := t.TempDir()
	if err := process(cancelCtx, tmpDir, tmpDir, pipe, env.Log); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestProcess_SingleFile(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	src := filepath.Join(srcDir, "site.css")
	writeFile(t, src, sampleCSS)

	if err := process(ctx, src, dstDir, pipe, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dstDir, "site.min.css")); got != sampleResult {
		t.Errorf("result = %q, want %q", got, sampleResult)
	}
}

func TestProcess_FileWithTail(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	srcDir := t.TempDir()

	src := filepath.Join(srcDir, "site.css")
	writeFile(t, src, sampleCSS)

	if err := process(ctx, filepath.Join(src, "inner.css"), t.TempDir(), pipe, env.Log); err == nil {
		t.Fatal("Expected error for stylesheet with tail, got nil")
	}
}

func TestProcess_Directory(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(srcDir, "a.css"), sampleCSS)
	writeFile(t, filepath.Join(srcDir, "sub", "b.CSS"), "p{color:red;color:blue}")
	writeFile(t, filepath.Join(srcDir, "notes.txt"), "p{color:red}")

	if err := process(ctx, srcDir, dstDir, pipe, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dstDir, "a.min.css")); got != sampleResult {
		t.Errorf("a.min.css = %q, want %q", got, sampleResult)
	}
	if got := readFile(t, filepath.Join(dstDir, "sub", "b.min.css")); got != "p{color:blue}" {
		t.Errorf("sub/b.min.css = %q, want %q", got, "p{color:blue}")
	}
	if _, err := os.Stat(filepath.Join(dstDir, "notes.min.css")); err == nil {
		t.Error("notes.txt should not be processed")
	}
}

func TestProcess_DirectoryWithArchive(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	if err := os.MkdirAll(filepath.Join(srcDir, "pack"), 0755); err != nil {
		t.Fatal(err)
	}
	makeArchive(t, filepath.Join(srcDir, "pack", "styles.zip"), map[string]string{"x.css": sampleCSS})

	if err := process(ctx, srcDir, dstDir, pipe, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dstDir, "pack", "x.min.css")); got != sampleResult {
		t.Errorf("pack/x.min.css = %q, want %q", got, sampleResult)
	}
}

func TestProcess_Archive(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	zipPath := filepath.Join(srcDir, "styles.zip")
	makeArchive(t, zipPath, map[string]string{
		"css/site.css":  sampleCSS,
		"css/print.css": "a{margin:0;margin-top:5px}",
		"readme.txt":    "a{color:red}",
	})

	if err := process(ctx, zipPath, dstDir, pipe, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dstDir, "css", "site.min.css")); got != sampleResult {
		t.Errorf("css/site.min.css = %q, want %q", got, sampleResult)
	}
	if got := readFile(t, filepath.Join(dstDir, "css", "print.min.css")); got != "a{margin:5px 0 0}" {
		t.Errorf("css/print.min.css = %q, want %q", got, "a{margin:5px 0 0}")
	}
	if _, err := os.Stat(filepath.Join(dstDir, "readme.min.css")); err == nil {
		t.Error("readme.txt should not be processed")
	}
}

func TestProcess_ArchiveWithPath(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	zipPath := filepath.Join(srcDir, "styles.zip")
	makeArchive(t, zipPath, map[string]string{
		"css/site.css":   sampleCSS,
		"other/skip.css": sampleCSS,
	})

	if err := process(ctx, filepath.Join(zipPath, "css"), dstDir, pipe, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "css", "site.min.css")); err != nil {
		t.Errorf("expected css/site.min.css: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "other", "skip.min.css")); err == nil {
		t.Error("other/skip.css should not be processed")
	}
}

func TestProcessStylesheet_Overwrite(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	dstDir := t.TempDir()

	existing := filepath.Join(dstDir, "a.min.css")
	writeFile(t, existing, "old")

	err := processStylesheet(ctx, strings.NewReader(sampleCSS), "a.css", dstDir, pipe, env.Log)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("processStylesheet() error = %v, want already exists", err)
	}
	if got := readFile(t, existing); got != "old" {
		t.Errorf("existing file changed to %q", got)
	}

	env.Overwrite = true
	if err := processStylesheet(ctx, strings.NewReader(sampleCSS), "a.css", dstDir, pipe, env.Log); err != nil {
		t.Fatalf("processStylesheet() error = %v", err)
	}
	if got := readFile(t, existing); got != sampleResult {
		t.Errorf("result = %q, want %q", got, sampleResult)
	}
}

func TestProcessStylesheet_Stdout(t *testing.T) {
	ctx, env, pipe := setupTestEnv(t)
	env.ToStdout = true

	var buf bytes.Buffer
	saved := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = saved })

	dstDir := t.TempDir()
	if err := processStylesheet(ctx, strings.NewReader(sampleCSS), "a.css", dstDir, pipe, env.Log); err != nil {
		t.Fatalf("processStylesheet() error = %v", err)
	}
	if got := buf.String(); got != sampleResult {
		t.Errorf("stdout = %q, want %q", got, sampleResult)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "a.min.css")); err == nil {
		t.Error("no file expected when writing to stdout")
	}
}
