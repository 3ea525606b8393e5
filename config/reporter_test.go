package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReportClose_WritesArchive(t *testing.T) {
	dir := t.TempDir()
	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	input := filepath.Join(dir, "input.css")
	if err := os.WriteFile(input, []byte("a{color:red}"), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	rpt.StoreData("config/config.yaml", []byte("version: 1\n"))
	rpt.Store("input.css", input)
	if err := rpt.StoreCopy("copy.css", input); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	temps := rpt.temps

	// Store reads content on Close, StoreCopy does not
	if err := os.WriteFile(input, []byte("b{color:blue}"), 0644); err != nil {
		t.Fatalf("failed to rewrite input: %v", err)
	}

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, filepath.Join(dir, "report.zip"))
	if _, ok := files["MANIFEST"]; !ok {
		t.Error("MANIFEST is missing")
	}
	want := map[string]string{
		"config/config.yaml": "version: 1\n",
		"input.css":          "b{color:blue}",
		"copy.css":           "a{color:red}",
	}
	for name, content := range want {
		if got := files[name]; got != content {
			t.Errorf("%s = %q, want %q", name, got, content)
		}
	}

	if len(temps) != 1 {
		t.Fatalf("temporary copies = %d, want 1", len(temps))
	}
	if _, err := os.Stat(temps[0]); !os.IsNotExist(err) {
		os.RemoveAll(temps[0])
		t.Errorf("expected temporary copy to be removed")
	}
}

func TestReportStoreCopy_Directory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "styles")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "a.css"), []byte("a{}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if err := rpt.StoreCopy("styles", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, filepath.Join(dir, "report.zip"))
	if got := files["styles/nested/a.css"]; got != "a{}" {
		t.Errorf("styles/nested/a.css = %q, want %q", got, "a{}")
	}
}

func TestReportStore_Overwrite(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("a", "/tmp/a")
	r.Store("a", "/tmp/a")

	defer func() {
		if recover() == nil {
			t.Error("expected panic when overwriting entry with different path")
		}
	}()
	r.Store("a", "/tmp/b")
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	r.Store("a", "/tmp/a")
	r.StoreData("b", []byte("b"))
	if err := r.StoreCopy("c", "/nonexistent"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() = %q, want empty", r.Name())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
