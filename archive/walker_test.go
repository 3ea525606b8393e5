package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func makeArchive(t *testing.T, names ...string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte("content of " + name)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return zipPath
}

func collect(t *testing.T, zipPath, prefix string, extensions ...string) []string {
	t.Helper()
	var visited []string
	err := Walk(zipPath, prefix, func(archive string, file *zip.File) error {
		if archive != zipPath {
			t.Errorf("archive = %s, want %s", archive, zipPath)
		}
		visited = append(visited, file.Name)
		return nil
	}, extensions...)
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	return visited
}

func TestWalk(t *testing.T) {
	zipPath := makeArchive(t,
		"css/site10.css",
		"css/site2.css",
		"css/site1.CSS",
		"css/readme.txt",
		"vendor/lib.css",
		"css/sub/",
	)

	tests := []struct {
		name       string
		prefix     string
		extensions []string
		want       []string
	}{
		{"prefix and extension", "css/", []string{".css"}, []string{"css/site1.CSS", "css/site2.css", "css/site10.css"}},
		{"no extension filter", "css/", nil, []string{"css/readme.txt", "css/site1.CSS", "css/site2.css", "css/site10.css"}},
		{"empty prefix", "", []string{".css"}, []string{"css/site1.CSS", "css/site2.css", "css/site10.css", "vendor/lib.css"}},
		{"no match", "images/", nil, nil},
		{"case sensitive prefix", "CSS/", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(t, zipPath, tt.prefix, tt.extensions...); !slices.Equal(got, tt.want) {
				t.Errorf("visited = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalk_WalkFnError(t *testing.T) {
	zipPath := makeArchive(t, "a.css", "b.css", "c.css")
	wantErr := errors.New("stop")

	count := 0
	err := Walk(zipPath, "", func(string, *zip.File) error {
		count++
		if count == 2 {
			return wantErr
		}
		return nil
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Walk() error = %v, want %v", err, wantErr)
	}
	if count != 2 {
		t.Errorf("walkFn called %d times, want 2", count)
	}
}

func TestWalk_FileContent(t *testing.T) {
	zipPath := makeArchive(t, "style.css")

	err := Walk(zipPath, "", func(_ string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		if string(data) != "content of style.css" {
			t.Errorf("content = %q, want %q", data, "content of style.css")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/archive.zip", "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Walk() expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(path, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(path, "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Walk() expected error for invalid zip")
		}
	})
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := makeArchive(t, "ok.css", "../evil.css")
	if err := Walk(zipPath, "", func(string, *zip.File) error { return nil }); err == nil {
		t.Error("Walk() expected error for path traversal")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a/b.css", true},
		{"a..b/c.css", true},
		{"/abs.css", false},
		{`\abs.css`, false},
		{"a/../b.css", false},
		{"..", false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
