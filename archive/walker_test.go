package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeZip(t *testing.T, names map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	for name, content := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	w.Close()
	zipFile.Close()
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"feeds/spring.xml":   "<x/>",
		"feeds/summer.onix":  "<x/>",
		"feeds/BACKLIST.XML": "<x/>",
		"notes/readme.txt":   "readme content",
		"manifest.yml":       "config content",
	})

	t.Run("walk xml only", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, []string{".xml"}, func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		expected := map[string]bool{
			"feeds/spring.xml":   true,
			"feeds/BACKLIST.XML": true,
		}
		if len(visited) != len(expected) {
			t.Errorf("visited %d files, want %d", len(visited), len(expected))
		}
		for _, name := range visited {
			if !expected[name] {
				t.Errorf("unexpected file visited: %s", name)
			}
		}
	})

	t.Run("walk xml and onix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, []string{".xml", ".onix"}, func(archive string, file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 3 {
			t.Errorf("visited %d files, want 3", len(visited))
		}
	})

	t.Run("walk with no matching extension", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, []string{".json"}, func(archive string, file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 0 {
			t.Errorf("visited %d files, want 0", len(visited))
		}
	})

	t.Run("walk with empty extension list", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, nil, func(archive string, file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 5 {
			t.Errorf("visited %d files, want 5", len(visited))
		}
	})

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, []string{".xml"}, func(archive string, file *zip.File) error {
			return expectedErr
		})

		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", nil, func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		tmpDir := t.TempDir()
		invalidZip := filepath.Join(tmpDir, "invalid.zip")

		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}

		err := Walk(invalidZip, nil, func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	// Add directory entries (usually created by zip utilities)
	dirHeader := &zip.FileHeader{
		Name: "feeds/",
	}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	fw, err := w.Create("feeds/catalog.xml")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<x/>"))

	w.Close()
	zipFile.Close()

	// Walk should not call walkFn for directories
	var visited []string
	err = Walk(zipPath, nil, func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}

	// Should only visit the file, not the directory
	if len(visited) != 1 {
		t.Errorf("visited %d entries, want 1 (file only, not directory)", len(visited))
	}

	if len(visited) > 0 && visited[0] != "feeds/catalog.xml" {
		t.Errorf("visited %s, want feeds/catalog.xml", visited[0])
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	names := make(map[string]string)
	for i := 0; i < 5; i++ {
		names["files/feed"+string(rune('0'+i))+".xml"] = "<x/>"
	}
	zipPath := makeZip(t, names)

	// Walk should stop when walkFn returns error
	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, []string{".xml"}, func(archive string, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}

	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := []byte("<ONIXMessage/>")
	zipPath := makeZip(t, map[string]string{"feed.xml": string(content)})

	err := Walk(zipPath, []string{".xml"}, func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}

		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("content = %s, want %s", buf.Bytes(), content)
		}

		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_UnsafePath(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	fw, err := w.Create("../escape.xml")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<x/>"))
	w.Close()
	zipFile.Close()

	err = Walk(zipPath, nil, func(archive string, file *zip.File) error {
		t.Errorf("walkFn called for unsafe entry %s", file.Name)
		return nil
	})
	if err == nil {
		t.Error("Expected error for path traversal entry")
	}
}
