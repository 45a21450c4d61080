package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestFileName tests the URL-to-filename mapping.
func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain article", "https://wiki.example.test/wiki/Alpha", "Alpha.txt"},
		{"subpage slash becomes underscore", "https://wiki.example.test/wiki/Alpha/Beta", "Alpha_Beta.txt"},
		{"reserved characters become underscores", `https://wiki.example.test/wiki/What%3F_%22Quotes%22`, `What___Quotes_.txt`},
		{"colon in title", "https://wiki.example.test/wiki/Who:_Part_2", "Who__Part_2.txt"},
		{"bare content prefix", "https://wiki.example.test/wiki/", "index.txt"},
		{"query does not affect the name", "https://wiki.example.test/wiki/Alpha?uselang=en", "Alpha.txt"},
		{"percent-encoding is decoded", "https://wiki.example.test/wiki/Caf%C3%A9", "Café.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FileName(tt.url); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}

	t.Run("truncates long names to 200 characters", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 300)
		got := FileName("https://wiki.example.test/wiki/" + long)

		want := strings.Repeat("a", 200) + ".txt"
		if got != want {
			t.Errorf("expected 200-character stem, got %d characters", len(got)-len(".txt"))
		}
	})

	t.Run("truncation counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("ä", 300)
		got := FileName("https://wiki.example.test/wiki/" + long)

		stem := strings.TrimSuffix(got, ".txt")
		if n := len([]rune(stem)); n != 200 {
			t.Errorf("expected 200 runes, got %d", n)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		const u = "https://wiki.example.test/wiki/Stable_Page"
		first := FileName(u)
		for i := 0; i < 5; i++ {
			if got := FileName(u); got != first {
				t.Fatalf("expected stable name, got %q then %q", first, got)
			}
		}
	})
}

// TestStoreSave tests writing and overwriting article files.
func TestStoreSave(t *testing.T) {
	t.Parallel()

	t.Run("creates the directory and writes the file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "dump")
		store := New(dir)

		if err := store.Save("https://wiki.example.test/wiki/Alpha", "alpha text"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "Alpha.txt"))
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}
		if string(data) != "alpha text" {
			t.Errorf("expected saved text 'alpha text', got %q", data)
		}
	})

	t.Run("overwrites an existing file", func(t *testing.T) {
		t.Parallel()

		store := New(t.TempDir())
		const u = "https://wiki.example.test/wiki/Alpha"

		if err := store.Save(u, "first version that is longer"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := store.Save(u, "second"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(store.PathFor(u))
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}
		if string(data) != "second" {
			t.Errorf("expected overwrite to win, got %q", data)
		}
	})

	t.Run("reports an error for an unwritable directory", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		blocked := filepath.Join(base, "blocked")
		if err := os.WriteFile(blocked, []byte("not a directory"), 0600); err != nil {
			t.Fatalf("failed to create blocking file: %v", err)
		}

		store := New(filepath.Join(blocked, "dump"))
		if err := store.Save("https://wiki.example.test/wiki/Alpha", "text"); err == nil {
			t.Error("expected an error when the output directory cannot be created")
		}
	})

	t.Run("uses restrictive permissions", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("file permissions work differently on Windows")
		}

		dir := filepath.Join(t.TempDir(), "dump")
		store := New(dir)
		if err := store.Save("https://wiki.example.test/wiki/Alpha", "text"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		info, err := os.Stat(store.PathFor("https://wiki.example.test/wiki/Alpha"))
		if err != nil {
			t.Fatalf("failed to stat saved file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected file mode 0600, got %o", perm)
		}
	})
}
