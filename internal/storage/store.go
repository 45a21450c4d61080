package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// maxNameLength caps the filename stem derived from a URL path. Most
// filesystems reject names past 255 bytes; 200 leaves headroom for the
// extension and multi-byte characters.
const maxNameLength = 200

// fileExt is appended to every archived page.
const fileExt = ".txt"

// illegalChars are characters replaced in filenames. The set covers every
// character that is reserved on at least one mainstream filesystem, so an
// archive written on Linux stays portable to Windows and macOS.
const illegalChars = `\/*?:"<>|`

// Store writes extracted article text into a single output directory.
// It is safe for concurrent use: each Save touches exactly one file and
// the filename is a pure function of the URL.
type Store struct {
	// dir is the output directory. Created on first save.
	dir string
}

// New creates a Store rooted at dir. The directory is not created until
// the first Save, so constructing a Store has no side effects.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the file path an article URL persists to.
func (s *Store) PathFor(rawURL string) string {
	return filepath.Join(s.dir, FileName(rawURL))
}

// FileName derives the flat filename for an article URL.
//
// The name is the URL path with the leading content prefix removed and
// every separator or reserved character replaced by an underscore, capped
// at 200 characters. A URL that leaves nothing usable (the site root, a
// bare prefix) becomes "index". The mapping is deterministic so that
// re-crawling a page overwrites its earlier file.
func FileName(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	name := strings.Replace(path, "/wiki/", "", 1)
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalChars, r) {
			return '_'
		}
		return r
	}, name)

	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	if name == "" {
		name = "index"
	}
	return name + fileExt
}

// Save writes one article's text, overwriting any previous version.
// The output directory is created on demand with owner-only group access,
// and the file itself is owner read/write only.
func (s *Store) Save(rawURL, text string) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := s.PathFor(rawURL)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
