package extract

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// articleHTML is a representative wiki article: content wrapped in the
// modern skin selectors, chrome and navigation mixed into the body.
const articleHTML = `<!DOCTYPE html>
<html><head><title>Alpha | Test Wiki</title></head>
<body>
<nav><a href="/wiki/Main_Page">Home</a></nav>
<h1 id="firstHeading">Alpha</h1>
<div id="mw-content-text"><div class="mw-parser-output">
<p>Alpha is the   first letter.</p>
<table class="infobox"><tr><td>Quick facts <a href="/wiki/Beta">Beta</a></td></tr></table>
<p>See <a href="/wiki/Gamma#History">Gamma</a> and <a href="/wiki/Delta">Delta</a>.</p>
<script>var tracking = true;</script>
<style>.hidden { display: none }</style>
<div class="navbox"><a href="/wiki/Epsilon">Epsilon</a></div>
<a href="#top">Back to top</a>
<a href="javascript:void(0)">Toggle</a>
<a href="mailto:admin@example.test">Contact</a>
<a href="tel:+123456">Call</a>
<a href="data:text/plain,hi">Data</a>
<a href="/wiki/Special:Random">Random page</a>
<a href="http://other.example.test/wiki/Offsite">Offsite</a>
</div></div>
</body></html>`

// testScope keeps URLs on the wiki host under /wiki/ and outside the
// Special namespace, mirroring what the policy filter would decide.
func testScope(u string) bool {
	return strings.HasPrefix(u, "https://wiki.example.test/wiki/") &&
		!strings.Contains(u, "Special:")
}

// TestExtract tests region selection, link discovery, and text cleanup.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("collects in-scope links in document order before stripping", func(t *testing.T) {
		t.Parallel()

		page, err := Extract([]byte(articleHTML), "https://wiki.example.test/wiki/Alpha", testScope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			"https://wiki.example.test/wiki/Beta",
			"https://wiki.example.test/wiki/Gamma",
			"https://wiki.example.test/wiki/Delta",
			"https://wiki.example.test/wiki/Epsilon",
		}
		if !reflect.DeepEqual(page.Links, want) {
			t.Errorf("expected links %v, got %v", want, page.Links)
		}
	})

	t.Run("strips chrome from the text but keeps article prose", func(t *testing.T) {
		t.Parallel()

		page, err := Extract([]byte(articleHTML), "https://wiki.example.test/wiki/Alpha", testScope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(page.Text, "Alpha is the first letter.") {
			t.Errorf("expected collapsed article sentence in text, got %q", page.Text)
		}
		for _, junk := range []string{"Quick facts", "var tracking", "display: none", "Epsilon"} {
			if strings.Contains(page.Text, junk) {
				t.Errorf("expected %q to be stripped from text", junk)
			}
		}
		// The nav element sits outside the content region and never
		// contributes text or links.
		if strings.Contains(page.Text, "Home") {
			t.Error("expected navigation outside the region to be absent")
		}
	})

	t.Run("prefers the first heading over the title tag", func(t *testing.T) {
		t.Parallel()

		page, err := Extract([]byte(articleHTML), "https://wiki.example.test/wiki/Alpha", testScope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Title != "Alpha" {
			t.Errorf("expected title 'Alpha', got %q", page.Title)
		}
	})

	t.Run("falls back to the title tag without a first heading", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Beta | Test Wiki</title></head>
			<body><div class="mw-parser-output"><p>text</p></div></body></html>`
		page, err := Extract([]byte(html), "https://wiki.example.test/wiki/Beta", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Title != "Beta | Test Wiki" {
			t.Errorf("expected title tag fallback, got %q", page.Title)
		}
	})

	t.Run("falls back to the legacy content selector", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="mw-content-text">
			<p>Legacy skin body.</p><a href="/wiki/Zeta">Zeta</a>
			</div></body></html>`
		page, err := Extract([]byte(html), "https://wiki.example.test/wiki/Legacy", testScope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(page.Text, "Legacy skin body.") {
			t.Errorf("expected legacy region text, got %q", page.Text)
		}
		if len(page.Links) != 1 || page.Links[0] != "https://wiki.example.test/wiki/Zeta" {
			t.Errorf("expected one legacy link, got %v", page.Links)
		}
	})

	t.Run("returns ErrNoContentRegion without either selector", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Not a wiki page.</p></body></html>`
		_, err := Extract([]byte(html), "https://wiki.example.test/wiki/None", nil)
		if !errors.Is(err, ErrNoContentRegion) {
			t.Errorf("expected ErrNoContentRegion, got %v", err)
		}
	})

	t.Run("treats binary junk as a page without a region", func(t *testing.T) {
		t.Parallel()

		junk := []byte{0x00, 0xFF, 0x13, 0x37, 0x00, 0x01}
		_, err := Extract(junk, "https://wiki.example.test/wiki/Junk", nil)
		if !errors.Is(err, ErrNoContentRegion) {
			t.Errorf("expected ErrNoContentRegion for junk input, got %v", err)
		}
	})

	t.Run("keeps duplicate links for the frontier to dedup", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="mw-parser-output">
			<a href="/wiki/Twin">first</a><a href="/wiki/Twin">second</a>
			</div></body></html>`
		page, err := Extract([]byte(html), "https://wiki.example.test/wiki/Dup", testScope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Links) != 2 {
			t.Errorf("expected both duplicate links kept, got %v", page.Links)
		}
	})

	t.Run("resolves relative links against the source URL", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="mw-parser-output">
			<a href="Child">relative</a>
			<a href="../wiki/Sibling">dotdot</a>
			</div></body></html>`
		page, err := Extract([]byte(html), "https://wiki.example.test/wiki/Parent", testScope)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			"https://wiki.example.test/wiki/Child",
			"https://wiki.example.test/wiki/Sibling",
		}
		if !reflect.DeepEqual(page.Links, want) {
			t.Errorf("expected resolved links %v, got %v", want, page.Links)
		}
	})

	t.Run("empty region yields empty text and no error", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="mw-parser-output"></div></body></html>`
		page, err := Extract([]byte(html), "https://wiki.example.test/wiki/Empty", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Text != "" {
			t.Errorf("expected empty text, got %q", page.Text)
		}
		if len(page.Links) != 0 {
			t.Errorf("expected no links, got %v", page.Links)
		}
	})
}

// TestNormalize tests the text canonicalization rules.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses interior runs", "a   b\tc", "a b c"},
		{"trims line edges", "  hello  \n  world  ", "hello\nworld"},
		{"drops empty lines", "a\n\n\n\nb", "a\nb"},
		{"drops whitespace-only lines", "a\n \t \nb", "a\nb"},
		{"handles windows line endings", "a\r\nb\r\n", "a\nb"},
		{"collapses non-breaking spaces", "a  b", "a b"},
		{"composes to NFC", "café", "café"},
		{"empty input", "", ""},
		{"only whitespace", " \n\t \n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q became %q", got, again)
			}
		})
	}
}

// TestFlattenBlockBoundaries tests that structural elements separate lines.
func TestFlattenBlockBoundaries(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="mw-parser-output">
		<h2>Heading</h2>
		<p>First paragraph with <b>inline</b> markup.</p>
		<ul><li>one</li><li>two</li></ul>
		<p>Line<br>break</p>
		</div></body></html>`

	page, err := Extract([]byte(html), "https://wiki.example.test/wiki/Blocks", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"Heading",
		"First paragraph with inline markup.",
		"one",
		"two",
		"Line",
		"break",
	}, "\n")
	if page.Text != want {
		t.Errorf("expected flattened text %q, got %q", want, page.Text)
	}
}
