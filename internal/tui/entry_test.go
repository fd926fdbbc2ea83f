package tui

import (
	"testing"

	"github.com/blobnav/blobnav/pkg/catalog"
)

func TestDisplayName(t *testing.T) {
	folder := &Entry{Name: "docs", IsFolder: true}
	if got := folder.DisplayName(); got != "docs/" {
		t.Errorf("expected 'docs/', got %q", got)
	}

	file := &Entry{Name: "readme.txt"}
	if got := file.DisplayName(); got != "readme.txt" {
		t.Errorf("expected 'readme.txt', got %q", got)
	}
}

func TestDisplaySize(t *testing.T) {
	cases := []struct {
		name     string
		entry    Entry
		expected string
	}{
		{"folder", Entry{IsFolder: true}, "<DIR>"},
		{"bytes", Entry{Record: catalog.Record{Length: 512}}, "512 B"},
		{"kilobytes", Entry{Record: catalog.Record{Length: 2048}}, "2.0 KB"},
		{"megabytes", Entry{Record: catalog.Record{Length: 5 * 1024 * 1024}}, "5.0 MB"},
		{"gigabytes", Entry{Record: catalog.Record{Length: 3 * 1024 * 1024 * 1024}}, "3.0 GB"},
		{"fractional", Entry{Record: catalog.Record{Length: 1536}}, "1.5 KB"},
	}

	for _, tc := range cases {
		if got := tc.entry.DisplaySize(); got != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.expected, got)
		}
	}
}

func TestDisplayModified(t *testing.T) {
	const layout = "2006-01-02 15:04"

	parseable := &Entry{Record: catalog.Record{LastModified: "Fri, 14 Mar 2025 10:30:00 GMT"}}
	if got := parseable.DisplayModified(layout); got != "2025-03-14 10:30" {
		t.Errorf("expected formatted timestamp, got %q", got)
	}

	// Unparseable values are shown verbatim rather than dropped.
	garbage := &Entry{Record: catalog.Record{LastModified: "soonish"}}
	if got := garbage.DisplayModified(layout); got != "soonish" {
		t.Errorf("expected verbatim value, got %q", got)
	}

	empty := &Entry{Record: catalog.Record{}}
	if got := empty.DisplayModified(layout); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}

	folder := &Entry{IsFolder: true}
	if got := folder.DisplayModified(layout); got != "" {
		t.Errorf("expected empty string for folder, got %q", got)
	}
}

func TestIcon(t *testing.T) {
	folder := &Entry{IsFolder: true}
	if got := folder.Icon(); got != iconGlyphs["folder"] {
		t.Errorf("expected folder glyph, got %q", got)
	}

	audio := &Entry{Type: catalog.FileTypeInfo{IconID: "audio"}}
	if got := audio.Icon(); got != iconGlyphs["audio"] {
		t.Errorf("expected audio glyph, got %q", got)
	}

	unknown := &Entry{Type: catalog.FileTypeInfo{IconID: "no-such-family"}}
	if got := unknown.Icon(); got != iconGlyphs["file"] {
		t.Errorf("expected fallback glyph, got %q", got)
	}
}
