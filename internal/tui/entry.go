package tui

import (
	"fmt"

	"github.com/blobnav/blobnav/pkg/catalog"
)

// Entry is one rendered row of a listing: a folder or a file with its
// display attributes resolved.
type Entry struct {
	Name     string
	IsFolder bool
	Record   catalog.Record
	Type     catalog.FileTypeInfo
}

// DisplayName returns the name with a trailing slash for folders.
func (e *Entry) DisplayName() string {
	if e.IsFolder {
		return e.Name + "/"
	}
	return e.Name
}

// DisplaySize returns a human-readable size.
func (e *Entry) DisplaySize() string {
	if e.IsFolder {
		return "<DIR>"
	}

	size := e.Record.Length
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// DisplayModified formats the modification timestamp using layout.
// Unparseable timestamps are shown verbatim rather than hidden, so a
// source emitting an odd format still gets a column value.
func (e *Entry) DisplayModified(layout string) string {
	if e.IsFolder {
		return ""
	}
	t, ok := e.Record.ModTime()
	if !ok {
		return e.Record.LastModified
	}
	return t.Format(layout)
}

// iconGlyphs maps catalog icon identifiers to display glyphs.
var iconGlyphs = map[string]string{
	"folder":       "📁",
	"document":     "📄",
	"spreadsheet":  "📊",
	"presentation": "📑",
	"text":         "📝",
	"image":        "🖼️",
	"audio":        "🎵",
	"video":        "🎬",
	"archive":      "📦",
	"binary":       "⚙️",
	"data":         "🗃️",
	"code":         "💻",
	"disk":         "💿",
	"file":         "📄",
}

// Icon returns the display glyph for the entry.
func (e *Entry) Icon() string {
	if e.IsFolder {
		return iconGlyphs["folder"]
	}
	if glyph, ok := iconGlyphs[e.Type.IconID]; ok {
		return glyph
	}
	return iconGlyphs["file"]
}
