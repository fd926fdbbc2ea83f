// Package catalog holds the flat record list produced by a listing
// source and derives per-record display attributes from it. The rest of
// the engine (folder index, query evaluation, pagination) consumes the
// catalog as its single source of truth.
package catalog

import (
	"strings"
	"time"
)

// Record is one storage object as reported by a listing source. The
// JSON tags follow the wire format of the listing endpoints, which
// capitalize field names.
type Record struct {
	// Name is the "/"-separated virtual path of the object. It is
	// unique within one listing and never carries a leading "/".
	Name string `json:"Name" validate:"required"`

	// URL is the absolute fetch location of the object. It doubles as
	// the classification memo key, so sources must emit one distinct
	// URL per object.
	URL string `json:"Url" validate:"required"`

	// Length is the object size in bytes. Zero length objects exist in
	// listings (folder markers, empty uploads) and are hidden from
	// default views.
	Length int64 `json:"Length" validate:"min=0"`

	// LastModified is the modification timestamp as emitted by the
	// source. It is kept verbatim and parsed on demand.
	LastModified string `json:"LastModified"`

	// ContentType is the MIME type reported by the source, if any.
	// Classification goes by filename extension; this is only a hint.
	ContentType string `json:"ContentType"`
}

// Base returns the final path segment of the record name.
func (r Record) Base() string {
	if i := strings.LastIndexByte(r.Name, '/'); i >= 0 {
		return r.Name[i+1:]
	}
	return r.Name
}

// Dir returns the parent folder path of the record. The empty string
// means the root folder.
func (r Record) Dir() string {
	if i := strings.LastIndexByte(r.Name, '/'); i >= 0 {
		return r.Name[:i]
	}
	return ""
}

// modifiedLayouts are tried in order when parsing LastModified. Object
// store listings emit RFC 1123 timestamps while cached listings round
// trip through RFC 3339; the remaining layouts cover hand-written
// listing files.
var modifiedLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ModTime parses LastModified. The boolean reports whether the value
// was parseable; callers sorting by time treat unparseable values as
// the zero instant so comparisons stay total and never panic.
func (r Record) ModTime() (time.Time, bool) {
	if r.LastModified == "" {
		return time.Time{}, false
	}
	for _, layout := range modifiedLayouts {
		if t, err := time.Parse(layout, r.LastModified); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
