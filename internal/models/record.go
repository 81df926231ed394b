package models

import (
	"html"
	"strings"
)

// Column aliases accepted in the input header, localized spelling first.
// The first alias that is present and non-empty in a row wins.
var (
	TitleColumns   = []string{"Titel", "Title"}
	NoteColumns    = []string{"Notiz", "Note"}
	URLColumns     = []string{"URL"}
	TagsColumns    = []string{"Tags"}
	CommentColumns = []string{"Kommentar", "Comment"}
)

// Fields is a single row of named values.
type Fields interface {
	Lookup(names ...string) string
}

// Record represents one input row describing a location.
type Record struct {
	Title   string // Title is the place name sent to the geocoder.
	Note    string // Note is a free-form note.
	URL     string // URL is rendered as a link in the description.
	Tags    string // Tags are copied verbatim.
	Comment string // Comment is a free-form comment.
	Line    int    // Line is the source line of the row, used in diagnostics.
}

// NewRecord builds a Record from a row using the column alias table.
func NewRecord(fields Fields, line int) Record {
	return Record{
		Title:   fields.Lookup(TitleColumns...),
		Note:    fields.Lookup(NoteColumns...),
		URL:     fields.Lookup(URLColumns...),
		Tags:    fields.Lookup(TagsColumns...),
		Comment: fields.Lookup(CommentColumns...),
		Line:    line,
	}
}

// HasTitle reports whether the record can be geocoded.
func (r Record) HasTitle() bool {
	return r.Title != ""
}

// Description renders the optional fields as an HTML fragment.
// Each present field is labeled and the URL becomes a link; parts are joined with <br/>.
func (r Record) Description() string {
	parts := make([]string, 0, 4)
	if r.Note != "" {
		parts = append(parts, "<b>Note:</b> "+html.EscapeString(r.Note))
	}
	if r.Tags != "" {
		parts = append(parts, "<b>Tags:</b> "+html.EscapeString(r.Tags))
	}
	if r.Comment != "" {
		parts = append(parts, "<b>Comment:</b> "+html.EscapeString(r.Comment))
	}
	if r.URL != "" {
		parts = append(parts, `<a href="`+html.EscapeString(r.URL)+`">Link</a>`)
	}

	return strings.Join(parts, "<br/>")
}
