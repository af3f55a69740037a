// Package sym defines the glyphs kinlink uses to tag log lines and CLI
// output by subsystem. They are stable across logs, reports and help text.
package sym

// Subsystem glyphs.
const (
	AM    = "≡" // am: configuration
	IX    = "⨳" // ix: corpus ingestion
	DB    = "⊔" // database/storage layer
	Doc   = "▤" // source document markup
	Match = "⋈" // eventa to canonical event linkage
	AS    = "+" // statement asserted a record
)

// Record glyphs used when summarising what a document produced.
const (
	Persona = "☺"
	Eventa  = "✦"
	Event   = "✧"
	Date    = "◷"
	Place   = "⌖"
)

// Labels maps each subsystem glyph to its short CLI name.
var Labels = map[string]string{
	AM:    "am",
	IX:    "ix",
	DB:    "db",
	Doc:   "doc",
	Match: "match",
	AS:    "as",
}

// FromLabel returns the glyph for a subsystem label, or "" when unknown.
func FromLabel(label string) string {
	for glyph, l := range Labels {
		if l == label {
			return glyph
		}
	}
	return ""
}
