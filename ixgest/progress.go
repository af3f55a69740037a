package ixgest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/kinlink/markup"
	"github.com/teranos/kinlink/sym"
)

// ProgressEmitter reports the progress of a run as it happens.
//
// Implementations include:
// - CLIEmitter: pretty-printed terminal output using pterm
// - JSONEmitter: one JSON event per line for scripts
type ProgressEmitter interface {
	EmitStage(stage, message string)
	EmitDocument(doc DocumentResult)
	EmitComplete(result *ProcessingResult)
	EmitError(stage string, err error)
}

type nopEmitter struct{}

func (nopEmitter) EmitStage(string, string)       {}
func (nopEmitter) EmitDocument(DocumentResult)    {}
func (nopEmitter) EmitComplete(*ProcessingResult) {}
func (nopEmitter) EmitError(string, error)        {}

// CLIEmitter outputs pretty-printed progress to the terminal using pterm
type CLIEmitter struct {
	verbosity int
}

func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

func (e *CLIEmitter) EmitStage(stage, message string) {
	pterm.Printf("%s %s: %s\n", pterm.Gray("⊔"), pterm.LightCyan(stage), message)
}

// EmitDocument prints aborted documents always, others from verbosity 1,
// and each document's problems from verbosity 2.
func (e *CLIEmitter) EmitDocument(doc DocumentResult) {
	switch {
	case doc.Outcome != markup.OutcomeOK && doc.Outcome != OutcomeUnchanged:
		pterm.Warning.Printf("RD%d %s: %s\n", doc.RefID, doc.Outcome, doc.Path)
	case e.verbosity >= 1:
		pterm.Printf("  %s RD%d %s %s %s\n",
			pterm.LightGreen("✓"), doc.RefID, pterm.White(doc.Title), pterm.Gray(doc.Outcome), createdSummary(doc))
	}
	if e.verbosity >= 2 {
		for _, p := range doc.Problems {
			pterm.Printf("    %s %s\n", pterm.Yellow("→"), p)
		}
	}
}

// createdSummary renders the records a document produced as glyph counts,
// e.g. "☺2 ◷1 ✦1 ✧1". Events count explicit and automatic links.
func createdSummary(doc DocumentResult) string {
	parts := []struct {
		glyph string
		n     int
	}{
		{sym.Persona, doc.Created[markup.KindPersona.String()]},
		{sym.Date, doc.Created[markup.KindDate.String()]},
		{sym.Place, doc.Created[markup.KindPlace.String()]},
		{sym.Eventa, doc.Created[markup.KindEventa.String()]},
		{sym.Event, doc.Created[markup.KindEventLink.String()] + doc.AutoLinked},
	}
	var out []string
	for _, p := range parts {
		if p.n > 0 {
			out = append(out, p.glyph+strconv.Itoa(p.n))
		}
	}
	return strings.Join(out, " ")
}

func (e *CLIEmitter) EmitComplete(result *ProcessingResult) {
	pterm.Success.Println(result.Message)
	if e.verbosity < 1 {
		return
	}
	data := pterm.TableData{
		{"Processed", "Aborted", "Unchanged", "Roles deleted", "Duration"},
		{
			fmt.Sprint(result.Processed),
			fmt.Sprint(result.Aborted),
			fmt.Sprint(result.Unchanged),
			fmt.Sprint(result.RolesDeleted),
			result.EndTime.Sub(result.StartTime).Round(time.Millisecond).String(),
		},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (e *CLIEmitter) EmitError(stage string, err error) {
	pterm.Error.Printf("Error in %s: %v\n", stage, err)
}

// ProgressEvent is one structured progress event
type ProgressEvent struct {
	Type      string      `json:"type"` // "stage", "document", "complete", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// JSONEmitter writes one JSON progress event per line
type JSONEmitter struct {
	encoder *json.Encoder
}

// NewJSONEmitter writes events to w, or stdout when w is nil.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONEmitter{encoder: json.NewEncoder(w)}
}

func (e *JSONEmitter) emit(typ string, data interface{}) {
	_ = e.encoder.Encode(ProgressEvent{Type: typ, Timestamp: time.Now(), Data: data})
}

func (e *JSONEmitter) EmitStage(stage, message string) {
	e.emit("stage", map[string]string{"stage": stage, "message": message})
}

func (e *JSONEmitter) EmitDocument(doc DocumentResult) { e.emit("document", doc) }

func (e *JSONEmitter) EmitComplete(result *ProcessingResult) {
	e.emit("complete", map[string]interface{}{
		"run_id":    result.RunID,
		"processed": result.Processed,
		"aborted":   result.Aborted,
		"unchanged": result.Unchanged,
		"message":   result.Message,
	})
}

func (e *JSONEmitter) EmitError(stage string, err error) {
	e.emit("error", map[string]string{"stage": stage, "error": err.Error()})
}
