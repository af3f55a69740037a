package markup

// Status is the outcome of one statement.
type Status int

const (
	// StatusCreated: the statement built a record and bound its symbol.
	StatusCreated Status = iota
	// StatusIgnored: not a local record statement (including empty ones).
	StatusIgnored
	// StatusSkipped: a local statement with an unknown tag.
	StatusSkipped
	// StatusDropped: the payload was malformed or referred to something
	// that does not exist; nothing was created.
	StatusDropped
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusIgnored:
		return "ignored"
	case StatusSkipped:
		return "skipped"
	case StatusDropped:
		return "dropped"
	}
	return "unknown"
}

// StatementResult records what happened to one statement.
type StatementResult struct {
	Index  int
	Local  string
	Kind   Kind
	ID     int64
	Status Status
	Reason string
}

// Document outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeNoBody = "no-body"
)

// Report is the result of processing one annotated document.
type Report struct {
	RefID      int64
	OK         bool
	Outcome    string
	Reason     string
	Title      string
	Links      int
	Families   int
	AutoLinked int
	Statements []StatementResult
}

// Count returns how many statements ended with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, s := range r.Statements {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Created counts the records built per kind.
func (r *Report) Created() map[Kind]int {
	out := make(map[Kind]int)
	for _, s := range r.Statements {
		if s.Status == StatusCreated {
			out[s.Kind]++
		}
	}
	return out
}

// Problems lists the dropped and skipped statements.
func (r *Report) Problems() []StatementResult {
	var out []StatementResult
	for _, s := range r.Statements {
		if s.Status == StatusDropped || s.Status == StatusSkipped {
			out = append(out, s)
		}
	}
	return out
}
