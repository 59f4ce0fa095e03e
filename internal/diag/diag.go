// Package diag defines the positioned diagnostic type shared by the
// parse-error decoder and the semantic validator.
package diag

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	// SeverityError marks a syntax failure reported by the parser.
	SeverityError Severity = iota
	// SeverityWarning marks an advisory finding that never blocks anything.
	SeverityWarning
)

// String returns the wire representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the severity as its wire string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity from its wire string. Unrecognized
// values decode as SeverityWarning.
func (s *Severity) UnmarshalJSON(data []byte) error {
	if string(data) == `"error"` {
		*s = SeverityError
		return nil
	}
	*s = SeverityWarning
	return nil
}

// Diagnostic is a positioned message over a document. Offsets are byte
// offsets in the same unit the external parser reports; From and To always
// satisfy 0 <= From <= To <= len(document).
type Diagnostic struct {
	From     int      `json:"from"`
	To       int      `json:"to"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ClampFrom clamps a start offset into [0, len(doc)-1], or 0 for an empty
// document.
func ClampFrom(offset int, doc string) int {
	if offset < 0 {
		return 0
	}
	if offset >= len(doc) {
		if len(doc) > 0 {
			return len(doc) - 1
		}
		return 0
	}
	return offset
}

// ClampTo clamps an end offset into [0, len(doc)].
func ClampTo(offset int, doc string) int {
	if offset > len(doc) {
		return len(doc)
	}
	if offset < 0 {
		return 0
	}
	return offset
}
