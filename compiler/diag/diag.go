package diag

import "fmt"

type (
	// Severity ranks a diagnostic. The verifier is advisory, so even
	// Error never aborts a pipeline stage.
	Severity int

	// Diagnostic is one defect found in the compiled program.
	// Program defects are values, not Go errors; only operational
	// failures (io, encoding) travel as errors.
	Diagnostic struct {
		Msg      string   `json:"message" yaml:"message"`
		Line     int      `json:"line" yaml:"line"`
		Col      int      `json:"column" yaml:"column"`
		Severity Severity `json:"severity" yaml:"severity"`
	}

	List []Diagnostic
)

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %v: %v", d.Line, d.Col, d.Severity, d.Msg)
}

// Errorf appends an Error diagnostic at the given position.
func (l List) Errorf(line, col int, format string, args ...interface{}) List {
	return append(l, Diagnostic{Msg: fmt.Sprintf(format, args...), Line: line, Col: col})
}

// Warnf appends a Warning diagnostic at the given position.
func (l List) Warnf(line, col int, format string, args ...interface{}) List {
	return append(l, Diagnostic{Msg: fmt.Sprintf(format, args...), Line: line, Col: col, Severity: Warning})
}

// Count returns how many diagnostics carry the given severity.
func (l List) Count(s Severity) (n int) {
	for _, d := range l {
		if d.Severity == s {
			n++
		}
	}

	return n
}
