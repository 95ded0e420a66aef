package domain

import "go.trai.ch/memo/internal/lang"

// Severity classifies a diagnostic message captured during evaluation.
type Severity string

const (
	// SeverityMessage is an informational diagnostic.
	SeverityMessage Severity = "message"
	// SeverityWarning is a recoverable warning.
	SeverityWarning Severity = "warning"
	// SeverityError is a captured evaluation failure. It never aborts the
	// batch; subsequent expressions still run.
	SeverityError Severity = "error"
)

// Message is one diagnostic emitted while evaluating an expression.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// GraphicsArtifact is the recorded graphical side effect of one evaluation.
// The core only threads it through; rendering to files is the renderer's job.
type GraphicsArtifact struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

// EvaluationRecord is the complete capture of one expression's evaluation,
// whether produced live or replayed from cache. Immutable once produced.
type EvaluationRecord struct {
	SourceText string            `json:"source_text"`
	Value      *lang.Value       `json:"value,omitempty"` // nil when evaluation failed
	Printed    string            `json:"printed,omitzero"`
	TypeTag    string            `json:"type_tag,omitzero"`
	Messages   []Message         `json:"messages,omitempty"`
	Stdout     string            `json:"stdout,omitzero"`
	Graphics   *GraphicsArtifact `json:"graphics,omitempty"`
}

// Failed reports whether the evaluation itself raised an error.
func (r EvaluationRecord) Failed() bool {
	for _, m := range r.Messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}
