// Package host implements the execution host: an interpreter for the
// expression language that captures values, printed output, diagnostics,
// stdout text, and graphics into evaluation records.
package host

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

// Host implements ports.Host. It is stateless across expressions; all
// evaluation state lives in the environment passed to Execute.
type Host struct {
	opts       domain.Options
	builtins   map[string]builtinFn
	nextDevice atomic.Int64
}

// New creates a Host. Options control printed-output formatting.
func New(opts domain.Options) *Host {
	return &Host{
		opts:     opts,
		builtins: builtinTable(),
	}
}

// Execute evaluates one expression against env and captures the complete
// record. Evaluation failures become error-severity messages inside the
// record; the error return is reserved for host failures such as context
// cancellation, which abort the batch.
func (h *Host) Execute(ctx context.Context, expr domain.Expression, env *lang.Env) (rec domain.EvaluationRecord, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.EvaluationRecord{}, zerr.Wrap(ctxErr, "execution canceled")
	}

	s := &session{host: h, env: env}
	rec.SourceText = expr.Text

	// A statement the splitter could not parse still yields a record; the
	// failure is this statement's alone.
	if expr.Node == nil {
		parseErr := expr.ParseErr
		if parseErr == nil {
			parseErr = evalErrorf("invalid expression")
		}
		return h.capture(s, expr, lang.Value{}, false, parseErr), nil
	}

	// Interpreter bugs must not take the batch down with them.
	defer func() {
		if r := recover(); r != nil {
			rec = h.capture(s, expr, lang.Value{}, false, evalErrorf("internal evaluation failure: %v", r))
			err = nil
		}
	}()

	value, visible, evalErr := s.evalTop(expr.Node)
	return h.capture(s, expr, value, visible, evalErr), nil
}

func (h *Host) capture(s *session, expr domain.Expression, value lang.Value, visible bool, evalErr error) domain.EvaluationRecord {
	rec := domain.EvaluationRecord{
		SourceText: expr.Text,
		Messages:   s.messages,
		Stdout:     s.stdout.String(),
		Graphics:   s.graphics,
	}
	if evalErr != nil {
		rec.Messages = append(rec.Messages, domain.Message{
			Severity: domain.SeverityError,
			Text:     fmt.Sprintf("Error: %s", evalErr.Error()),
		})
		return rec
	}

	rec.Value = &value
	rec.TypeTag = value.TypeTag()
	if visible {
		rec.Printed = formatValue(value, h.opts.Digits, h.opts.Width)
	}
	return rec
}
