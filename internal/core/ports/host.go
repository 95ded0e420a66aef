package ports

import (
	"context"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
)

// Host executes one expression against a live environment, capturing the
// complete evaluation record: value, printed form, type tag, diagnostic
// messages, stdout text, and any graphics artifact produced as a side effect.
//
// Evaluation failures are captured as error-severity messages inside the
// record, never returned as Go errors; the error return is reserved for
// host-level failures that must abort the batch.
//
//go:generate go run go.uber.org/mock/mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type Host interface {
	Execute(ctx context.Context, expr domain.Expression, env *lang.Env) (domain.EvaluationRecord, error)
}
