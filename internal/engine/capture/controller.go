// Package capture implements the evaluation capture controller: the state
// machine that takes each expression from key building through cache probe
// to replay or live execution.
package capture

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/envdiff"
	"go.trai.ch/memo/internal/engine/keyer"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

// Status represents the lifecycle state of one expression's evaluation.
type Status string

const (
	// StatusPending indicates the expression is waiting to be processed.
	StatusPending Status = "Pending"
	// StatusKeyBuilt indicates a cache key was computed.
	StatusKeyBuilt Status = "KeyBuilt"
	// StatusHit indicates the store held an entry for the key.
	StatusHit Status = "Hit"
	// StatusMiss indicates the store held no entry for the key.
	StatusMiss Status = "Miss"
	// StatusReplayed indicates the cached diff was applied without execution.
	StatusReplayed Status = "Replayed"
	// StatusExecuted indicates the expression ran against the live
	// environment, either on a miss or as a cache bypass.
	StatusExecuted Status = "Executed"
	// StatusCompleted indicates an EvaluationRecord was produced.
	StatusCompleted Status = "Completed"
)

// Session is the per-call evaluation state: the live environment, the
// memoized object-hash table, and the active cache store backend. Sessions
// are single-owner; expressions within one session run strictly in order.
type Session struct {
	Env     *lang.Env
	Hasher  *keyer.Hasher
	Keys    *keyer.KeyBuilder
	Tracker *envdiff.Tracker
	Store   ports.CacheStore
	Opts    domain.Options
}

// NewSession creates a Session over env and store with a fresh object-hash
// table. The table is never persisted across sessions.
func NewSession(env *lang.Env, store ports.CacheStore, opts domain.Options) *Session {
	hasher := keyer.NewHasher()
	return &Session{
		Env:     env,
		Hasher:  hasher,
		Keys:    keyer.NewKeyBuilder(hasher),
		Tracker: envdiff.NewTracker(hasher),
		Store:   store,
		Opts:    opts,
	}
}

// Controller orchestrates per-expression evaluation capture.
type Controller struct {
	host      ports.Host
	logger    ports.Logger
	telemetry ports.Telemetry

	mu     sync.RWMutex
	status map[int]Status
}

// NewController creates a Controller over the given host and sinks.
func NewController(host ports.Host, logger ports.Logger, telemetry ports.Telemetry) *Controller {
	return &Controller{
		host:      host,
		logger:    logger,
		telemetry: telemetry,
		status:    make(map[int]Status),
	}
}

// Run evaluates the expressions strictly in source order against the
// session's environment. Every expression yields exactly one
// EvaluationRecord; captured evaluation failures do not stop the batch. The
// returned error is reserved for host-level failures, which abort the
// remaining expressions.
func (c *Controller) Run(ctx context.Context, exprs []domain.Expression, s *Session) ([]domain.EvaluationRecord, error) {
	records := make([]domain.EvaluationRecord, 0, len(exprs))
	for i := range exprs {
		c.updateStatus(i, StatusPending)
	}

	for i, expr := range exprs {
		rec, err := c.evaluate(ctx, i, expr, s)
		if err != nil {
			return records, zerr.With(zerr.Wrap(err, "expression evaluation aborted"), "source", expr.Text)
		}
		records = append(records, rec)
		c.updateStatus(i, StatusCompleted)
	}
	return records, nil
}

// Close flushes and closes the telemetry stream.
func (c *Controller) Close() error {
	return c.telemetry.Close()
}

// Status reports the lifecycle state of the i-th expression of the last Run.
func (c *Controller) Status(i int) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status[i]
}

func (c *Controller) updateStatus(i int, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[i] = status
}

func (c *Controller) evaluate(ctx context.Context, i int, expr domain.Expression, s *Session) (domain.EvaluationRecord, error) {
	ctx, vertex := c.telemetry.Record(ctx, expr.Text)

	key, haveKey := c.buildKey(i, expr, s)

	if haveKey && s.Opts.CacheEnabled {
		if rec, ok := c.tryReplay(i, key, expr, s, vertex); ok {
			return rec, nil
		}
	}

	rec, diff, cost, err := c.executeLive(ctx, i, expr, s)
	if err != nil {
		vertex.Complete(err)
		return domain.EvaluationRecord{}, err
	}

	if haveKey {
		c.maybeStore(key, expr, rec, diff, cost, s)
	}

	c.finishVertex(vertex, rec)
	return rec, nil
}

// buildKey runs decomposition and key building. A failure of either is a
// cache bypass for this expression, never a batch error.
func (c *Controller) buildKey(i int, expr domain.Expression, s *Session) (domain.CacheKey, bool) {
	parts, err := keyer.Decompose(expr)
	if err != nil {
		c.logger.Debug("cache bypass: decomposition failed", "source", expr.Text, "error", err)
		return domain.CacheKey{}, false
	}

	key, err := s.Keys.BuildKey(parts, s.Env, s.Opts)
	if err != nil {
		c.logger.Debug("cache bypass: free variable not hashable", "source", expr.Text, "error", err)
		return domain.CacheKey{}, false
	}

	c.updateStatus(i, StatusKeyBuilt)
	c.logger.Debug("key built", "key", key.Hex(), "source", expr.Text)
	return key, true
}

// tryReplay probes the store and replays the diff on a hit. Returns the
// stored record unchanged on success; on any failure the caller proceeds to
// live execution.
func (c *Controller) tryReplay(i int, key domain.CacheKey, expr domain.Expression, s *Session, vertex ports.Vertex) (domain.EvaluationRecord, bool) {
	entry, err := s.Store.Get(key)
	if err != nil {
		c.logger.Warn("cache read failed; evaluating live", "key", key.Hex(), "error", err)
		return domain.EvaluationRecord{}, false
	}
	if entry == nil {
		c.updateStatus(i, StatusMiss)
		c.logger.Debug("cache miss", "key", key.Hex())
		return domain.EvaluationRecord{}, false
	}

	c.updateStatus(i, StatusHit)
	if err := s.Tracker.Replay(entry.Diff, s.Env); err != nil {
		// Stale or incompatible entry. Left in place for manual invalidation.
		c.logger.Warn("replay failed; falling back to live execution", "key", key.Hex(), "error", err)
		return domain.EvaluationRecord{}, false
	}

	c.updateStatus(i, StatusReplayed)
	c.logger.Info("cache hit", "key", key.Hex(), "source", expr.Text)
	vertex.Cached()
	c.finishVertex(vertex, entry.Record)
	return entry.Record, true
}

func (c *Controller) executeLive(ctx context.Context, i int, expr domain.Expression, s *Session) (domain.EvaluationRecord, domain.EnvironmentDiff, time.Duration, error) {
	before := s.Tracker.Snapshot(s.Env)

	start := time.Now()
	rec, err := c.host.Execute(ctx, expr, s.Env)
	cost := time.Since(start)
	if err != nil {
		return domain.EvaluationRecord{}, domain.EnvironmentDiff{}, 0, zerr.Wrap(err, "host execution failed")
	}
	c.updateStatus(i, StatusExecuted)

	diff, err := s.Tracker.Capture(before, s.Env)
	if err != nil {
		// The mutation set cannot back a cache entry; the record itself is
		// still valid. Signal "do not store" with an empty-but-poisoned diff.
		c.logger.Debug("diff not cacheable", "source", expr.Text, "error", err)
		return rec, domain.EnvironmentDiff{}, -1, nil
	}
	return rec, diff, cost, nil
}

// maybeStore applies the conditional write policy: only when caching is
// enabled and the evaluation cost at least the configured minimum.
func (c *Controller) maybeStore(key domain.CacheKey, expr domain.Expression, rec domain.EvaluationRecord, diff domain.EnvironmentDiff, cost time.Duration, s *Session) {
	if !s.Opts.CacheEnabled || cost < 0 || cost < s.Opts.MinCacheCost {
		return
	}
	entry := domain.CacheEntry{
		Record:   rec,
		Diff:     diff,
		StoredAt: time.Now(),
		Cost:     cost,
	}
	if err := s.Store.Put(key, entry); err != nil {
		// Write failures degrade silently to "always evaluate live".
		c.logger.Warn("cache write failed", "key", key.Hex(), "source", expr.Text, "error", err)
	}
}

func (c *Controller) finishVertex(vertex ports.Vertex, rec domain.EvaluationRecord) {
	if rec.Stdout != "" {
		_, _ = vertex.Stdout().Write([]byte(rec.Stdout))
	}
	for _, m := range rec.Messages {
		switch m.Severity {
		case domain.SeverityError:
			vertex.Log(domain.LogLevelError, m.Text)
		case domain.SeverityWarning:
			vertex.Log(domain.LogLevelWarn, m.Text)
		default:
			vertex.Log(domain.LogLevelInfo, m.Text)
		}
	}
	vertex.Complete(nil)
}
