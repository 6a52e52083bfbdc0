// internal/docs/pipeline.go
//
// The operation pipeline: every tool is a fixed, named composition of
// navigate-and-resolve, zero or more executor steps, and an optional
// extraction. One run produces exactly one OperationResult; failures absorb
// the run, and nothing is retried or rolled back.
package docs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docpilot/docpilot/api/schemas"
	"github.com/docpilot/docpilot/internal/config"
)

// stepRunner executes a single primary-or-fallback action step.
type stepRunner interface {
	Execute(ctx context.Context, surface schemas.Surface, step schemas.ActionStep) (schemas.StepPath, error)
}

// Pipelines implements the fourteen document operations on top of a browser
// manager and a step runner. One instance drives one session; callers must
// serialize operations — there is no internal queue, and overlapping runs
// race on navigation.
type Pipelines struct {
	manager schemas.BrowserManager
	exec    stepRunner
	cfg     *config.Config
	logger  *zap.Logger
}

func NewPipelines(manager schemas.BrowserManager, exec stepRunner, cfg *config.Config, logger *zap.Logger) *Pipelines {
	return &Pipelines{
		manager: manager,
		exec:    exec,
		cfg:     cfg,
		logger:  logger.Named("docs"),
	}
}

// phases of a pipeline run, logged as the run progresses.
const (
	phaseNavigating = "navigating"
	phaseResolving  = "resolving"
	phaseActing     = "acting"
	phaseExtracting = "extracting"
)

// runState tracks where in the run a failure happened.
type runState struct {
	log   *zap.Logger
	phase string
}

func (r *runState) to(phase string) {
	r.log.Debug("Pipeline phase transition.",
		zap.String("from", r.phase), zap.String("to", phase))
	r.phase = phase
}

// run executes fn under a fresh run ID and folds its outcome into exactly one
// OperationResult. Step errors arrive untouched and are stamped with the
// operation name here, once.
func (p *Pipelines) run(ctx context.Context, op string, fn func(ctx context.Context, st *runState) (any, error)) schemas.OperationResult {
	runID := uuid.New().String()
	log := p.logger.With(zap.String("op", op), zap.String("run_id", runID))
	st := &runState{log: log, phase: "idle"}
	start := time.Now()

	payload, err := fn(ctx, st)
	result := schemas.OperationResult{Op: op, RunID: runID, Duration: time.Since(start)}
	if err != nil {
		result.Err = schemas.WrapOp(op, err)
		log.Warn("Operation failed.",
			zap.String("phase", st.phase),
			zap.String("code", string(result.Err.Code)),
			zap.Error(result.Err),
			zap.Duration("duration", result.Duration))
		return result
	}
	result.Payload = payload
	log.Info("Operation completed.", zap.Duration("duration", result.Duration))
	return result
}

// editor acquires the session and resolves the editing surface of a document.
func (p *Pipelines) editor(ctx context.Context, st *runState, docID string) (schemas.Surface, error) {
	sess, err := p.manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	st.to(phaseNavigating)
	st.to(phaseResolving)
	return sess.ResolveEditor(ctx, DocURL(p.cfg.Docs.BaseURL, docID))
}

// listing acquires the session and resolves the document home screen.
func (p *Pipelines) listing(ctx context.Context, st *runState, query string) (schemas.Surface, error) {
	sess, err := p.manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	st.to(phaseNavigating)
	st.to(phaseResolving)
	return sess.ResolveListing(ctx, ListURL(p.cfg.Docs.BaseURL, query))
}

// settle is the fixed post-action delay standing in for the editor's
// unobservable state propagation.
func (p *Pipelines) settle() time.Duration { return p.cfg.Timing.SettleDelay }

// step builds an ActionStep with the configured element timeout.
func (p *Pipelines) step(name string, primary schemas.Locator, fallback *schemas.KeyChord) schemas.ActionStep {
	return schemas.ActionStep{
		Name:        name,
		Primary:     primary,
		Fallback:    fallback,
		Timeout:     p.cfg.Timing.ElementTimeout,
		SettleAfter: p.settle(),
	}
}

// openFileMenu clicks the File menu open.
func (p *Pipelines) openFileMenu(ctx context.Context, surface schemas.Surface) error {
	_, err := p.exec.Execute(ctx, surface, p.step("open-file-menu", fileMenu, nil))
	return err
}

// selectAll selects the whole document body.
func (p *Pipelines) selectAll(ctx context.Context, surface schemas.Surface) error {
	if err := surface.SendChord(ctx, chordSelectAll); err != nil {
		return err
	}
	return surface.Settle(ctx, p.settle())
}
