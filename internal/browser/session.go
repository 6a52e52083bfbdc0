// internal/browser/session.go
package browser

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/docpilot/docpilot/api/schemas"
	"github.com/docpilot/docpilot/internal/config"
)

// runActionsFunc executes chromedp actions on a context descending from a
// session or frame context. Injected so logic around it stays testable
// without a live CDP connection.
type runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error

// frameContextFunc derives a chromedp context bound to a specific target.
type frameContextFunc func(parent context.Context, id target.ID) (context.Context, context.CancelFunc)

// listTargetsFunc enumerates the browser's current targets.
type listTargetsFunc func(ctx context.Context) ([]*target.Info, error)

// Session is the single owned browser-page pair. All mutation of the remote
// document flows through surfaces resolved from it; it is never handed to
// callers directly.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *zap.Logger

	// limiter paces simulated typing so Docs' input pipeline keeps up.
	limiter *rate.Limiter

	run      runActionsFunc
	frameCtx frameContextFunc
	targets  listTargetsFunc

	// epoch increments on every navigation. Surfaces capture the epoch they
	// were resolved under and refuse to act once it has moved on.
	epoch atomic.Int64

	mu       sync.Mutex
	isClosed bool
	// frameCancel releases the chromedp context of the currently resolved
	// nested frame, if any. Held by the session rather than the surface so
	// the navigation that invalidates the surface can also free its target
	// attachment.
	frameCancel context.CancelFunc
}

var _ schemas.Session = (*Session)(nil)

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger) *Session {
	id := uuid.New().String()
	s := &Session{
		id:      id,
		ctx:     ctx,
		cancel:  cancel,
		cfg:     cfg,
		logger:  logger.Named("session").With(zap.String("session_id", id)),
		limiter: rate.NewLimiter(rate.Limit(cfg.Timing.TypeRate), 1),
	}
	s.run = chromedp.Run
	s.frameCtx = func(parent context.Context, id target.ID) (context.Context, context.CancelFunc) {
		return chromedp.NewContext(parent, chromedp.WithTargetID(id))
	}
	s.targets = s.listTargets
	return s
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string { return s.id }

// Navigate loads url and waits for the page to stabilize. Every previously
// resolved surface becomes invalid the moment this is called, and the nested
// frame context of the previous surface (if any) is released with it.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))
	s.epoch.Add(1)
	s.releaseFrame()

	opCtx, opCancel := combineContext(s.ctx, ctx)
	defer opCancel()

	navCtx, navCancel := context.WithTimeout(opCtx, s.cfg.Timing.NavigationTimeout)
	defer navCancel()

	if err := s.run(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return schemas.WrapError(schemas.CodeRemoteInteraction, err,
				"navigation to %s timed out after %s", url, s.cfg.Timing.NavigationTimeout)
		}
		return schemas.WrapError(schemas.CodeRemoteInteraction, err, "navigation to %s failed", url)
	}

	s.stabilize(opCtx)
	return opCtx.Err()
}

// stabilize waits for the DOM to be ready, then sits out the post-load quiet
// period. Docs keeps loading well past document-ready; the fixed wait stands
// in for a network-quiescence signal.
func (s *Session) stabilize(ctx context.Context) {
	readyCtx, cancel := context.WithTimeout(ctx, s.cfg.Timing.ElementTimeout)
	defer cancel()
	if err := s.run(readyCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		s.logger.Debug("WaitReady failed during stabilization.", zap.Error(err))
	}

	if s.cfg.Timing.PostLoadWait > 0 {
		select {
		case <-time.After(s.cfg.Timing.PostLoadWait):
		case <-ctx.Done():
		}
	}
}

// adoptFrame takes ownership of a resolved frame's cancel, releasing any
// frame adopted before it.
func (s *Session) adoptFrame(cancel context.CancelFunc) {
	s.mu.Lock()
	prev := s.frameCancel
	s.frameCancel = cancel
	s.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// releaseFrame frees the currently adopted frame context, if any.
func (s *Session) releaseFrame() {
	s.mu.Lock()
	cancel := s.frameCancel
	s.frameCancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// listTargets is the production listTargetsFunc, backed by Target.getTargets.
func (s *Session) listTargets(ctx context.Context) ([]*target.Info, error) {
	var infos []*target.Info
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		infos, err = target.GetTargets().Do(ctx)
		return err
	}))
	return infos, err
}

// Close terminates the browser session and the underlying process.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	s.releaseFrame()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
