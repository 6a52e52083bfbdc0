// internal/browser/manager.go
package browser

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/docpilot/docpilot/api/schemas"
	"github.com/docpilot/docpilot/internal/config"
)

// launchFunc starts a browser and returns a live tab context plus a cancel
// that tears the whole process down. Injected so tests can count launches
// without a real Chrome.
type launchFunc func(ctx context.Context) (context.Context, context.CancelFunc, error)

// Manager owns the lifecycle of exactly one browser instance and one page.
// The browser is launched lazily on first acquisition and reused until
// Shutdown; acquisition is idempotent even under concurrent callers.
type Manager struct {
	cfg    *config.Config
	logger *zap.Logger
	launch launchFunc

	sf singleflight.Group

	mu      sync.Mutex
	session *Session
	// gen increments on every Shutdown; a launch that straddles a Shutdown
	// must not install its session, or the Chrome it started would leak.
	gen uint64
}

var _ schemas.BrowserManager = (*Manager)(nil)

// NewManager creates a browser manager. No browser process is started until
// the first Acquire.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: logger.Named("browser_manager"),
	}
	m.launch = m.launchChrome
	m.logger.Debug("Browser manager created (launch deferred).")
	return m
}

// Acquire returns the live session, launching the browser exactly once.
// Concurrent callers are collapsed onto a single launch via singleflight.
func (m *Manager) Acquire(ctx context.Context) (schemas.Session, error) {
	v, err, _ := m.sf.Do("session", func() (any, error) {
		m.mu.Lock()
		if m.session != nil {
			s := m.session
			m.mu.Unlock()
			return s, nil
		}
		startGen := m.gen
		m.mu.Unlock()

		m.logger.Info("Launching browser instance.")
		tabCtx, cancel, err := m.launch(ctx)
		if err != nil {
			// No partially initialized session must survive a failed launch.
			return nil, schemas.WrapError(schemas.CodeEnvironment, err, "failed to launch browser")
		}

		s := newSession(tabCtx, cancel, m.cfg, m.logger)

		m.mu.Lock()
		if m.gen != startGen {
			m.mu.Unlock()
			// Shutdown overtook the launch; tear the fresh browser down
			// instead of installing it.
			_ = s.Close(ctx)
			m.logger.Warn("Browser launch raced a shutdown; discarding session.",
				zap.String("session_id", s.ID()))
			return nil, schemas.NewError(schemas.CodeEnvironment, "browser manager shut down during launch")
		}
		m.session = s
		m.mu.Unlock()

		m.logger.Info("Browser session established.", zap.String("session_id", s.ID()))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Shutdown closes the session and terminates the browser process. Calling it
// without a live session is a no-op.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	s := m.session
	m.session = nil
	m.gen++
	m.mu.Unlock()

	if s == nil {
		m.logger.Debug("Shutdown requested with no live session.")
		return nil
	}

	m.logger.Info("Shutting down browser session.", zap.String("session_id", s.ID()))
	return s.Close(ctx)
}

// launchChrome is the production launchFunc: it builds the allocator, opens a
// tab, and probes it with about:blank to confirm the process is responsive.
func (m *Manager) launchChrome(ctx context.Context) (context.Context, context.CancelFunc, error) {
	// The allocator context controls the browser process lifetime, which must
	// outlive the acquisition call.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), m.allocatorOptions()...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		m.logger.Sugar().Debugf(format, args...)
	}))
	cancelAll := func() {
		cancelTab()
		cancelAlloc()
	}

	probeCtx, cancelProbe := context.WithTimeout(tabCtx, m.cfg.Timing.LaunchProbe)
	defer cancelProbe()

	if err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank")); err != nil {
		cancelAll()
		return nil, nil, err
	}

	return tabCtx, cancelAll, nil
}

// allocatorOptions assembles the Chrome launch flags from configuration.
func (m *Manager) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	opts = append(opts,
		chromedp.Flag("headless", m.cfg.Browser.Headless),
		// Docs refuses some interactions when it detects automation.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(m.cfg.Browser.ViewportWidth, m.cfg.Browser.ViewportHeight),
	)

	if m.cfg.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.Browser.ExecPath))
	}
	if m.cfg.Browser.UserDataDir != "" {
		// Persistent profile: carries the Google account the operator signed
		// into once by hand.
		opts = append(opts, chromedp.UserDataDir(m.cfg.Browser.UserDataDir))
	}

	// Custom arguments from config, given as "--name" or "--name=value".
	for _, arg := range m.cfg.Browser.Args {
		parts := strings.SplitN(arg, "=", 2)
		name := strings.TrimPrefix(parts[0], "--")
		if len(parts) == 2 {
			opts = append(opts, chromedp.Flag(name, parts[1]))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	// Flags required for containerized Linux environments.
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	return opts
}
