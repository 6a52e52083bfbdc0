// api/schemas/interfaces.go
package schemas

import (
	"context"
	"time"
)

// ResolveMethod records how a surface was located within the page.
type ResolveMethod string

const (
	// ResolvedFrameName means a nested rendering context matched by name fragment.
	ResolvedFrameName ResolveMethod = "frame-name"
	// ResolvedFrameURL means a nested rendering context matched by URL fragment.
	ResolvedFrameURL ResolveMethod = "frame-url"
	// ResolvedTopLevel means the top-level page itself is the surface.
	ResolvedTopLevel ResolveMethod = "top-level"
)

// Surface is a resolved, actionable rendering context: the top-level page or a
// nested editing context. A Surface is valid only until the next navigation of
// the session that produced it.
type Surface interface {
	// Method reports how this surface was resolved.
	Method() ResolveMethod

	// WaitVisible blocks until the locator is visible or the timeout elapses.
	WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error
	// Click clicks the element matching the locator.
	Click(ctx context.Context, loc Locator) error
	// ClickType clicks the element and types text into it.
	ClickType(ctx context.Context, loc Locator, text string) error
	// TypeActive types text into whatever element currently holds focus. Used
	// for the Docs editing context, which accepts input without a target
	// element. No read-back verification is performed.
	TypeActive(ctx context.Context, text string) error
	// SendChord dispatches a key chord as an ordered press/release sequence.
	SendChord(ctx context.Context, chord KeyChord) error

	// Text reads the rendered text content of the element. Rendered content
	// lives on the page even when input routes through a nested frame.
	Text(ctx context.Context, loc Locator) (string, error)
	// Location reports the page URL the surface currently shows.
	Location(ctx context.Context) (string, error)
	// Title reports the page title the surface currently shows.
	Title(ctx context.Context) (string, error)
	// Rows enumerates the row-oriented document listing under loc, in DOM order.
	Rows(ctx context.Context, loc Locator) ([]DocumentRow, error)

	// Settle waits out a fixed delay standing in for an unobservable remote
	// state transition. Fakes may return immediately.
	Settle(ctx context.Context, d time.Duration) error
}

// Session is the single owned browser-page pair. It is exclusively owned by
// one orchestrator instance; callers must serialize operations.
type Session interface {
	// Navigate loads url and waits for the page to stabilize. Navigation
	// invalidates every previously resolved Surface.
	Navigate(ctx context.Context, url string) error
	// ResolveEditor navigates to url and resolves the mounted editing surface,
	// preferring a matching nested rendering context over the top-level page.
	ResolveEditor(ctx context.Context, url string) (Surface, error)
	// ResolveListing navigates to url and resolves the top-level tabular
	// region of a document listing view.
	ResolveListing(ctx context.Context, url string) (Surface, error)
}

// BrowserManager owns the lifecycle of exactly one browser instance.
type BrowserManager interface {
	// Acquire returns the live session, launching the browser on first use.
	// Acquisition is idempotent: concurrent callers share one launch.
	Acquire(ctx context.Context) (Session, error)
	// Shutdown closes the session and terminates the browser process. Safe to
	// call when nothing was ever launched.
	Shutdown(ctx context.Context) error
}
