// internal/browser/surface.go
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/docpilot/docpilot/api/schemas"
)

// cdpSurface is the production schemas.Surface: a chromedp context bound to
// either the top-level page or a nested iframe target.
// The frame context's cancel (for frame-resolved surfaces) is held by the
// session, which releases it when the next navigation invalidates the surface.
type cdpSurface struct {
	sess   *Session
	ctx    context.Context
	method schemas.ResolveMethod
	// epoch is the session navigation epoch this surface was resolved under.
	epoch int64
}

var _ schemas.Surface = (*cdpSurface)(nil)

func (c *cdpSurface) Method() schemas.ResolveMethod { return c.method }

// ensureValid rejects use of a surface that a later navigation invalidated.
// Without this check a stale selector could silently hit the wrong page.
func (c *cdpSurface) ensureValid() error {
	if c.sess.epoch.Load() != c.epoch {
		return schemas.NewError(schemas.CodeSurfaceNotFound,
			"surface invalidated by a subsequent navigation")
	}
	return nil
}

// runOn executes actions on the surface's own context, bounded by the
// caller's context.
func (c *cdpSurface) runOn(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := c.ensureValid(); err != nil {
		return err
	}
	opCtx, opCancel := combineContext(c.ctx, ctx)
	defer opCancel()
	if timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(opCtx, timeout)
		defer cancel()
	}
	return c.sess.run(opCtx, actions...)
}

func queryOpt(loc schemas.Locator) chromedp.QueryOption {
	if loc.Strategy == schemas.BySearch {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (c *cdpSurface) WaitVisible(ctx context.Context, loc schemas.Locator, timeout time.Duration) error {
	return c.runOn(ctx, timeout, chromedp.WaitVisible(loc.Query, queryOpt(loc)))
}

func (c *cdpSurface) Click(ctx context.Context, loc schemas.Locator) error {
	return c.runOn(ctx, c.sess.cfg.Timing.ElementTimeout,
		chromedp.ScrollIntoView(loc.Query, queryOpt(loc)),
		chromedp.Click(loc.Query, queryOpt(loc)),
	)
}

func (c *cdpSurface) ClickType(ctx context.Context, loc schemas.Locator, text string) error {
	return c.runOn(ctx, c.sess.cfg.Timing.ElementTimeout,
		chromedp.ScrollIntoView(loc.Query, queryOpt(loc)),
		chromedp.Click(loc.Query, queryOpt(loc)),
		chromedp.SendKeys(loc.Query, text, queryOpt(loc)),
	)
}

// TypeActive feeds text to the focused element one character at a time, paced
// by the session's rate limiter. What the document actually ends up holding
// is not read back.
func (c *cdpSurface) TypeActive(ctx context.Context, text string) error {
	if err := c.ensureValid(); err != nil {
		return err
	}
	opCtx, opCancel := combineContext(c.ctx, ctx)
	defer opCancel()

	for _, r := range text {
		if err := c.sess.limiter.Wait(opCtx); err != nil {
			return err
		}
		err := c.sess.run(opCtx, chromedp.SendKeys("document.activeElement", string(r), chromedp.ByJSPath))
		if err != nil {
			return schemas.WrapError(schemas.CodeRemoteInteraction, err, "typing failed at character %q", r)
		}
	}
	return nil
}

func (c *cdpSurface) SendChord(ctx context.Context, chord schemas.KeyChord) error {
	actions, err := chordActions(chord)
	if err != nil {
		return err
	}
	return c.runOn(ctx, c.sess.cfg.Timing.ElementTimeout, actions...)
}

// Text reads textContent off the page context. The nested input frame is a
// bare event sink; everything rendered lives on the page.
func (c *cdpSurface) Text(ctx context.Context, loc schemas.Locator) (string, error) {
	var out string
	err := c.runOnPage(ctx, c.sess.cfg.Timing.ElementTimeout,
		chromedp.Text(loc.Query, &out, queryOpt(loc)))
	return out, err
}

func (c *cdpSurface) Location(ctx context.Context) (string, error) {
	var url string
	err := c.runOnPage(ctx, 0, chromedp.Location(&url))
	return url, err
}

func (c *cdpSurface) Title(ctx context.Context) (string, error) {
	var title string
	err := c.runOnPage(ctx, 0, chromedp.Title(&title))
	return title, err
}

// runOnPage executes actions on the session's page context regardless of how
// the surface itself was resolved.
func (c *cdpSurface) runOnPage(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := c.ensureValid(); err != nil {
		return err
	}
	opCtx, opCancel := combineContext(c.sess.ctx, ctx)
	defer opCancel()
	if timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(opCtx, timeout)
		defer cancel()
	}
	return c.sess.run(opCtx, actions...)
}

// listingRowsJS projects each listing row into its title, locator and
// modified-time attributes. Row shape is part of the remote UI contract.
const listingRowsJS = `(sel => Array.from(document.querySelectorAll(sel)).map(row => {
	const link = row.querySelector('a[href]');
	const title = row.querySelector('.docs-homescreen-list-item-title');
	const modified = row.querySelector('.docs-homescreen-list-item-modified-date');
	return {
		title: (title || row).textContent.trim(),
		url: link ? link.href : (row.dataset ? row.dataset.targetUrl || '' : ''),
		modified: modified ? modified.textContent.trim() : '',
	};
}))`

func (c *cdpSurface) Rows(ctx context.Context, loc schemas.Locator) ([]schemas.DocumentRow, error) {
	var raw []struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		Modified string `json:"modified"`
	}
	err := c.runOn(ctx, c.sess.cfg.Timing.ElementTimeout,
		chromedp.Evaluate(listingRowsJS+"("+jsString(loc.Query)+")", &raw))
	if err != nil {
		return nil, err
	}
	rows := make([]schemas.DocumentRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, schemas.DocumentRow{Title: r.Title, URL: r.URL, Modified: r.Modified})
	}
	return rows, nil
}

func (c *cdpSurface) Settle(ctx context.Context, d time.Duration) error {
	if err := c.ensureValid(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// jsString quotes a string as a safe JS literal.
func jsString(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '\'')
	for _, r := range s {
		switch r {
		case '\'', '\\':
			out = append(out, '\\', r)
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, r)
		}
	}
	return string(append(out, '\''))
}
