// internal/browser/resolver.go
package browser

import (
	"context"
	"strings"

	"github.com/chromedp/cdproto/target"
	"go.uber.org/zap"

	"github.com/docpilot/docpilot/api/schemas"
)

// UI contract markers. The Docs editor mounts its canvas under the kix
// application view; the listing home screen renders a row per document.
// These can drift with the remote deployment.
const (
	editorMarkerSelector  = ".kix-appview-editor"
	listingRegionSelector = ".docs-homescreen-documents"
)

// ResolveEditor navigates to url and resolves the mounted editing surface.
//
// Docs routes keyboard input through a nested rendering context (an embedded
// text-event iframe) rather than the top-level page. The resolver prefers a
// context matching the configured name or URL fragment; when none matches but
// the editor marker mounted, the top-level page is the surface. When neither
// is present the page is not an editor at all, and acting on it would
// silently no-op, so this fails loudly instead.
func (s *Session) ResolveEditor(ctx context.Context, url string) (schemas.Surface, error) {
	if err := s.Navigate(ctx, url); err != nil {
		return nil, err
	}

	opCtx, opCancel := combineContext(s.ctx, ctx)
	defer opCancel()

	epoch := s.epoch.Load()

	markerErr := s.waitMarker(opCtx, editorMarkerSelector)

	infos, err := s.targets(opCtx)
	if err != nil {
		s.logger.Debug("Target enumeration failed.", zap.Error(err))
		infos = nil
	}

	if info, method := s.matchFrame(infos); info != nil {
		frameCtx, frameCancel := s.frameCtx(s.ctx, info.TargetID)
		// The session owns the frame's lifetime: the navigation that
		// invalidates this surface also releases its target attachment.
		s.adoptFrame(frameCancel)
		s.logger.Debug("Resolved nested editing context.",
			zap.String("target_id", string(info.TargetID)),
			zap.String("method", string(method)))
		return &cdpSurface{
			sess:   s,
			ctx:    frameCtx,
			method: method,
			epoch:  epoch,
		}, nil
	}

	if markerErr == nil {
		s.logger.Debug("No nested context matched; using top-level page as editing surface.")
		return &cdpSurface{sess: s, ctx: s.ctx, method: schemas.ResolvedTopLevel, epoch: epoch}, nil
	}

	return nil, schemas.WrapError(schemas.CodeSurfaceNotFound, markerErr,
		"editor never mounted at %s (marker %s)", url, editorMarkerSelector)
}

// ResolveListing navigates to url and resolves the top-level tabular region
// of the document listing view. Listing pages embed no editor, so nested
// context matching is skipped entirely.
func (s *Session) ResolveListing(ctx context.Context, url string) (schemas.Surface, error) {
	if err := s.Navigate(ctx, url); err != nil {
		return nil, err
	}

	opCtx, opCancel := combineContext(s.ctx, ctx)
	defer opCancel()

	epoch := s.epoch.Load()

	if err := s.waitMarker(opCtx, listingRegionSelector); err != nil {
		return nil, schemas.WrapError(schemas.CodeSurfaceNotFound, err,
			"document listing never rendered at %s (marker %s)", url, listingRegionSelector)
	}

	return &cdpSurface{sess: s, ctx: s.ctx, method: schemas.ResolvedTopLevel, epoch: epoch}, nil
}

// waitMarker waits for a mount marker within the element timeout.
func (s *Session) waitMarker(ctx context.Context, selector string) error {
	surface := &cdpSurface{sess: s, ctx: s.ctx, method: schemas.ResolvedTopLevel, epoch: s.epoch.Load()}
	return surface.WaitVisible(ctx, schemas.Css(selector), s.cfg.Timing.ElementTimeout)
}

// matchFrame picks the first iframe target matching the configured name or
// URL fragment, in enumeration order.
func (s *Session) matchFrame(infos []*target.Info) (*target.Info, schemas.ResolveMethod) {
	nameFrag := s.cfg.Docs.FrameNameFragment
	urlFrag := s.cfg.Docs.FrameURLFragment

	for _, info := range infos {
		if info.Type != "iframe" {
			continue
		}
		if nameFrag != "" && (strings.Contains(info.Title, nameFrag) || strings.Contains(info.URL, nameFrag)) {
			return info, schemas.ResolvedFrameName
		}
		if urlFrag != "" && strings.Contains(info.URL, urlFrag) {
			return info, schemas.ResolvedFrameURL
		}
	}
	return nil, ""
}
