// internal/browser/context_utils.go
package browser

import "context"

// combineContext derives a context from primary (the session context carrying
// CDP connection values) that is additionally canceled when secondary (the
// operational context) is done. chromedp actions must run on a context
// descending from the session context, so a plain child of the caller's
// context would lose the connection.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)

	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}
