// internal/browser/executor_test.go
package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/docpilot/docpilot/api/schemas"
)

// fakeSurface records interactions instead of driving a browser.
type fakeSurface struct {
	visible map[string]bool
	// waitErr, when set, is returned by WaitVisible regardless of visibility.
	waitErr error

	clicks  []string
	typed   map[string]string
	chords  []schemas.KeyChord
	settled []time.Duration
}

var _ schemas.Surface = (*fakeSurface)(nil)

func newFakeSurface(visible ...string) *fakeSurface {
	f := &fakeSurface{visible: make(map[string]bool), typed: make(map[string]string)}
	for _, v := range visible {
		f.visible[v] = true
	}
	return f
}

func (f *fakeSurface) Method() schemas.ResolveMethod { return schemas.ResolvedTopLevel }

func (f *fakeSurface) WaitVisible(ctx context.Context, loc schemas.Locator, timeout time.Duration) error {
	if f.waitErr != nil {
		return f.waitErr
	}
	if f.visible[loc.Query] {
		return nil
	}
	return errors.New("waiting for selector timed out")
}

func (f *fakeSurface) Click(ctx context.Context, loc schemas.Locator) error {
	f.clicks = append(f.clicks, loc.Query)
	return nil
}

func (f *fakeSurface) ClickType(ctx context.Context, loc schemas.Locator, text string) error {
	f.clicks = append(f.clicks, loc.Query)
	f.typed[loc.Query] = text
	return nil
}

func (f *fakeSurface) TypeActive(ctx context.Context, text string) error { return nil }

func (f *fakeSurface) SendChord(ctx context.Context, chord schemas.KeyChord) error {
	f.chords = append(f.chords, chord)
	return nil
}

func (f *fakeSurface) Text(ctx context.Context, loc schemas.Locator) (string, error) {
	return "", nil
}

func (f *fakeSurface) Location(ctx context.Context) (string, error) { return "", nil }

func (f *fakeSurface) Title(ctx context.Context) (string, error) { return "", nil }

func (f *fakeSurface) Rows(ctx context.Context, loc schemas.Locator) ([]schemas.DocumentRow, error) {
	return nil, nil
}

func (f *fakeSurface) Settle(ctx context.Context, d time.Duration) error {
	f.settled = append(f.settled, d)
	return nil
}

func TestExecutePrimaryClick(t *testing.T) {
	surface := newFakeSurface("#boldButton")
	exec := NewExecutor(zaptest.NewLogger(t))

	path, err := exec.Execute(context.Background(), surface, schemas.ActionStep{
		Name:    "toggle-bold",
		Primary: schemas.Css("#boldButton"),
	})
	require.NoError(t, err)
	assert.Equal(t, schemas.PathPrimary, path)
	assert.Equal(t, []string{"#boldButton"}, surface.clicks)
	assert.Empty(t, surface.chords)
}

func TestExecutePrimaryType(t *testing.T) {
	surface := newFakeSurface(".docs-title-input")
	exec := NewExecutor(zaptest.NewLogger(t))

	path, err := exec.Execute(context.Background(), surface, schemas.ActionStep{
		Name:    "rename-title",
		Primary: schemas.Css(".docs-title-input"),
		Kind:    schemas.ActionType,
		Text:    "Quarterly Notes",
	})
	require.NoError(t, err)
	assert.Equal(t, schemas.PathPrimary, path)
	assert.Equal(t, "Quarterly Notes", surface.typed[".docs-title-input"])
}

func TestExecuteFallbackChordWhenPrimaryAbsent(t *testing.T) {
	surface := newFakeSurface() // nothing visible
	exec := NewExecutor(zaptest.NewLogger(t))
	chord := schemas.KeyChord{Name: "bold", Modifiers: []string{"Control"}, Key: "b"}

	path, err := exec.Execute(context.Background(), surface, schemas.ActionStep{
		Name:     "toggle-bold",
		Primary:  schemas.Css("#boldButton"),
		Fallback: &chord,
		Timeout:  10 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, schemas.PathFallback, path)
	assert.Empty(t, surface.clicks)
	require.Len(t, surface.chords, 1)
	assert.Equal(t, "bold", surface.chords[0].Name)
}

func TestExecuteNoFallbackOnCanceledCaller(t *testing.T) {
	surface := newFakeSurface() // nothing visible
	exec := NewExecutor(zaptest.NewLogger(t))
	chord := schemas.KeyChord{Name: "bold", Modifiers: []string{"Control"}, Key: "b"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exec.Execute(ctx, surface, schemas.ActionStep{
		Name:     "toggle-bold",
		Primary:  schemas.Css("#boldButton"),
		Fallback: &chord,
		Timeout:  10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Empty(t, surface.chords, "a canceled caller is not a missing locator")
}

func TestExecuteNoFallbackOnStaleSurface(t *testing.T) {
	surface := newFakeSurface()
	surface.waitErr = schemas.NewError(schemas.CodeSurfaceNotFound,
		"surface invalidated by a subsequent navigation")
	exec := NewExecutor(zaptest.NewLogger(t))
	chord := schemas.KeyChord{Name: "bold", Modifiers: []string{"Control"}, Key: "b"}

	_, err := exec.Execute(context.Background(), surface, schemas.ActionStep{
		Name:     "toggle-bold",
		Primary:  schemas.Css("#boldButton"),
		Fallback: &chord,
		Timeout:  10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, schemas.CodeSurfaceNotFound, schemas.CodeOf(err))
	assert.Empty(t, surface.chords, "a dead surface is not a missing locator")
}

func TestExecuteElementNotFoundNamesLocator(t *testing.T) {
	surface := newFakeSurface()
	exec := NewExecutor(zaptest.NewLogger(t))

	_, err := exec.Execute(context.Background(), surface, schemas.ActionStep{
		Name:    "open-share",
		Primary: schemas.Css("#docs-titlebar-share-client-button"),
		Timeout: 10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, schemas.CodeElementNotFound, schemas.CodeOf(err))
	assert.Contains(t, err.Error(), "#docs-titlebar-share-client-button")
}

func TestExecutePureChordStep(t *testing.T) {
	surface := newFakeSurface()
	exec := NewExecutor(zaptest.NewLogger(t))
	chord := schemas.KeyChord{Name: "select-all", Modifiers: []string{"Control"}, Key: "a"}

	path, err := exec.Execute(context.Background(), surface, schemas.ActionStep{
		Name:     "select-all",
		Fallback: &chord,
	})
	require.NoError(t, err)
	assert.Equal(t, schemas.PathFallback, path)
	require.Len(t, surface.chords, 1)
}

func TestExecuteEmptyStepRejected(t *testing.T) {
	surface := newFakeSurface()
	exec := NewExecutor(zaptest.NewLogger(t))

	_, err := exec.Execute(context.Background(), surface, schemas.ActionStep{Name: "empty"})
	require.Error(t, err)
	assert.Equal(t, schemas.CodeElementNotFound, schemas.CodeOf(err))
}

func TestExecuteSettlesAfterAction(t *testing.T) {
	surface := newFakeSurface("#boldButton")
	exec := NewExecutor(zaptest.NewLogger(t))

	_, err := exec.Execute(context.Background(), surface, schemas.ActionStep{
		Name:        "toggle-bold",
		Primary:     schemas.Css("#boldButton"),
		SettleAfter: 250 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, surface.settled)
}
