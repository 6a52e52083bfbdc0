// internal/browser/manager_test.go
package browser

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/docpilot/docpilot/api/schemas"
	"github.com/docpilot/docpilot/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	return &config.Config{
		Browser: config.BrowserConfig{
			Headless:       true,
			ViewportWidth:  1280,
			ViewportHeight: 800,
		},
		Timing: config.TimingConfig{
			NavigationTimeout: time.Second,
			ElementTimeout:    200 * time.Millisecond,
			PostLoadWait:      0,
			LaunchProbe:       time.Second,
			TypeRate:          1000,
		},
		Docs: config.DocsConfig{
			BaseURL:           "https://docs.google.com",
			FrameNameFragment: "texteventtarget",
			FrameURLFragment:  "docs.google.com/document",
			DefaultListLimit:  25,
		},
	}
}

// countingLaunch is a launchFunc that never touches a real browser.
func countingLaunch(n *atomic.Int32) launchFunc {
	return func(ctx context.Context) (context.Context, context.CancelFunc, error) {
		n.Add(1)
		tabCtx, cancel := context.WithCancel(context.Background())
		return tabCtx, cancel, nil
	}
}

func TestManagerAcquireLaunchesExactlyOnce(t *testing.T) {
	m := NewManager(testConfig(), zaptest.NewLogger(t))
	var launches atomic.Int32
	m.launch = countingLaunch(&launches)
	defer func() { require.NoError(t, m.Shutdown(context.Background())) }()

	first, err := m.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	for i := 0; i < 3; i++ {
		again, err := m.Acquire(context.Background())
		require.NoError(t, err)
		assert.Same(t, first, again, "repeated acquisition must return the cached session")
	}
	assert.Equal(t, int32(1), launches.Load())
}

func TestManagerAcquireConcurrentSharesOneLaunch(t *testing.T) {
	m := NewManager(testConfig(), zaptest.NewLogger(t))
	var launches atomic.Int32
	m.launch = countingLaunch(&launches)
	defer func() { require.NoError(t, m.Shutdown(context.Background())) }()

	const callers = 16
	sessions := make([]schemas.Session, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Acquire(context.Background())
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), launches.Load())
	for i := 1; i < callers; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
}

func TestManagerAcquireRelaunchesAfterShutdown(t *testing.T) {
	m := NewManager(testConfig(), zaptest.NewLogger(t))
	var launches atomic.Int32
	m.launch = countingLaunch(&launches)

	_, err := m.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Shutdown(context.Background()))

	_, err = m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), launches.Load())
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestManagerAcquireLaunchFailure(t *testing.T) {
	m := NewManager(testConfig(), zaptest.NewLogger(t))
	m.launch = func(ctx context.Context) (context.Context, context.CancelFunc, error) {
		return nil, nil, errors.New("chrome executable not found")
	}

	s, err := m.Acquire(context.Background())
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Equal(t, schemas.CodeEnvironment, schemas.CodeOf(err))

	// A failed launch must not leave a session behind.
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestManagerShutdownDuringLaunchDiscardsSession(t *testing.T) {
	m := NewManager(testConfig(), zaptest.NewLogger(t))
	started := make(chan struct{})
	release := make(chan struct{})
	var torndown atomic.Bool
	m.launch = func(ctx context.Context) (context.Context, context.CancelFunc, error) {
		close(started)
		<-release
		tabCtx, cancel := context.WithCancel(context.Background())
		return tabCtx, func() {
			torndown.Store(true)
			cancel()
		}, nil
	}

	acquireErr := make(chan error, 1)
	go func() {
		_, err := m.Acquire(context.Background())
		acquireErr <- err
	}()

	<-started
	require.NoError(t, m.Shutdown(context.Background()))
	close(release)

	err := <-acquireErr
	require.Error(t, err)
	assert.Equal(t, schemas.CodeEnvironment, schemas.CodeOf(err))
	assert.True(t, torndown.Load(), "the raced launch must tear its browser down")

	// The manager stays usable afterwards.
	m.launch = countingLaunch(&atomic.Int32{})
	_, err = m.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestManagerShutdownWithoutLaunchIsNoop(t *testing.T) {
	m := NewManager(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
}
