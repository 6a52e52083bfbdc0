// internal/browser/executor.go
package browser

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/docpilot/docpilot/api/schemas"
)

// defaultStepTimeout bounds primary-locator waits when a step declares none.
const defaultStepTimeout = 10 * time.Second

// Executor performs single logical UI actions with a primary-locator /
// fallback-shortcut strategy. The two-path contract is not error recovery:
// each step executes exactly one of the primary interaction or the fallback
// chord.
type Executor struct {
	logger *zap.Logger
}

func NewExecutor(logger *zap.Logger) *Executor {
	return &Executor{logger: logger.Named("executor")}
}

// Execute runs one action step against the surface and reports which path
// executed. The fallback chord is attempted only when the primary locator
// never appeared within the step's timeout; any other failure propagates
// unchanged.
func (e *Executor) Execute(ctx context.Context, surface schemas.Surface, step schemas.ActionStep) (schemas.StepPath, error) {
	path, err := e.execute(ctx, surface, step)
	if err != nil {
		return path, err
	}
	if step.SettleAfter > 0 {
		if err := surface.Settle(ctx, step.SettleAfter); err != nil {
			return path, err
		}
	}
	return path, nil
}

func (e *Executor) execute(ctx context.Context, surface schemas.Surface, step schemas.ActionStep) (schemas.StepPath, error) {
	log := e.logger.With(zap.String("step", step.Name))

	// A step may be pure-chord: no locator declared at all.
	if step.Primary.IsZero() {
		if step.Fallback == nil {
			return "", schemas.NewError(schemas.CodeElementNotFound,
				"step %q declares neither a locator nor a key chord", step.Name)
		}
		log.Debug("Dispatching chord (no primary locator).", zap.String("chord", step.Fallback.String()))
		if err := surface.SendChord(ctx, *step.Fallback); err != nil {
			return "", err
		}
		return schemas.PathFallback, nil
	}

	timeout := step.Timeout
	if timeout <= 0 {
		timeout = defaultStepTimeout
	}

	waitErr := surface.WaitVisible(ctx, step.Primary, timeout)
	if waitErr == nil {
		log.Debug("Primary locator visible.", zap.String("locator", step.Primary.String()))
		switch step.Kind {
		case schemas.ActionType:
			if err := surface.ClickType(ctx, step.Primary, step.Text); err != nil {
				return "", err
			}
		default:
			if err := surface.Click(ctx, step.Primary); err != nil {
				return "", err
			}
		}
		return schemas.PathPrimary, nil
	}

	if !locatorAbsent(ctx, waitErr) {
		// A canceled caller or a dead surface is not "locator absent"; the
		// chord would fail on the same condition, so propagate unchanged.
		return "", waitErr
	}

	if step.Fallback != nil {
		log.Debug("Primary locator absent; dispatching fallback chord.",
			zap.String("locator", step.Primary.String()),
			zap.String("chord", step.Fallback.String()),
			zap.Error(waitErr))
		if err := surface.SendChord(ctx, *step.Fallback); err != nil {
			return "", err
		}
		return schemas.PathFallback, nil
	}

	return "", schemas.WrapError(schemas.CodeElementNotFound, waitErr,
		"element %s never appeared within %s", step.Primary, timeout)
}

// locatorAbsent reports whether a WaitVisible failure means the element never
// appeared within its timeout, as opposed to the caller giving up or the
// surface having been invalidated.
func locatorAbsent(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	var oe *schemas.OpError
	if errors.As(err, &oe) && oe.Code == schemas.CodeSurfaceNotFound {
		return false
	}
	return true
}
