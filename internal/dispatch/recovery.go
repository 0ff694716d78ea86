package dispatch

import (
	"context"

	"go.uber.org/zap"
)

// State is the lifecycle of one guarded execution.
type State int

const (
	Executing State = iota
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Executing:
		return "executing"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type body func(ctx context.Context, c *Context) error

// execute runs fn on c, turning a panic into a PanicError.
func execute(ctx context.Context, c *Context, fn body) (state State, err error) {
	state = Executing

	defer func() {
		if r := recover(); r != nil {
			c.Logger().Error("Recovered from panic in command", zap.Any("panic", r), zap.Stack("stack"))
			state, err = Failed, &PanicError{Value: r}
		}
	}()

	if err = fn(ctx, c); err != nil {
		return Failed, err
	}

	return Success, nil
}

// guardPrefix wraps fn for prefix messages. A failure is reported once through
// a context rebuilt from the same parsed text, so the reply does not depend on
// how far the failed body advanced its argument cursor.
func guardPrefix(fn body, format ErrorFormatter) PrefixExecutor {
	return func(ctx context.Context, m Messenger, logger *zap.Logger, req TextRequest) error {
		c := NewTextContext(m, logger, req.invocation())

		state, err := execute(ctx, c, fn)
		if state == Success {
			return nil
		}

		NewTextContext(m, logger, req.invocation()).ReplyError(err, format)

		return err
	}
}

// guardSlash wraps fn for slash interactions.
func guardSlash(fn body, format ErrorFormatter) SlashExecutor {
	return func(ctx context.Context, m Messenger, logger *zap.Logger, inv InteractionInvocation) error {
		c := NewInteractionContext(m, logger, inv)

		state, err := execute(ctx, c, fn)
		if state == Success {
			return nil
		}

		NewInteractionContext(m, logger, inv).ReplyError(err, format)

		return err
	}
}
