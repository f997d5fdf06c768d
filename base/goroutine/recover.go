package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverOptions struct {
	afterRecovered func(p *PanicEvent)
}

type RecoverOptionsFunc = func(*RecoverOptions)

// WithAfterRecovered is called with the recovered panic after it was logged.
func WithAfterRecovered(f func(p *PanicEvent)) RecoverOptionsFunc {
	return func(options *RecoverOptions) {
		options.afterRecovered = f
	}
}

// Recoverable runs f on the calling goroutine. A panic inside f is logged on c
// and returned instead of unwinding further; nil means f returned normally.
func Recoverable(c ctx.Ctx, f func(), fns ...RecoverOptionsFunc) (pe *PanicEvent) {
	opts := RecoverOptions{}
	for _, fn := range fns {
		fn(&opts)
	}

	defer func() {
		if p := recover(); p != nil {
			pe = &PanicEvent{Panic: p, Stack: debug.Stack()}

			c.WithFields(log.Fields{
				"err":   p,
				"stack": string(pe.Stack),
			}).Error("panic")

			if opts.afterRecovered != nil {
				opts.afterRecovered(pe)
			}
		}
	}()

	f()
	return nil
}
