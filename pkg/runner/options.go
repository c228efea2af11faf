package runner

import (
	"log/slog"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the StateStore for persistence.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session ID used for persistence.
// Without it, the session is ephemeral.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithOrderSubmitter forwards the submitted answers as an order.
// The order template supplies the checkout details; its questionnaire is replaced.
func WithOrderSubmitter(sub ports.OrderSubmitter, template domain.Order) Option {
	return func(r *Runner) {
		r.Submitter = sub
		r.OrderTemplate = template
	}
}
