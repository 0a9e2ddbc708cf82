package reconcile

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/metaglot/termsync/pkg/errors"
	"github.com/metaglot/termsync/pkg/logging"
)

// DefaultSystemActor is the actor recorded on freshly minted audit
// stamps when no actor is configured.
const DefaultSystemActor = "urn:li:corpUser:termsync"

// options configures a Reconciler.
type options struct {
	actor string
	now   func() time.Time
	log   *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		actor: DefaultSystemActor,
		now:   time.Now,
		log:   logging.Default(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithSystemActor sets the actor recorded on freshly minted audit stamps.
func WithSystemActor(actor string) Option {
	return func(o *options) error {
		if actor == "" {
			return &errors.ValidationError{
				Field:   "actor",
				Message: "cannot be empty",
			}
		}
		o.actor = actor
		return nil
	}
}

// WithClock sets the time source used when minting audit stamps.
// Tests use this to pin stamp times.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.now = now
		return nil
	}
}

// WithLogger sets the logger used for merge diagnostics.
func WithLogger(log *zerolog.Logger) Option {
	return func(o *options) error {
		if log == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.log = log
		return nil
	}
}
