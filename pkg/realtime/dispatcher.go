package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/doshii/pkg/errors"
	"github.com/agentstation/doshii/pkg/logging"
)

// Dispatcher routes one event to every subscriber registered for it.
type Dispatcher struct {
	registry *Registry
	logger   *zerolog.Logger
}

// NewDispatcher creates a dispatcher reading from registry. A nil logger
// uses the package default.
func NewDispatcher(registry *Registry, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logging.Component(logger, "dispatcher"),
	}
}

// Dispatch invokes, in subscription order, the callback of each subscriber
// registered for event and returns how many completed without panicking.
// Events nobody listens to are ignored. Subscribers removed after the pass
// started are skipped.
func (d *Dispatcher) Dispatch(event EventType, payload json.RawMessage) int {
	ids := d.registry.targets(event)
	delivered := 0
	for _, id := range ids {
		cb, ok := d.registry.callback(id)
		if !ok {
			logging.Subscriber(d.logger, string(id), string(event)).Debug().Msg("Skipping stale subscriber")
			continue
		}
		if err := invoke(id, event, cb, payload); err != nil {
			logging.Subscriber(d.logger, string(id), string(event)).Error().Err(err).Msg("Subscriber callback failed")
			continue
		}
		delivered++
	}
	return delivered
}

func invoke(id SubscriberID, event EventType, cb Callback, payload json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.CallbackError{
				Subscriber: string(id),
				Event:      string(event),
				Recovered:  r,
			}
		}
	}()
	if cb == nil {
		return &errors.CallbackError{
			Subscriber: string(id),
			Event:      string(event),
			Recovered:  fmt.Errorf("nil callback"),
		}
	}
	cb(payload)
	return nil
}
