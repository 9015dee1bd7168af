package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned by Dispatch for an event with no action
var ErrUnknownEvent = errors.New("unknown event")

// EventType names a UI event
type EventType string

const (
	EventLoginSubmit  EventType = "login_submit"
	EventApplyFilters EventType = "apply_filters"
	EventResetFilters EventType = "reset_filters"
	EventLogout       EventType = "logout"
)

// Event is a UI event. Username and Password are only read for login submits.
type Event struct {
	Type     EventType
	Username string
	Password string
}

type action func(ctx context.Context, c *Controller, ev Event) error

var actions = map[EventType]action{
	EventLoginSubmit: func(ctx context.Context, c *Controller, ev Event) error {
		if err := c.Login(ctx, ev.Username, ev.Password); err != nil {
			return err
		}
		return c.Initialize(ctx)
	},
	EventApplyFilters: func(ctx context.Context, c *Controller, _ Event) error {
		return c.Refresh(ctx)
	},
	EventResetFilters: func(ctx context.Context, c *Controller, _ Event) error {
		return c.ResetFilters(ctx)
	},
	EventLogout: func(_ context.Context, c *Controller, _ Event) error {
		c.Logout()
		return nil
	},
}

// Dispatch runs the action bound to ev.Type
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	act, ok := actions[ev.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return act(ctx, c, ev)
}
