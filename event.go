package fattybrewing

import (
	"time"

	"fattybrewing/internal/logger"
)

type EventKind string

const (
	EventAdded         EventKind = "added"
	EventOverflow      EventKind = "overflow"
	EventRemoved       EventKind = "removed"
	EventHeated        EventKind = "heated"
	EventWortConverted EventKind = "wort_converted"
	EventFermented     EventKind = "fermented"
	EventKegged        EventKind = "kegged"
	EventTransferred   EventKind = "transferred"
)

// Event describes one change to a container's contents. For EventOverflow
// Quantity is the part that did not fit.
type Event struct {
	Kind          EventKind
	ContainerID   string
	ContainerKind Kind
	Substance     string
	Quantity      Quantity
	At            time.Time
}

// HookFunc observes container events. Hooks run while the container is
// locked and must not call back into it.
type HookFunc func(ev Event) error

func (c *Container) OnEvent(hook HookFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

func (c *Container) emit(kind EventKind, substance string, q Quantity) {
	if len(c.hooks) == 0 {
		return
	}
	ev := Event{
		Kind:          kind,
		ContainerID:   c.id,
		ContainerKind: c.kind,
		Substance:     substance,
		Quantity:      q,
		At:            c.now(),
	}
	if err := runHooks(ev, c.hooks); err != nil {
		logger.L().Warn("container.hook_failed", "container", c.label(), "event", string(kind), "err", err)
	}
}

func runHooks(ev Event, hooks []HookFunc) error {
	for _, hook := range hooks {
		if err := hook(ev); err != nil {
			return err
		}
	}
	return nil
}
