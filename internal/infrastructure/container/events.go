package container

import (
	"sync"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// EventDispatcher delivers domain events to in-process handlers
type EventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	log      *zap.Logger
}

var _ shared.EventDispatcher = (*EventDispatcher)(nil)

// NewEventDispatcher creates a new event dispatcher
func NewEventDispatcher(log *zap.Logger) *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]shared.EventHandler),
		log:      log.Named("events"),
	}
}

// Dispatch dispatches an event to registered handlers. Handler failures are
// logged and do not stop the remaining handlers.
func (d *EventDispatcher) Dispatch(event shared.DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers[event.EventName()]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.log.Debug("No handlers registered for event", zap.String("event", event.EventName()))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			d.log.Error("Failed to handle event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Register registers an event handler
func (d *EventDispatcher) Register(event string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[event] = append(d.handlers[event], handler)
	d.log.Debug("Registered event handler", zap.String("event", event))
}

// RegisterEventHandlers subscribes logging and metrics to the recipe
// lifecycle events
func RegisterEventHandlers(d *EventDispatcher, metrics *monitoring.MetricsCollector, log *zap.Logger) {
	log = log.Named("recipe-events")

	record := func(event shared.DomainEvent) error {
		log.Info("Recipe event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
		metrics.RecipeEvent(event.EventName())
		return nil
	}

	for _, name := range []string{
		recipe.RecipeCreatedEvent{}.EventName(),
		recipe.RecipeUpdatedEvent{}.EventName(),
		recipe.RecipeDeletedEvent{}.EventName(),
	} {
		d.Register(name, record)
	}
}
