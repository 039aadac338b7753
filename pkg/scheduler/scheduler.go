package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/korjavin/edentimer/pkg/logger"
)

// Alert carries everything the dispatcher needs when a timer fires. It is
// copied by value into the timer callback; the session that produced it is
// long gone by the time it fires.
type Alert struct {
	ChatID         int64
	TopicID        int
	ObjectiveLabel string
	TimeLabel      string
}

// DispatchFunc is invoked exactly once per registration when its timer fires
type DispatchFunc func(Alert)

// ErrTooLate indicates a fire instant that is not strictly in the future
var ErrTooLate = errors.New("fire instant is not in the future")

// Registry is a one-shot timer registry keyed by chat ID. At most one alert
// is pending per chat: scheduling again for the same chat replaces the
// pending one. The registry is in-memory only; a restart drops all pending
// alerts.
type Registry struct {
	mu       sync.Mutex
	dispatch DispatchFunc
	timers   map[int64]*time.Timer
	now      func() time.Time
	logger   *logger.Logger
}

// New creates a registry dispatching through the given function
func New(dispatch DispatchFunc) *Registry {
	return NewWithClock(dispatch, time.Now)
}

// NewWithClock creates a registry with an explicit clock
func NewWithClock(dispatch DispatchFunc, now func() time.Time) *Registry {
	return &Registry{
		dispatch: dispatch,
		timers:   make(map[int64]*time.Timer),
		now:      now,
		logger:   logger.New("scheduler"),
	}
}

// ScheduleOnce registers a one-shot alert for a.ChatID firing at fireAt.
// A pending alert for the same chat is cancelled and replaced. Returns
// ErrTooLate without registering anything if fireAt is not strictly after
// now.
func (r *Registry) ScheduleOnce(fireAt time.Time, a Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delay := fireAt.Sub(r.now())
	if delay <= 0 {
		return ErrTooLate
	}

	if prev, ok := r.timers[a.ChatID]; ok {
		prev.Stop()
		r.logger.Info("Replacing pending alert for chat %d", a.ChatID)
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		r.mu.Lock()
		// A replacement may have raced the firing; only the current
		// registration owns the map slot.
		if r.timers[a.ChatID] == t {
			delete(r.timers, a.ChatID)
		}
		r.mu.Unlock()
		r.dispatch(a)
	})
	r.timers[a.ChatID] = t

	r.logger.Info("Alert for chat %d scheduled in %v", a.ChatID, delay.Round(time.Second))
	return nil
}

// Pending returns the number of registered alerts that have not fired
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Stop cancels all pending alerts
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for chatID, t := range r.timers {
		t.Stop()
		delete(r.timers, chatID)
	}
	r.logger.Info("All pending alerts cancelled")
}
