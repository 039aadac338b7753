// Package dialogue runs the /timer conversation: a per-chat/user state
// machine collecting an objective, a game day and a game hour, and handing
// the resulting alert to the scheduler.
package dialogue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/korjavin/edentimer/pkg/gametime"
	"github.com/korjavin/edentimer/pkg/logger"
	"github.com/korjavin/edentimer/pkg/messages"
	"github.com/korjavin/edentimer/pkg/scheduler"
)

// WarningLead is how long before the scheduled target the reminder fires
const WarningLead = 5 * time.Minute

// State is the position of a session inside the dialogue
type State string

const (
	// StateAwaitingObjective waits for an objective button
	StateAwaitingObjective State = "awaiting_objective"
	// StateAwaitingDay waits for a day button
	StateAwaitingDay State = "awaiting_day"
	// StateAwaitingTime waits for an hour button
	StateAwaitingTime State = "awaiting_time"
)

var (
	// ErrPermissionDenied rejects a non-admin at the dialogue entry
	ErrPermissionDenied = errors.New("only chat admins may set timers")
	// ErrNoSession means no dialogue is at the step the input belongs to
	ErrNoSession = errors.New("no timer dialogue awaiting this input")
	// ErrBadSelection means the input is outside the offered choice set
	ErrBadSelection = errors.New("selection outside the offered choices")
	// ErrTooClose means the warning instant is not in the future
	ErrTooClose = errors.New("scheduled time is less than the warning lead away")
)

// AdminChecker is the permission gate evaluated at the dialogue entry.
// Implemented by the telegram bot; lookups are bounded by its HTTP timeout.
type AdminChecker interface {
	IsAdmin(chatID, userID int64) (bool, error)
}

// AlertScheduler registers the one-shot alert produced by a completed
// dialogue. Implemented by the scheduler registry.
type AlertScheduler interface {
	ScheduleOnce(fireAt time.Time, a scheduler.Alert) error
}

// Session is one in-flight /timer conversation. The topic ID is captured at
// entry and fixed for the rest of the session.
type Session struct {
	ChatID    int64
	UserID    int64
	TopicID   int
	Objective string
	Day       int
	State     State
}

// Completion reports a dialogue that reached the terminal completed state
type Completion struct {
	Objective string
	Day       int
	Hour      int
	Target    time.Time
	FireAt    time.Time
}

type sessionKey struct {
	chatID int64
	userID int64
}

// Manager owns all in-flight sessions, keyed by chat and user. Steps of one
// session never overlap; sessions of different chats do not interfere.
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session

	perms  AdminChecker
	conv   *gametime.Converter
	alerts AlertScheduler
	logger *logger.Logger
}

// New creates a new dialogue manager
func New(perms AdminChecker, conv *gametime.Converter, alerts AlertScheduler) *Manager {
	return &Manager{
		sessions: make(map[sessionKey]*Session),
		perms:    perms,
		conv:     conv,
		alerts:   alerts,
		logger:   logger.New("dialogue"),
	}
}

// Start opens a session for the given chat/user, replacing any previous one
// for the same pair. Non-admins get ErrPermissionDenied and no session; a
// failed permission lookup aborts the entry without creating a session.
func (m *Manager) Start(chatID, userID int64, topicID int) error {
	ok, err := m.perms.IsAdmin(chatID, userID)
	if err != nil {
		return fmt.Errorf("admin check failed: %w", err)
	}
	if !ok {
		return ErrPermissionDenied
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey{chatID, userID}] = &Session{
		ChatID:  chatID,
		UserID:  userID,
		TopicID: topicID,
		State:   StateAwaitingObjective,
	}
	m.logger.Info("Timer dialogue started in chat %d by user %d", chatID, userID)
	return nil
}

// SelectObjective records the objective choice and advances to the day step.
// Callback data is attacker-controllable, so the key is re-validated even
// though the keyboard only offers valid ones; a bad key leaves the session
// where it is.
func (m *Manager) SelectObjective(chatID, userID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sessions[sessionKey{chatID, userID}]
	if s == nil || s.State != StateAwaitingObjective {
		return ErrNoSession
	}
	if !messages.ValidObjective(key) {
		return ErrBadSelection
	}

	s.Objective = key
	s.State = StateAwaitingDay
	return nil
}

// SelectDay records the game day choice and advances to the hour step
func (m *Manager) SelectDay(chatID, userID int64, day int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sessions[sessionKey{chatID, userID}]
	if s == nil || s.State != StateAwaitingDay {
		return ErrNoSession
	}
	if day < 0 || day > 6 {
		return ErrBadSelection
	}

	s.Day = day
	s.State = StateAwaitingTime
	return nil
}

// SelectHour finishes the dialogue: it computes the next real-world
// occurrence of the chosen game day/hour, derives the warning instant and
// registers the alert. The session ends here either way: ErrTooClose if the
// warning instant is not strictly in the future (nothing scheduled), a
// Completion otherwise.
func (m *Manager) SelectHour(chatID, userID int64, hour int) (Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := sessionKey{chatID, userID}
	s := m.sessions[k]
	if s == nil || s.State != StateAwaitingTime {
		return Completion{}, ErrNoSession
	}
	if hour < 0 || hour > 23 {
		return Completion{}, ErrBadSelection
	}

	target := m.conv.NextOccurrence(s.Day, hour)
	fireAt := target.Add(-WarningLead)

	a := scheduler.Alert{
		ChatID:         s.ChatID,
		TopicID:        s.TopicID,
		ObjectiveLabel: messages.ObjectiveLabel(s.Objective),
		TimeLabel:      messages.HourLabel(hour),
	}

	delete(m.sessions, k)
	if err := m.alerts.ScheduleOnce(fireAt, a); err != nil {
		if errors.Is(err, scheduler.ErrTooLate) {
			m.logger.Info("Timer for chat %d rejected: %s is too close", chatID, a.TimeLabel)
			return Completion{}, ErrTooClose
		}
		return Completion{}, fmt.Errorf("failed to schedule alert: %w", err)
	}

	m.logger.Info("Timer for chat %d scheduled: %s on day %d at %s (alert %s)",
		chatID, s.Objective, s.Day, a.TimeLabel, fireAt.Format(time.RFC3339))
	return Completion{
		Objective: s.Objective,
		Day:       s.Day,
		Hour:      hour,
		Target:    target,
		FireAt:    fireAt,
	}, nil
}

// Cancel drops the session for the given chat/user, if any, and reports
// whether one existed. Valid at every non-terminal step.
func (m *Manager) Cancel(chatID, userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := sessionKey{chatID, userID}
	if _, ok := m.sessions[k]; !ok {
		return false
	}
	delete(m.sessions, k)
	m.logger.Info("Timer dialogue in chat %d cancelled by user %d", chatID, userID)
	return true
}

// StateOf returns the step the session for the chat/user pair is waiting
// at, and whether such a session exists. Callback payloads for the day and
// hour steps are both bare integers, so callers route them by state.
func (m *Manager) StateOf(chatID, userID int64) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{chatID, userID}]
	if !ok {
		return "", false
	}
	return s.State, true
}
