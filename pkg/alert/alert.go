// Package alert renders and delivers the five-minute reminder when a
// scheduled timer fires.
package alert

import (
	"github.com/korjavin/edentimer/pkg/logger"
	"github.com/korjavin/edentimer/pkg/messages"
	"github.com/korjavin/edentimer/pkg/scheduler"
)

// Messenger delivers reminders to a chat. Implemented by the telegram bot.
type Messenger interface {
	SendHTML(chatID int64, topicID int, text string) (messageID int, err error)
	PinMessage(chatID int64, messageID int) error
}

// Dispatcher sends reminder messages when the scheduler fires
type Dispatcher struct {
	bot    Messenger
	logger *logger.Logger
}

// New creates a new alert dispatcher
func New(bot Messenger) *Dispatcher {
	return &Dispatcher{
		bot:    bot,
		logger: logger.New("alert"),
	}
}

// Fire renders the reminder for a and sends it to the alert's chat/topic,
// then pins it. Pinning is best effort: the bot may lack pin rights in the
// chat, so a pin failure is logged and otherwise ignored.
func (d *Dispatcher) Fire(a scheduler.Alert) {
	text := messages.Reminder(a.ObjectiveLabel, a.TimeLabel)

	messageID, err := d.bot.SendHTML(a.ChatID, a.TopicID, text)
	if err != nil {
		d.logger.Error("Failed to send reminder to chat %d: %v", a.ChatID, err)
		return
	}

	if err := d.bot.PinMessage(a.ChatID, messageID); err != nil {
		d.logger.Warn("Failed to pin reminder in chat %d: %v", a.ChatID, err)
	}
}
