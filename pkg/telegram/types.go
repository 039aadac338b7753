package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// The library's last release predates Bot API 6.3, which added forum
// topics, so its Message type drops message_thread_id on decoding. These
// overlay types re-add the topic fields; everything else is promoted from
// the embedded library types.

// Message is a Telegram message with the forum-topic fields restored
type Message struct {
	tgbotapi.Message
	MessageThreadID int  `json:"message_thread_id"`
	IsTopicMessage  bool `json:"is_topic_message"`
}

// TopicID returns the forum topic the message belongs to, or zero when the
// message is not part of a topic.
func (m *Message) TopicID() int {
	if !m.IsTopicMessage {
		return 0
	}
	return m.MessageThreadID
}

// CallbackQuery is a Telegram callback query whose attached message keeps
// its topic fields
type CallbackQuery struct {
	tgbotapi.CallbackQuery
	Message *Message `json:"message"`
}

// Update is a Telegram update restricted to what the bot consumes
type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}
