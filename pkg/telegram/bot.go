package telegram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/korjavin/edentimer/pkg/logger"
)

// Long-poll wait for getUpdates; kept under the HTTP client timeout so the
// poll request is never killed by the transport.
const pollTimeout = 25

// Bot represents a Telegram bot instance
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logger.Logger
}

// CommandHandler is a function that handles a Telegram command
type CommandHandler func(message *Message)

// CallbackHandler is a function that handles a Telegram callback query
type CallbackHandler func(callback *CallbackQuery)

// New creates a new Telegram bot instance. The underlying HTTP client
// carries a timeout so permission checks and sends cannot hang a dialogue
// step indefinitely.
func New(token string) (*Bot, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	bot := &Bot{
		api:    api,
		logger: logger.New("telegram"),
	}

	bot.logger.Info("Telegram bot created: @%s", api.Self.UserName)
	return bot, nil
}

// Start long-polls for updates and dispatches them. Commands are routed by
// name through commandHandlers; every callback query goes to onCallback.
func (b *Bot) Start(commandHandlers map[string]CommandHandler, onCallback CallbackHandler) {
	offset := 0
	for {
		updates, err := b.getUpdates(offset)
		if err != nil {
			b.logger.Error("Failed to fetch updates: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		for i := range updates {
			update := &updates[i]
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}

			if update.Message != nil && update.Message.IsCommand() {
				command := update.Message.Command()
				if handler, ok := commandHandlers[command]; ok {
					b.logger.Info("Handling command: %s in chat %d", command, update.Message.Chat.ID)
					handler(update.Message)
				}
				continue
			}

			if update.CallbackQuery != nil && onCallback != nil {
				onCallback(update.CallbackQuery)
			}
		}
	}
}

// getUpdates fetches updates through the raw API so the forum-topic fields
// survive decoding (see types.go).
func (b *Bot) getUpdates(offset int) ([]Update, error) {
	params := tgbotapi.Params{}
	params.AddNonZero("offset", offset)
	params.AddNonZero("timeout", pollTimeout)

	resp, err := b.api.MakeRequest("getUpdates", params)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(resp.Result, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return updates, nil
}

// SendHTML sends an HTML-formatted message to a chat, addressed to the
// given forum topic when topicID is non-zero. Returns the message ID.
func (b *Bot) SendHTML(chatID int64, topicID int, text string) (int, error) {
	return b.send(chatID, topicID, text, nil)
}

// SendKeyboard sends an HTML-formatted message with an inline keyboard
func (b *Bot) SendKeyboard(chatID int64, topicID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error) {
	return b.send(chatID, topicID, text, &keyboard)
}

func (b *Bot) send(chatID int64, topicID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error) {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonZero("message_thread_id", topicID)
	params["text"] = text
	params["parse_mode"] = "HTML"
	if keyboard != nil {
		if err := params.AddInterface("reply_markup", keyboard); err != nil {
			return 0, fmt.Errorf("failed to encode keyboard: %w", err)
		}
	}

	resp, err := b.api.MakeRequest("sendMessage", params)
	if err != nil {
		return 0, fmt.Errorf("sendMessage: %w", err)
	}

	var sent Message
	if err := json.Unmarshal(resp.Result, &sent); err != nil {
		return 0, fmt.Errorf("failed to decode sent message: %w", err)
	}
	return sent.MessageID, nil
}

// EditHTML replaces the text (and keyboard, when given) of a sent message
func (b *Bot) EditHTML(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonZero("message_id", messageID)
	params["text"] = text
	params["parse_mode"] = "HTML"
	if keyboard != nil {
		if err := params.AddInterface("reply_markup", keyboard); err != nil {
			return fmt.Errorf("failed to encode keyboard: %w", err)
		}
	}

	_, err := b.api.MakeRequest("editMessageText", params)
	if err != nil {
		return fmt.Errorf("editMessageText: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query so the client stops showing
// its progress indicator
func (b *Bot) AnswerCallback(callbackID string) error {
	_, err := b.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

// PinMessage pins a message in a chat
func (b *Bot) PinMessage(chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.PinChatMessageConfig{
		ChatID:    chatID,
		MessageID: messageID,
	})
	return err
}

// IsAdmin reports whether the user may run privileged commands in the chat.
// A private chat's ID equals the user's ID, and everyone is an admin of
// their own private chat; elsewhere the chat member status decides.
func (b *Bot) IsAdmin(chatID, userID int64) (bool, error) {
	if chatID == userID {
		return true, nil
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("getChatMember: %w", err)
	}

	return member.Status == "administrator" || member.Status == "creator", nil
}
