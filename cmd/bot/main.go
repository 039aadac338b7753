package main

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/korjavin/edentimer/pkg/alert"
	"github.com/korjavin/edentimer/pkg/config"
	"github.com/korjavin/edentimer/pkg/dialogue"
	"github.com/korjavin/edentimer/pkg/gametime"
	"github.com/korjavin/edentimer/pkg/health"
	"github.com/korjavin/edentimer/pkg/logger"
	"github.com/korjavin/edentimer/pkg/messages"
	"github.com/korjavin/edentimer/pkg/scheduler"
	"github.com/korjavin/edentimer/pkg/storage"
	"github.com/korjavin/edentimer/pkg/telegram"
)

func main() {
	// Initialize logger
	log := logger.Global
	log.Info("Starting Eden Timer bot...")

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		log.Error("Failed to initialize storage: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// Initialize Telegram bot
	bot, err := telegram.New(cfg.BotToken)
	if err != nil {
		log.Error("Failed to initialize Telegram bot: %v", err)
		os.Exit(1)
	}

	// Initialize services
	offsets := storage.NewOffsetStore(store)
	converter := gametime.New(offsets)
	dispatcher := alert.New(bot)
	alerts := scheduler.New(dispatcher.Fire)
	dialogues := dialogue.New(bot, converter, alerts)

	// Liveness endpoint for the uptime monitor
	go func() {
		if err := health.ListenAndServe(cfg.Port); err != nil {
			log.Error("Liveness endpoint failed: %v", err)
		}
	}()

	// Setup command handlers
	commandHandlers := map[string]telegram.CommandHandler{
		"start": func(message *telegram.Message) {
			bot.SendHTML(message.Chat.ID, message.TopicID(), messages.Welcome)
		},
		"sync": func(message *telegram.Message) {
			chatID := message.Chat.ID

			admin, err := bot.IsAdmin(chatID, message.From.ID)
			if err != nil {
				log.Error("Admin check failed in chat %d: %v", chatID, err)
				return
			}
			if !admin {
				return
			}

			cal, err := converter.Calibrate(strings.TrimSpace(message.CommandArguments()))
			if errors.Is(err, gametime.ErrInvalidClockFace) {
				bot.SendHTML(chatID, message.TopicID(), messages.SyncUsage)
				return
			}
			if err != nil {
				log.Error("Calibration failed in chat %d: %v", chatID, err)
				return
			}

			bot.SendHTML(chatID, message.TopicID(),
				messages.SyncConfirmation(cal.Real, cal.Game, cal.OffsetHours))
		},
		"timer": func(message *telegram.Message) {
			chatID := message.Chat.ID
			topicID := message.TopicID()

			err := dialogues.Start(chatID, message.From.ID, topicID)
			if errors.Is(err, dialogue.ErrPermissionDenied) {
				bot.SendHTML(chatID, topicID, messages.AdminsOnly)
				return
			}
			if err != nil {
				log.Error("Failed to start timer dialogue in chat %d: %v", chatID, err)
				return
			}

			if _, err := bot.SendKeyboard(chatID, topicID, messages.SelectObjective, objectiveKeyboard()); err != nil {
				log.Error("Failed to send objective keyboard to chat %d: %v", chatID, err)
				dialogues.Cancel(chatID, message.From.ID)
			}
		},
		"cancel": func(message *telegram.Message) {
			dialogues.Cancel(message.Chat.ID, message.From.ID)
			bot.SendHTML(message.Chat.ID, message.TopicID(), messages.Cancelled)
		},
	}

	// Setup callback handler driving the dialogue steps
	onCallback := func(callback *telegram.CallbackQuery) {
		if callback.Message == nil {
			return
		}
		chatID := callback.Message.Chat.ID
		userID := callback.From.ID
		messageID := callback.Message.MessageID

		bot.AnswerCallback(callback.ID)

		state, ok := dialogues.StateOf(chatID, userID)
		if !ok {
			return
		}

		switch state {
		case dialogue.StateAwaitingObjective:
			if err := dialogues.SelectObjective(chatID, userID, callback.Data); err != nil {
				log.Warn("Ignoring objective callback %q in chat %d: %v", callback.Data, chatID, err)
				return
			}
			bot.EditHTML(chatID, messageID, messages.SelectDay(callback.Data), dayKeyboard())

		case dialogue.StateAwaitingDay:
			day, err := strconv.Atoi(callback.Data)
			if err != nil {
				log.Warn("Ignoring day callback %q in chat %d", callback.Data, chatID)
				return
			}
			if err := dialogues.SelectDay(chatID, userID, day); err != nil {
				log.Warn("Ignoring day callback %q in chat %d: %v", callback.Data, chatID, err)
				return
			}
			bot.EditHTML(chatID, messageID, messages.SelectTime(day), hourKeyboard())

		case dialogue.StateAwaitingTime:
			hour, err := strconv.Atoi(callback.Data)
			if err != nil {
				log.Warn("Ignoring hour callback %q in chat %d", callback.Data, chatID)
				return
			}
			done, err := dialogues.SelectHour(chatID, userID, hour)
			if errors.Is(err, dialogue.ErrTooClose) {
				bot.EditHTML(chatID, messageID, messages.TooClose, nil)
				return
			}
			if err != nil {
				log.Error("Failed to finish timer dialogue in chat %d: %v", chatID, err)
				return
			}
			bot.EditHTML(chatID, messageID,
				messages.Announcement(done.Objective, done.Day, done.Hour), nil)
		}
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutting down...")
		alerts.Stop()
		store.Close()
		os.Exit(0)
	}()

	// Start the bot
	log.Info("Bot is now running. Press CTRL-C to exit.")
	bot.Start(commandHandlers, onCallback)
}

func objectiveKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(messages.ObjectiveKeys))
	for _, key := range messages.ObjectiveKeys {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ObjectiveLabel(key), key)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dayKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for day := 0; day < 7; day++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			messages.ShortDayLabel(day), strconv.Itoa(day)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

func hourKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for hour := 0; hour < 24; hour++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			messages.HourLabel(hour), strconv.Itoa(hour)))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}
