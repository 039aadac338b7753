// Package messages holds the fixed user-facing texts and labels of the bot.
// The alliance using it speaks four languages, so labels carry all four.
package messages

import (
	"fmt"
	"strings"
	"time"
)

// ObjectiveKeys lists the valid objective callback keys in keyboard order
var ObjectiveKeys = []string{"bridge", "gate", "city"}

var objectives = map[string]string{
	"bridge": "Bridge / Мост / Puente / Ponte",
	"gate":   "Gate / Ворота / Puerta / Portão",
	"city":   "City / Город / Ciudad / Cidade",
}

var days = [7]string{
	"Mon / Пн / Lun / Seg",
	"Tues / Вт / Mar / Ter",
	"Wed / Ср / Mié / Qua",
	"Thurs / Чт / Jue / Qui",
	"Fri / Пт / Vie / Sex",
	"Sat / Сб / Sáb / Sáb",
	"Sun / Вс / Dom / Dom",
}

// ValidObjective reports whether key is one of the fixed objective keys
func ValidObjective(key string) bool {
	_, ok := objectives[key]
	return ok
}

// ObjectiveLabel returns the multilingual label for an objective key
func ObjectiveLabel(key string) string {
	return objectives[key]
}

// DayLabel returns the multilingual label for a day index (0=Monday)
func DayLabel(day int) string {
	return days[day]
}

// ShortDayLabel returns just the English part of a day label
func ShortDayLabel(day int) string {
	return strings.TrimSpace(strings.SplitN(days[day], "/", 2)[0])
}

// HourLabel formats an hour as a 24-hour clock face, e.g. 14 -> "1400"
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d00", hour)
}

// Welcome is the /start reply
const Welcome = "👋 Eden Timer bot. Admins: /sync HH:MM calibrates the game clock, /timer schedules an objective reminder."

// SyncUsage is shown when /sync gets a missing or malformed argument
const SyncUsage = "Usage: /sync HH:MM (e.g., /sync 18:30)"

// AdminsOnly is shown when a non-admin starts the timer dialogue
const AdminsOnly = "⛔ Only Admins can set timers."

// TooClose is shown when the requested time is under the warning lead
const TooClose = "⚠️ That time is too close (less than 5 mins)."

// Cancelled is the /cancel acknowledgement
const Cancelled = "Cancelled."

// SelectObjective is the first dialogue prompt
const SelectObjective = "🛠 <b>New Eden Timer</b>\nSelect Objective:"

// SyncConfirmation reports a successful calibration
func SyncConfirmation(real, game time.Time, offsetHours float64) string {
	return fmt.Sprintf(
		"✅ <b>Time Synced!</b>\n\n"+
			"Real Time (UTC): %s\n"+
			"Game Time: %s\n"+
			"Offset: %g hours.\n\n"+
			"Timers will now be accurate.",
		real.Format("15:04"), game.Format("15:04"), offsetHours)
}

// SelectDay prompts for the game day after an objective was chosen
func SelectDay(objectiveKey string) string {
	return fmt.Sprintf("Selected: %s\n\n<b>Select Game Day:</b>", objectives[objectiveKey])
}

// SelectTime prompts for the game hour after a day was chosen
func SelectTime(day int) string {
	return fmt.Sprintf("Day: %s\n\n<b>Select Game Time:</b>", ShortDayLabel(day))
}

// Announcement confirms a scheduled timer in the chat
func Announcement(objectiveKey string, day, hour int) string {
	return fmt.Sprintf(
		"<b>New Eden Timer / Таймер Нового Эдема / Temporizador de Nuevo Edén / Temporizador de Novo Éden</b>\n\n"+
			"<b>[%s]</b>\n"+
			"<b>[%s]</b>\n"+
			"<b>[%s]</b> (Game Time)",
		objectives[objectiveKey], days[day], HourLabel(hour))
}

// Reminder is the pinned alert sent five minutes before the event
func Reminder(objectiveLabel, timeLabel string) string {
	return fmt.Sprintf(
		"<b>Timer starting in 5 minutes / Таймер запускается через 5 минут / "+
			"Temporizador iniciando en 5 minutos / Temporizador iniciando em 5 minutos</b>\n\n"+
			"[%s]\n"+
			"[%s]",
		objectiveLabel, timeLabel)
}
