package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Manoj-V-348/well-remind/internal/activity"
	"github.com/Manoj-V-348/well-remind/internal/domain"
)

// UI texts in English
const (
	startText = "👋 I keep you hydrated, rested and moving.\n\n" +
		"/status: your reminders\n" +
		"/toggle <water|eyes|exercise>: turn a reminder on or off\n" +
		"/interval <type> <20|45m|1h30m>: change how often it fires\n" +
		"/message <water|eyes> <text>: custom reminder text\n" +
		"/exercise <name> [reps]: what to do on exercise breaks\n" +
		"/reset: restore defaults\n" +
		"/go <type>: start an activity now\n" +
		"/timer, /pause, /resume, /done, /cancel: control the running activity"
	statusTitle    = "🧾 Your reminders:"
	intervalUsage  = "Usage: /interval <water|eyes|exercise> <20|45m|1h30m>"
	messageUsage   = "Usage: /message <water|eyes> <text>. Send without text to restore the default."
	exerciseUsage  = "Usage: /exercise <name> [reps], e.g. /exercise squats 15"
	noActivityText = "No activity in progress."
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/status"),
			tgbotapi.NewKeyboardButton("/timer"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/go water"),
			tgbotapi.NewKeyboardButton("/go eyes"),
			tgbotapi.NewKeyboardButton("/go exercise"),
		),
	)
}

// startKeyboard is attached to fired reminders.
func startKeyboard(t domain.Type) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Start", "start:"+string(t)),
		),
	)
}

func toggleKeyboard(list []domain.Reminder) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, r := range list {
		label := "Turn on " + string(r.Type)
		if r.Enabled {
			label = "Turn off " + string(r.Type)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "toggle:"+string(r.Type)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// activityKeyboard offers pause while running and resume while paused.
func activityKeyboard(running bool) tgbotapi.InlineKeyboardMarkup {
	pause := tgbotapi.NewInlineKeyboardButtonData("⏸ Pause", "act:pause")
	if !running {
		pause = tgbotapi.NewInlineKeyboardButtonData("▶️ Resume", "act:resume")
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			pause,
			tgbotapi.NewInlineKeyboardButtonData("✅ Done", "act:done"),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", "act:cancel"),
		),
	)
}

func formatStatus(list []domain.Reminder, now time.Time, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(statusTitle)
	b.WriteString("\n")
	for _, r := range list {
		fmt.Fprintf(&b, "\n%s %s\n• %s\n• %s\n• Next: %s\n",
			enabledMark(r.Enabled),
			domain.DisplayTitle(r),
			domain.Describe(r),
			domain.FormatInterval(r.IntervalMinutes),
			formatNext(r, now, loc),
		)
	}
	return b.String()
}

func enabledMark(on bool) string {
	if on {
		return "🟢"
	}
	return "⚪️"
}

func formatNext(r domain.Reminder, now time.Time, loc *time.Location) string {
	switch {
	case !r.Enabled:
		return "off"
	case r.NextTrigger == nil || !r.NextTrigger.After(now):
		return "now"
	default:
		return domain.FormatClock(*r.NextTrigger, loc)
	}
}

func formatToggled(r domain.Reminder, loc *time.Location) string {
	if !r.Enabled {
		return domain.DisplayTitle(r) + " turned off."
	}
	if r.NextTrigger == nil {
		return domain.DisplayTitle(r) + " turned on."
	}
	return fmt.Sprintf("%s turned on. Next at %s.", domain.DisplayTitle(r), domain.FormatClock(*r.NextTrigger, loc))
}

// formatSession renders a countdown as "label: 0:12 left ▓▓▓░░░░░░░ (paused)".
func formatSession(s activity.Session) string {
	if s.ID == 0 || s.State == activity.StateIdle {
		return noActivityText
	}
	line := fmt.Sprintf("⏱ %s: %d:%02d left %s",
		s.Label, s.RemainingSeconds/60, s.RemainingSeconds%60, progressBar(s.Progress()))
	if s.State != activity.StateRunning {
		line += " (" + s.State.String() + ")"
	}
	return line
}

func progressBar(p float64) string {
	const width = 10
	filled := int(p*width + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}
