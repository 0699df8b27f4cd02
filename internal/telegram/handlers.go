package telegram

import (
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/activity"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/reminder"
)

// --- Generic helpers ---

func (r *Router) sendText(text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(r.chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Error(err))
	}
}

func (r *Router) sendWithMarkup(text string, markup interface{}) {
	msg := tgbotapi.NewMessage(r.chatID, text)
	msg.ReplyMarkup = markup
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Error(err))
	}
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

// notSaved reports a failed settings change as a soft warning.
func (r *Router) notSaved(op string, err error) {
	r.log.Warn(op+" failed", zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrUnknownType):
		r.sendText("Unknown reminder. Use water, eyes or exercise.")
	case errors.Is(err, reminder.ErrUnknownReminder):
		r.sendText("Settings not saved: that reminder does not exist.")
	case errors.Is(err, reminder.ErrInvalidUpdate):
		r.sendText("Settings not saved: " + err.Error())
	default:
		r.sendText("Settings not saved. Please try again.")
	}
}

func (r *Router) reminderFor(arg string) (domain.Reminder, error) {
	t, err := domain.ParseType(arg)
	if err != nil {
		return domain.Reminder{}, err
	}
	return r.engine.ReminderByType(t)
}

// --- Core commands ---

func (r *Router) handleStart() {
	r.sendWithMarkup(startText, mainMenuKeyboard())
}

func (r *Router) handleStatus() {
	list := r.engine.ListReminders()
	text := formatStatus(list, r.clock.Now(), r.loc)
	if s := r.engine.ActivitySnapshot(); s.ID != 0 {
		text += "\n" + formatSession(s)
	}
	r.sendWithMarkup(text, toggleKeyboard(list))
}

func (r *Router) handleToggle(arg string) {
	rem, err := r.reminderFor(arg)
	if err != nil {
		r.notSaved("toggle", err)
		return
	}
	rem, err = r.engine.ToggleReminder(rem.ID)
	if err != nil {
		r.notSaved("toggle", err)
		return
	}
	r.sendText(formatToggled(rem, r.loc))
}

// --- Settings ---

func (r *Router) handleInterval(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		r.sendText(intervalUsage)
		return
	}
	rem, err := r.reminderFor(fields[0])
	if err != nil {
		r.notSaved("interval", err)
		return
	}
	minutes, err := domain.ParseInterval(fields[1])
	if err != nil {
		r.sendText("Invalid interval. Examples: 20, 45m, 1h30m (5m to 3h).")
		return
	}
	rem, err = r.engine.UpdateReminder(rem.ID, reminder.UpdateFields{IntervalMinutes: &minutes})
	if err != nil {
		r.notSaved("interval", err)
		return
	}
	r.sendText("Interval updated: " + domain.FormatInterval(rem.IntervalMinutes))
}

func (r *Router) handleMessage(args string) {
	typ, text, _ := strings.Cut(args, " ")
	text = strings.TrimSpace(text)
	if typ == "" {
		r.sendText(messageUsage)
		return
	}
	rem, err := r.reminderFor(typ)
	if err != nil {
		r.notSaved("message", err)
		return
	}
	// an empty text restores the built-in message
	if _, err := r.engine.UpdateReminder(rem.ID, reminder.UpdateFields{CustomMessage: &text}); err != nil {
		r.notSaved("message", err)
		return
	}
	r.sendText("Message updated.")
}

func (r *Router) handleExercise(args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		r.sendText(exerciseUsage)
		return
	}
	var f reminder.UpdateFields
	if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
		f.Repetitions = &n
		fields = fields[:len(fields)-1]
	}
	if len(fields) > 0 {
		name := strings.Join(fields, " ")
		f.CustomExercise = &name
	}

	rem, err := r.reminderFor(string(domain.TypeExercise))
	if err != nil {
		r.notSaved("exercise", err)
		return
	}
	rem, err = r.engine.UpdateReminder(rem.ID, f)
	if err != nil {
		r.notSaved("exercise", err)
		return
	}
	r.sendText("Exercise updated: " + domain.Describe(rem))
}

func (r *Router) handleReset() {
	r.engine.ResetReminders()
	r.sendText("All reminders restored to defaults.")
}

// --- Activity ---

func (r *Router) handleGo(arg string) {
	t, err := domain.ParseType(arg)
	if err != nil {
		r.sendText("Start what? Use /go water, /go eyes or /go exercise.")
		return
	}
	h, err := r.engine.StartActivity(t)
	if err != nil {
		r.log.Error("start activity failed", zap.Error(err))
		r.sendText("Could not start the activity.")
		return
	}
	r.sendWithMarkup(formatSession(h.Snapshot()), activityKeyboard(true))
}

func (r *Router) handleTimer() {
	s := r.engine.ActivitySnapshot()
	if s.ID == 0 {
		r.sendText(noActivityText)
		return
	}
	r.sendWithMarkup(formatSession(s), activityKeyboard(s.State == activity.StateRunning))
}

func (r *Router) handleActivityControl(action string) {
	h := r.engine.CurrentActivity()
	if h == nil {
		r.sendText(noActivityText)
		return
	}

	var ok bool
	switch action {
	case "pause":
		ok = h.Pause()
	case "resume":
		ok = h.Resume()
	case "done":
		// completion is announced by the completion notifier
		h.Complete()
		return
	case "cancel":
		if h.Cancel() {
			r.sendText("Activity cancelled.")
		}
		return
	default:
		return
	}

	s := h.Snapshot()
	if !ok {
		r.sendText("Nothing to " + action + ": the activity is " + s.State.String() + ".")
		return
	}
	r.sendWithMarkup(formatSession(s), activityKeyboard(action == "resume"))
}
