package telegram

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/activity"
	"github.com/Manoj-V-348/well-remind/internal/clock"
	"github.com/Manoj-V-348/well-remind/internal/domain"
	"github.com/Manoj-V-348/well-remind/internal/reminder"
)

// Bot is the subset of *tgbotapi.BotAPI the package uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Engine is what the router drives.
type Engine interface {
	ListReminders() []domain.Reminder
	ToggleReminder(id string) (domain.Reminder, error)
	UpdateReminder(id string, f reminder.UpdateFields) (domain.Reminder, error)
	ResetReminders() []domain.Reminder
	ReminderByType(t domain.Type) (domain.Reminder, error)
	StartActivity(t domain.Type) (*activity.Handle, error)
	CurrentActivity() *activity.Handle
	ActivitySnapshot() activity.Session
}

// Router wires Telegram updates from the owner's chat to the engine.
type Router struct {
	bot    Bot
	log    *zap.Logger
	engine Engine
	chatID int64
	loc    *time.Location
	clock  clock.Clock
}

// NewRouter creates a router serving a single chat. Times are shown in loc.
func NewRouter(bot Bot, log *zap.Logger, engine Engine, chatID int64, loc *time.Location, clk clock.Clock) *Router {
	if loc == nil {
		loc = time.UTC
	}
	return &Router{
		bot:    bot,
		log:    log,
		engine: engine,
		chatID: chatID,
		loc:    loc,
		clock:  clk,
	}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		if msg.Chat == nil || msg.Chat.ID != r.chatID {
			r.log.Debug("ignoring foreign chat")
			return
		}
		cmd, args := parseCommand(msg.Text)

		switch cmd {
		case "/start", "/help":
			r.handleStart()
		case "/status":
			r.handleStatus()
		case "/toggle":
			r.handleToggle(args)
		case "/interval":
			r.handleInterval(args)
		case "/message":
			r.handleMessage(args)
		case "/exercise":
			r.handleExercise(args)
		case "/reset":
			r.handleReset()
		case "/go":
			r.handleGo(args)
		case "/timer":
			r.handleTimer()
		case "/pause", "/resume", "/done", "/cancel":
			r.handleActivityControl(strings.TrimPrefix(cmd, "/"))
		default:
			// unknown text: ignore
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil || cb.Message.Chat.ID != r.chatID {
			return
		}
		_ = r.answerCallback(cb.ID, "")

		switch {
		case strings.HasPrefix(cb.Data, "start:"):
			r.handleGo(strings.TrimPrefix(cb.Data, "start:"))
		case strings.HasPrefix(cb.Data, "toggle:"):
			r.handleToggle(strings.TrimPrefix(cb.Data, "toggle:"))
		case strings.HasPrefix(cb.Data, "act:"):
			r.handleActivityControl(strings.TrimPrefix(cb.Data, "act:"))
		default:
			// Unknown callback: ignore silently
		}
	}
}

// parseCommand splits "/cmd@bot rest of text" into "/cmd" and "rest of text".
func parseCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, args, _ = strings.Cut(text, " ")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}
