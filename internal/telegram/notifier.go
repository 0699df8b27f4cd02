package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/domain"
)

const notifierQueue = 32

type outgoing struct {
	text   string
	markup interface{}
}

// Notifier delivers notifications to the configured chat. Present never
// blocks: messages are queued for a single sender goroutine and dropped when
// the queue is full.
type Notifier struct {
	bot    Bot
	chatID int64
	log    *zap.Logger

	queue     chan outgoing
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewNotifier(bot Bot, chatID int64, log *zap.Logger) *Notifier {
	n := &Notifier{
		bot:    bot,
		chatID: chatID,
		log:    log,
		queue:  make(chan outgoing, notifierQueue),
		done:   make(chan struct{}),
	}
	go n.loop()
	return n
}

func (n *Notifier) Present(title, body string) {
	n.enqueue(outgoing{text: formatNotification(title, body)})
}

// PresentReminder attaches a Start button for the reminder's activity.
func (n *Notifier) PresentReminder(r domain.Reminder, title, body string) {
	n.enqueue(outgoing{text: formatNotification(title, body), markup: startKeyboard(r.Type)})
}

// Close drains queued messages and stops the sender. Safe to call twice.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.queue)
		n.mu.Unlock()
	})
	<-n.done
}

func (n *Notifier) enqueue(o outgoing) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.log.Warn("notifier closed, dropping message")
		return
	}
	select {
	case n.queue <- o:
	default:
		n.log.Warn("notifier queue full, dropping message")
	}
}

func (n *Notifier) loop() {
	defer close(n.done)
	for o := range n.queue {
		msg := tgbotapi.NewMessage(n.chatID, o.text)
		if o.markup != nil {
			msg.ReplyMarkup = o.markup
		}
		if _, err := n.bot.Send(msg); err != nil {
			n.log.Warn("send notification failed", zap.Error(err))
		}
	}
}

func formatNotification(title, body string) string {
	return "🔔 " + title + "\n" + body
}
