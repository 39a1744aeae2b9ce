package worker

import (
	"context"
	"fmt"
	"strings"

	"case_notification_service/internal/domain/push"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// dismissCallback is the callback unique for the "dismiss" action button.
const dismissCallback = "notif_dismiss"

// Sender is the subset of *telebot.Bot the renderer needs, so tests can
// substitute a fake.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelegramRenderer delivers worker-path notifications as Telegram messages:
// the "view" action is a URL button opening the in-app deep link, "dismiss"
// is a callback button that removes the message without navigation. Telegram
// messages persist until acted on, which is the require-interaction behavior
// the worker path guarantees.
type TelegramRenderer struct {
	bot           Sender
	defaultChatID int64
	originURL     string
	logger        *logrus.Logger
}

func NewTelegramRenderer(bot Sender, defaultChatID int64, originURL string, logger *logrus.Logger) *TelegramRenderer {
	return &TelegramRenderer{
		bot:           bot,
		defaultChatID: defaultChatID,
		originURL:     strings.TrimRight(originURL, "/"),
		logger:        logger,
	}
}

func (r *TelegramRenderer) Render(_ context.Context, p push.Payload) error {
	chatID := p.Recipient
	if chatID == 0 {
		chatID = r.defaultChatID
	}
	if chatID == 0 {
		r.logger.Debug("Push event has no recipient and no default chat is configured, dropping")
		return nil
	}

	n := renderPayload(p)
	markup := &telebot.ReplyMarkup{}
	btnView := markup.URL("عرض", r.originURL+n.URL)
	btnDismiss := markup.Data("تجاهل", dismissCallback)
	markup.Inline(markup.Row(btnView, btnDismiss))

	text := fmt.Sprintf("%s\n%s", n.Title, n.Body)
	_, err := r.bot.Send(&telebot.User{ID: chatID}, text, &telebot.SendOptions{ReplyMarkup: markup})
	if err != nil {
		return fmt.Errorf("error sending telegram notification to chat %d: %w", chatID, err)
	}
	r.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"url":     n.URL,
	}).Info("Push notification delivered via Telegram")
	return nil
}

// RegisterClickHandlers wires notification-click routing on the bot: the
// "dismiss" button deletes the message; "view" is a URL button handled by
// Telegram itself.
func RegisterClickHandlers(b *telebot.Bot, logger *logrus.Logger) {
	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data
		// telebot prefixes callback data with "\f<unique>".
		if strings.Contains(data, dismissCallback) {
			if err := c.Delete(); err != nil {
				logger.WithError(err).Warn("Could not delete dismissed notification message")
			}
			return c.Respond()
		}
		logger.WithField("data", data).Debug("Unhandled callback")
		return c.Respond()
	})
}

// LogRenderer is used when no Telegram token is configured: the rendered
// notification is written to the log so local setups still show deliveries.
type LogRenderer struct {
	logger *logrus.Logger
}

func NewLogRenderer(logger *logrus.Logger) *LogRenderer {
	return &LogRenderer{logger: logger}
}

func (r *LogRenderer) Render(_ context.Context, p push.Payload) error {
	n := renderPayload(p)
	r.logger.WithFields(logrus.Fields{
		"title":               n.Title,
		"body":                n.Body,
		"url":                 n.URL,
		"require_interaction": n.RequireInteraction,
		"vibration":           n.Vibration,
		"dir":                 n.Dir,
		"lang":                n.Lang,
		"actions":             n.Actions,
	}).Info("Push notification rendered")
	return nil
}
