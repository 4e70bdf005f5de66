package data

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
	"github.com/devricklin/tg-relay-bridge/internal/infra/telegram"
	"github.com/devricklin/tg-relay-bridge/internal/metrics"
)

// telegramRepo implements repo.MessagingClient on the Bot API.
// Every failure is logged with the method and its parameters, counted, and returned.
type telegramRepo struct {
	client *telegram.Client
}

// NewTelegramRepo creates a new messaging client
func NewTelegramRepo(client *telegram.Client) repo.MessagingClient {
	return &telegramRepo{client: client}
}

func (r *telegramRepo) SendText(ctx context.Context, target, text string, opts repo.SendOptions) (string, error) {
	chatID, err := parseChatID("sendMessage", target)
	if err != nil {
		return "", err
	}
	threadID, err := optionalID("sendMessage", opts.ThreadID)
	if err != nil {
		return "", err
	}
	msg, err := r.client.SendMessage(ctx, chatID, threadID, text, string(opts.Format), toKeyboard(opts.Markup))
	if err != nil {
		return "", r.fail(err, "sendMessage", logrus.Fields{"chat_id": target, "thread_id": opts.ThreadID})
	}
	return strconv.FormatInt(msg.MessageID, 10), nil
}

func (r *telegramRepo) CopyMessage(ctx context.Context, target, source, messageID, threadID string) error {
	chatID, err := parseChatID("copyMessage", target)
	if err != nil {
		return err
	}
	fromID, err := parseChatID("copyMessage", source)
	if err != nil {
		return err
	}
	msgID, err := parseChatID("copyMessage", messageID)
	if err != nil {
		return err
	}
	thread, err := optionalID("copyMessage", threadID)
	if err != nil {
		return err
	}
	if _, err := r.client.CopyMessage(ctx, chatID, thread, fromID, msgID); err != nil {
		return r.fail(err, "copyMessage", logrus.Fields{
			"chat_id":      target,
			"from_chat_id": source,
			"message_id":   messageID,
			"thread_id":    threadID,
		})
	}
	return nil
}

func (r *telegramRepo) CreateThread(ctx context.Context, group, title string) (string, error) {
	chatID, err := parseChatID("createForumTopic", group)
	if err != nil {
		return "", err
	}
	topic, err := r.client.CreateForumTopic(ctx, chatID, title)
	if err != nil {
		return "", r.fail(err, "createForumTopic", logrus.Fields{"chat_id": group, "name": title})
	}
	return strconv.FormatInt(topic.MessageThreadID, 10), nil
}

func (r *telegramRepo) RenameThread(ctx context.Context, group, threadID, title string) error {
	chatID, err := parseChatID("editForumTopic", group)
	if err != nil {
		return err
	}
	thread, err := parseChatID("editForumTopic", threadID)
	if err != nil {
		return err
	}
	if err := r.client.EditForumTopic(ctx, chatID, thread, title); err != nil {
		return r.fail(err, "editForumTopic", logrus.Fields{"chat_id": group, "thread_id": threadID, "name": title})
	}
	return nil
}

func (r *telegramRepo) EditControlMarkup(ctx context.Context, target, messageID string, markup *domain.Markup) error {
	chatID, err := parseChatID("editMessageReplyMarkup", target)
	if err != nil {
		return err
	}
	msgID, err := parseChatID("editMessageReplyMarkup", messageID)
	if err != nil {
		return err
	}
	if err := r.client.EditMessageReplyMarkup(ctx, chatID, msgID, toKeyboard(markup)); err != nil {
		return r.fail(err, "editMessageReplyMarkup", logrus.Fields{"chat_id": target, "message_id": messageID})
	}
	return nil
}

func (r *telegramRepo) AcknowledgeCallback(ctx context.Context, callbackID, text string) error {
	if err := r.client.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		return r.fail(err, "answerCallbackQuery", logrus.Fields{"callback_id": callbackID})
	}
	return nil
}

func (r *telegramRepo) fail(err error, method string, fields logrus.Fields) error {
	metrics.OutboundFailures.WithLabelValues(method).Inc()
	logrus.WithError(err).WithField("method", method).WithFields(fields).Warn("Outbound call failed")
	return err
}

func parseChatID(method, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		metrics.OutboundFailures.WithLabelValues(method).Inc()
		return 0, fmt.Errorf("%s: invalid id %q: %w", method, s, err)
	}
	return id, nil
}

// optionalID parses an id that may be empty (no thread)
func optionalID(method, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return parseChatID(method, s)
}

func toKeyboard(m *domain.Markup) *telegram.InlineKeyboardMarkup {
	if m == nil {
		return nil
	}
	kb := &telegram.InlineKeyboardMarkup{InlineKeyboard: make([][]telegram.InlineKeyboardButton, 0, len(m.Rows))}
	for _, row := range m.Rows {
		buttons := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, telegram.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		kb.InlineKeyboard = append(kb.InlineKeyboard, buttons)
	}
	return kb
}
