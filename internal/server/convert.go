package server

import (
	"strconv"
	"time"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
	"github.com/devricklin/tg-relay-bridge/internal/infra/telegram"
)

// Classify maps one Bot API update to at most one event.
// Returns nil for updates the bridge does not handle.
func Classify(u *telegram.Update, adminGroupID string) domain.Event {
	switch {
	case u.CallbackQuery != nil:
		return domain.CallbackEvent{Callback: convertCallback(u.CallbackQuery)}

	case u.EditedMessage != nil:
		if isPrivate(u.EditedMessage) {
			return domain.EditedMessageEvent{Message: convertMessage(u.EditedMessage)}
		}
		return nil

	case u.Message != nil:
		m := u.Message
		if isPrivate(m) {
			return domain.PrivateMessageEvent{Message: convertMessage(m)}
		}
		if m.Chat != nil && formatID(m.Chat.ID) == adminGroupID {
			return domain.GroupMessageEvent{Message: convertMessage(m)}
		}
		return nil
	}
	return nil
}

func isPrivate(m *telegram.Message) bool {
	return m.Chat != nil && m.Chat.Type == "private"
}

func convertMessage(m *telegram.Message) domain.Message {
	msg := domain.Message{
		ID:             formatID(m.MessageID),
		ThreadID:       optionalID(m.MessageThreadID),
		IsTopic:        m.IsTopicMessage,
		Text:           m.Text,
		Caption:        m.Caption,
		HasPhoto:       len(m.Photo) > 0,
		HasVideo:       m.Video != nil,
		HasDocument:    m.Document != nil,
		HasSticker:     m.Sticker != nil,
		HasAudio:       m.Audio != nil,
		HasVoice:       m.Voice != nil,
		HasLink:        m.HasLink(),
		ChannelForward: m.FromChannel(),
	}
	if m.Chat != nil {
		msg.ChatID = formatID(m.Chat.ID)
	}
	if m.From != nil {
		msg.Sender = convertUser(m.From)
	}
	if m.Date > 0 {
		msg.Date = time.Unix(m.Date, 0).UTC()
	}
	return msg
}

func convertCallback(q *telegram.CallbackQuery) domain.Callback {
	cb := domain.Callback{
		ID:   q.ID,
		Data: q.Data,
	}
	if q.From != nil {
		cb.From = convertUser(q.From)
	}
	if q.Message != nil {
		cb.MessageID = formatID(q.Message.MessageID)
		cb.ThreadID = optionalID(q.Message.MessageThreadID)
		if q.Message.Chat != nil {
			cb.ChatID = formatID(q.Message.Chat.ID)
		}
	}
	return cb
}

func convertUser(u *telegram.User) domain.Sender {
	return domain.Sender{
		ID:        formatID(u.ID),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		IsBot:     u.IsBot,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func optionalID(id int64) string {
	if id == 0 {
		return ""
	}
	return formatID(id)
}
