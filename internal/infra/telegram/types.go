package telegram

// Update is one incoming Bot API update (subset)
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	EditedMessage *Message       `json:"edited_message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message is a Bot API message (subset)
type Message struct {
	MessageID       int64    `json:"message_id"`
	MessageThreadID int64    `json:"message_thread_id,omitempty"`
	IsTopicMessage  bool     `json:"is_topic_message,omitempty"`
	Date            int64    `json:"date,omitempty"`
	EditDate        int64    `json:"edit_date,omitempty"`
	Chat            *Chat    `json:"chat,omitempty"`
	From            *User    `json:"from,omitempty"`
	Text            string   `json:"text,omitempty"`
	Caption         string   `json:"caption,omitempty"`
	Entities        []Entity `json:"entities,omitempty"`
	CaptionEntities []Entity `json:"caption_entities,omitempty"`

	// Attachments; only presence matters to the bridge.
	Photo    []PhotoSize `json:"photo,omitempty"`
	Video    *FileRef    `json:"video,omitempty"`
	Document *FileRef    `json:"document,omitempty"`
	Sticker  *FileRef    `json:"sticker,omitempty"`
	Audio    *FileRef    `json:"audio,omitempty"`
	Voice    *FileRef    `json:"voice,omitempty"`

	// Forward provenance. Older payloads carry forward_from_chat, newer ones forward_origin.
	ForwardFromChat *Chat          `json:"forward_from_chat,omitempty"`
	ForwardOrigin   *MessageOrigin `json:"forward_origin,omitempty"`
}

// Chat is a Bot API chat
type Chat struct {
	ID      int64  `json:"id"`
	Type    string `json:"type,omitempty"` // private|group|supergroup|channel
	Title   string `json:"title,omitempty"`
	IsForum bool   `json:"is_forum,omitempty"`
}

// User is a Bot API user
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Entity is a message entity (mention, url, text_link, bot_command, ...)
type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"`
}

// MessageOrigin describes where a forwarded message came from
type MessageOrigin struct {
	Type string `json:"type"` // user|hidden_user|chat|channel
	Chat *Chat  `json:"chat,omitempty"`
}

// PhotoSize is one resolution of a photo
type PhotoSize struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// FileRef identifies an uploaded file
type FileRef struct {
	FileID string `json:"file_id"`
}

// CallbackQuery is an inline keyboard button press
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from,omitempty"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// ForumTopic is the result of createForumTopic
type ForumTopic struct {
	MessageThreadID int64  `json:"message_thread_id"`
	Name            string `json:"name"`
}

// InlineKeyboardMarkup is an inline keyboard attached to a message
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is one button of an inline keyboard
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// HasLink reports whether the text or caption carries a url or text_link entity
func (m *Message) HasLink() bool {
	for _, list := range [][]Entity{m.Entities, m.CaptionEntities} {
		for _, e := range list {
			if e.Type == "url" || e.Type == "text_link" {
				return true
			}
		}
	}
	return false
}

// FromChannel reports whether the message was forwarded from a channel
func (m *Message) FromChannel() bool {
	if m.ForwardOrigin != nil && m.ForwardOrigin.Type == "channel" {
		return true
	}
	return m.ForwardFromChat != nil && m.ForwardFromChat.Type == "channel"
}

// Request bodies

type sendMessageRequest struct {
	ChatID          int64                 `json:"chat_id"`
	MessageThreadID int64                 `json:"message_thread_id,omitempty"`
	Text            string                `json:"text"`
	ParseMode       string                `json:"parse_mode,omitempty"`
	ReplyMarkup     *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type copyMessageRequest struct {
	ChatID          int64 `json:"chat_id"`
	MessageThreadID int64 `json:"message_thread_id,omitempty"`
	FromChatID      int64 `json:"from_chat_id"`
	MessageID       int64 `json:"message_id"`
}

type messageIDResult struct {
	MessageID int64 `json:"message_id"`
}

type createForumTopicRequest struct {
	ChatID int64  `json:"chat_id"`
	Name   string `json:"name"`
}

type editForumTopicRequest struct {
	ChatID          int64  `json:"chat_id"`
	MessageThreadID int64  `json:"message_thread_id"`
	Name            string `json:"name"`
}

type editMessageReplyMarkupRequest struct {
	ChatID      int64                 `json:"chat_id"`
	MessageID   int64                 `json:"message_id"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type answerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
}

type setWebhookRequest struct {
	URL            string   `json:"url"`
	SecretToken    string   `json:"secret_token,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}
