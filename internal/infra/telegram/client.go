package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Bot API endpoint
const DefaultBaseURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient creates a Bot API client. A nil httpClient gets a 30s timeout.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// RequestError is a failed Bot API call
type RequestError struct {
	Method      string
	StatusCode  int
	ErrorCode   int
	Description string
	Body        string
}

func (e *RequestError) Error() string {
	if e == nil {
		return "telegram request failed"
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		desc = strings.TrimSpace(e.Body)
	}
	if desc == "" {
		return fmt.Sprintf("telegram %s: http %d", e.Method, e.StatusCode)
	}
	return fmt.Sprintf("telegram %s: http %d: %s", e.Method, e.StatusCode, desc)
}

type response struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// stripURL drops the request URL from transport errors; it carries the bot token
func stripURL(method string, err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("telegram %s: %s: %w", method, uerr.Op, uerr.Err)
	}
	return fmt.Errorf("telegram %s: %w", method, err)
}

// call posts a JSON body to a Bot API method and decodes result into out (when non-nil)
func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("telegram %s: encode request: %w", method, err)
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return stripURL(method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return stripURL(method, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	var env response
	_ = json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.OK {
		return &RequestError{
			Method:      method,
			StatusCode:  resp.StatusCode,
			ErrorCode:   env.ErrorCode,
			Description: env.Description,
			Body:        strings.TrimSpace(string(raw)),
		}
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}

// SendMessage sends text to a chat, optionally into a forum thread
func (c *Client) SendMessage(ctx context.Context, chatID, threadID int64, text, parseMode string, markup *InlineKeyboardMarkup) (*Message, error) {
	var out Message
	err := c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Text:            text,
		ParseMode:       parseMode,
		ReplyMarkup:     markup,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CopyMessage copies a message without a forward header and returns the new message ID
func (c *Client) CopyMessage(ctx context.Context, chatID, threadID, fromChatID, messageID int64) (int64, error) {
	var out messageIDResult
	err := c.call(ctx, "copyMessage", copyMessageRequest{
		ChatID:          chatID,
		MessageThreadID: threadID,
		FromChatID:      fromChatID,
		MessageID:       messageID,
	}, &out)
	if err != nil {
		return 0, err
	}
	return out.MessageID, nil
}

// CreateForumTopic opens a new topic in a forum supergroup
func (c *Client) CreateForumTopic(ctx context.Context, chatID int64, name string) (*ForumTopic, error) {
	var out ForumTopic
	if err := c.call(ctx, "createForumTopic", createForumTopicRequest{ChatID: chatID, Name: name}, &out); err != nil {
		return nil, err
	}
	if out.MessageThreadID == 0 {
		return nil, &RequestError{Method: "createForumTopic", StatusCode: http.StatusOK, Description: "missing message_thread_id"}
	}
	return &out, nil
}

// EditForumTopic renames a topic
func (c *Client) EditForumTopic(ctx context.Context, chatID, threadID int64, name string) error {
	return c.call(ctx, "editForumTopic", editForumTopicRequest{
		ChatID:          chatID,
		MessageThreadID: threadID,
		Name:            name,
	}, nil)
}

// EditMessageReplyMarkup replaces the inline keyboard of a message
func (c *Client) EditMessageReplyMarkup(ctx context.Context, chatID, messageID int64, markup *InlineKeyboardMarkup) error {
	return c.call(ctx, "editMessageReplyMarkup", editMessageReplyMarkupRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: markup,
	}, nil)
}

// AnswerCallbackQuery acknowledges a button press with an optional toast
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	return c.call(ctx, "answerCallbackQuery", answerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	}, nil)
}

// SetWebhook registers the webhook URL and its secret token
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	return c.call(ctx, "setWebhook", setWebhookRequest{
		URL:            webhookURL,
		SecretToken:    secret,
		AllowedUpdates: []string{"message", "edited_message", "callback_query"},
	}, nil)
}
