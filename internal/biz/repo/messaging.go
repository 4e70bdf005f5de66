package repo

import (
	"context"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

// SendOptions are the optional parts of an outbound text
type SendOptions struct {
	ThreadID string
	Markup   *domain.Markup
	Format   domain.Format
}

// MessagingClient is the outbound call layer towards the messaging platform.
// Callers treat every call as fire-and-forget: a failure is logged, never retried.
type MessagingClient interface {
	// SendText sends a text message and returns its message ID
	SendText(ctx context.Context, target, text string, opts SendOptions) (string, error)

	// CopyMessage copies messageID from source into target, inside threadID
	CopyMessage(ctx context.Context, target, source, messageID, threadID string) error

	// CreateThread creates a forum topic in group and returns its ID
	CreateThread(ctx context.Context, group, title string) (string, error)

	// RenameThread renames an existing forum topic
	RenameThread(ctx context.Context, group, threadID, title string) error

	// EditControlMarkup replaces the inline controls of a sent message
	EditControlMarkup(ctx context.Context, target, messageID string, markup *domain.Markup) error

	// AcknowledgeCallback answers an inline control press
	AcknowledgeCallback(ctx context.Context, callbackID, text string) error
}
