package domain

// EventKind identifies the classified shape of an inbound update
type EventKind string

const (
	EventPrivateMessage EventKind = "private_message"
	EventEditedMessage  EventKind = "edited_message"
	EventGroupMessage   EventKind = "group_message"
	EventCallback       EventKind = "callback"
)

// Event is the tagged variant produced by the update classifier.
// Each inbound update maps to at most one event.
type Event interface {
	Kind() EventKind
}

// PrivateMessageEvent is a message sent to the bot in a private chat
type PrivateMessageEvent struct {
	Message Message
}

// EditedMessageEvent is an edit of a previously sent private message
type EditedMessageEvent struct {
	Message Message
}

// GroupMessageEvent is a message posted in the staffed group
type GroupMessageEvent struct {
	Message Message
}

// CallbackEvent is an inline control press
type CallbackEvent struct {
	Callback Callback
}

func (PrivateMessageEvent) Kind() EventKind { return EventPrivateMessage }
func (EditedMessageEvent) Kind() EventKind  { return EventEditedMessage }
func (GroupMessageEvent) Kind() EventKind   { return EventGroupMessage }
func (CallbackEvent) Kind() EventKind       { return EventCallback }
