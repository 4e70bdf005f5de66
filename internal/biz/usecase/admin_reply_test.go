package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devricklin/tg-relay-bridge/internal/biz/domain"
)

func groupMessage(threadID, text string, bot bool) domain.Message {
	return domain.Message{
		ID:       "500",
		ChatID:   adminGroup,
		ThreadID: threadID,
		IsTopic:  true,
		Sender:   domain.Sender{ID: "7", FirstName: "Staff", IsBot: bot},
		Text:     text,
	}
}

func TestHandleGroupMessage_Relays(t *testing.T) {
	h := newHarness(nil)
	h.repo.threads["42"] = "700"
	h.repo.owners["700"] = "42"

	relayed, err := h.replies.HandleGroupMessage(context.Background(), groupMessage("700", "hi there", false))
	require.NoError(t, err)
	assert.True(t, relayed)
	assert.Equal(t, []string{"hi there"}, h.msg.textsTo("42"))
}

func TestHandleGroupMessage_Skips(t *testing.T) {
	h := newHarness(nil)
	h.repo.owners["700"] = "42"

	notTopic := groupMessage("700", "x", false)
	notTopic.IsTopic = false

	otherChat := groupMessage("700", "x", false)
	otherChat.ChatID = "-999"

	cases := map[string]domain.Message{
		"bot":        groupMessage("700", "loop", true),
		"no text":    groupMessage("700", "", false),
		"no thread":  groupMessage("", "x", false),
		"not topic":  notTopic,
		"unbound":    groupMessage("701", "x", false),
		"other chat": otherChat,
	}
	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			relayed, err := h.replies.HandleGroupMessage(context.Background(), msg)
			require.NoError(t, err)
			assert.False(t, relayed)
		})
	}
	assert.Empty(t, h.msg.sent)
}
