package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilter_PermitAll(t *testing.T) {
	f := PermitAll()
	msgs := []Message{
		{Text: "hi"},
		{HasPhoto: true, Caption: "pic"},
		{Text: "see https://x.y", HasLink: true},
		{Text: "fwd", ChannelForward: true},
	}
	for _, m := range msgs {
		assert.Empty(t, f.Check(&m))
	}
}

func TestContentFilter_Image(t *testing.T) {
	f := PermitAll()
	f.AllowImage = false

	assert.Equal(t, []string{ReasonImage}, f.Check(&Message{HasPhoto: true}))
	assert.Empty(t, f.Check(&Message{HasDocument: true}))
}

func TestContentFilter_ChannelForwardTakesPrecedenceOverPhoto(t *testing.T) {
	f := ContentFilter{AllowLink: true, AllowText: true}

	reasons := f.Check(&Message{HasPhoto: true, ChannelForward: true})
	assert.Equal(t, []string{ReasonChannelForward}, reasons)
}

func TestContentFilter_LinkAppended(t *testing.T) {
	f := ContentFilter{AllowText: true, AllowChannelForward: true}

	reasons := f.Check(&Message{HasPhoto: true, Caption: "x.com", HasLink: true})
	assert.Equal(t, []string{ReasonImage, ReasonLink}, reasons)
	assert.Equal(t, "image/photo, link", JoinReasons(reasons))
}

func TestContentFilter_TextOnlyForPureText(t *testing.T) {
	f := PermitAll()
	f.AllowText = false

	assert.Equal(t, []string{ReasonText}, f.Check(&Message{Text: "hello"}))
	assert.Empty(t, f.Check(&Message{Caption: "caption only", HasPhoto: true}))
	assert.Empty(t, f.Check(&Message{Text: "forwarded", ChannelForward: true}))
}

func TestMessage_IsPureText(t *testing.T) {
	assert.True(t, (&Message{Text: "x", HasLink: true}).IsPureText())
	assert.False(t, (&Message{Text: "x", HasVoice: true}).IsPureText())
	assert.False(t, (&Message{}).IsPureText())
}

func TestMessage_Content(t *testing.T) {
	assert.Equal(t, "text", (&Message{Text: "text", Caption: "cap"}).Content())
	assert.Equal(t, "cap", (&Message{Caption: "cap"}).Content())
}
