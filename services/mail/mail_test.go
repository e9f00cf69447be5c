package mail

import (
	"context"
	"testing"

	"learnhub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEscapesTitle(t *testing.T) {
	out := Render("LearnHub", "<Course> published", "<p>body</p>")

	assert.Contains(t, out, "&lt;Course&gt; published")
	assert.Contains(t, out, "<p>body</p>")
	assert.Contains(t, out, "<h1>LearnHub</h1>")
}

func TestSendgridPrepare(t *testing.T) {
	m := NewSendgridMailer("key", "LearnHub", "no-reply@learnhub.test").(*sendgridMailer)
	v3 := m.prepare(Message{ToName: "Ada", ToEmail: "ada@example.com", Subject: "Hi", Text: "t", HTML: "<b>h</b>"})

	require.Len(t, v3.Personalizations, 1)
	assert.Equal(t, "[LearnHub] Hi", v3.Personalizations[0].Subject)
	assert.Equal(t, "ada@example.com", v3.Personalizations[0].To[0].Address)
	assert.Equal(t, "no-reply@learnhub.test", v3.From.Address)
	assert.Len(t, v3.Content, 2)
}

func TestSendgridRejectsEmptyRecipient(t *testing.T) {
	m := NewSendgridMailer("key", "LearnHub", "no-reply@learnhub.test")
	assert.Error(t, m.Send(context.Background(), Message{Subject: "x"}))
}

func TestConsoleMailer(t *testing.T) {
	assert.NoError(t, NewConsoleMailer(logger.Nop()).Send(context.Background(), Message{ToEmail: "a@b.c"}))
}
