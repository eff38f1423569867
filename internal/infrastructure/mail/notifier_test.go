package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

type recordingSender struct {
	sent []*gomail.Msg
	err  error
}

func (s *recordingSender) DialAndSendWithContext(_ context.Context, messages ...*gomail.Msg) error {
	s.sent = append(s.sent, messages...)
	return s.err
}

func testSettings() Settings {
	return Settings{
		Host:      "smtp.example.org",
		Port:      465,
		Sender:    "digest@example.org",
		Password:  "app-password",
		Recipient: "ops@example.org",
	}
}

func TestNewNotifierValidatesSettings(t *testing.T) {
	t.Parallel()

	_, err := NewNotifier(Settings{Host: "smtp.example.org"}, nil)
	require.Error(t, err)

	for _, port := range []int{465, 587} {
		s := testSettings()
		s.Port = port
		n, err := NewNotifier(s, nil)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.org", n.Recipient())
	}
}

func TestMessageHasPlainAndHTMLParts(t *testing.T) {
	t.Parallel()

	n, err := NewNotifier(testSettings(), nil)
	require.NoError(t, err)

	msg, err := n.Message("Update - 2026-02-16", "# Digest\n\nFlap actuator inspection.\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: Update - 2026-02-16")
	assert.Contains(t, raw, "digest@example.org")
	assert.Contains(t, raw, "ops@example.org")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "# Digest")
	assert.Contains(t, raw, "<h1>Digest</h1>")
}

func TestPublishDigestSends(t *testing.T) {
	t.Parallel()

	n, err := NewNotifier(testSettings(), nil)
	require.NoError(t, err)
	rec := &recordingSender{}
	n.client = rec

	require.NoError(t, n.PublishDigest(context.Background(), "Subject", "Body"))
	assert.Len(t, rec.sent, 1)
}

func TestPublishDigestPropagatesFailure(t *testing.T) {
	t.Parallel()

	n, err := NewNotifier(testSettings(), nil)
	require.NoError(t, err)
	boom := errors.New("auth failed")
	n.client = &recordingSender{err: boom}

	err = n.PublishDigest(context.Background(), "Subject", "Body")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "smtp.example.org:465")
}

func TestRendererSanitizes(t *testing.T) {
	t.Parallel()

	html, err := NewRenderer().HTML("**Bold** <script>alert(1)</script>")

	require.NoError(t, err)
	assert.Contains(t, html, "<strong>Bold</strong>")
	assert.NotContains(t, html, "<script>")
}

func TestSubject(t *testing.T) {
	t.Parallel()

	toronto := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, 2, 17, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "Update - 2026-02-16", Subject("Update", now, toronto))
	assert.Equal(t, "Update - 2026-02-17", Subject("Update", now, nil))
}
