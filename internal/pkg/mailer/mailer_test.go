package mailer

import (
	"context"
	"testing"

	"github.com/3Eeeecho/go-tinybox/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutCredentials(t *testing.T) {
	m := New(&config.EmailConfig{SMTPHost: "smtp.example.com", FromEmail: "box@example.com"})
	assert.False(t, m.Enabled())
	assert.ErrorIs(t, m.Send(context.Background(), "bob@example.com", "s", "b"), ErrDisabled)

	m = New(&config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, FromEmail: "box@example.com", SMTPPassword: "pw"})
	assert.True(t, m.Enabled())
}

func TestRenderShareLink_EscapesInput(t *testing.T) {
	body, err := RenderShareLink(ShareLinkData{
		OwnerName:  "Alice",
		OwnerEmail: "alice@example.com",
		FileName:   "<script>x</script>.txt",
		ShareURL:   "https://box.example.com/share/abc",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "https://box.example.com/share/abc")
	assert.Contains(t, body, "Alice (alice@example.com)")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "may expire")
}

func TestRenderWelcome(t *testing.T) {
	body, err := RenderWelcome(WelcomeData{UserName: "bob", DashboardURL: "https://box.example.com/"})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi <strong>bob</strong>")
}

func TestShareLinkSubject(t *testing.T) {
	assert.Equal(t, `Alice shared "report.pdf" with you`, ShareLinkSubject("Alice", "report.pdf"))
}
