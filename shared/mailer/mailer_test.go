package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "no-reply@propify.test",
		FromName: "Propify",
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, testConfig().Validate())

	cfg := testConfig()
	cfg.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.From = ""
	assert.Error(t, cfg.Validate())

	_, err := NewMailer(Config{})
	assert.Error(t, err)
}

func TestNewMessage(t *testing.T) {
	m, err := NewMailer(testConfig())
	require.NoError(t, err)

	msg, err := m.newMessage(Email{
		To:      []string{"a@x.com"},
		Cc:      []string{"c@x.com"},
		Subject: "Verify Your Seller Account",
		Body:    "Your OTP is: 123456",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a@x.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"c@x.com"}, msg.GetHeader("Cc"))
	assert.Equal(t, []string{"Verify Your Seller Account"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{`"Propify" <no-reply@propify.test>`}, msg.GetHeader("From"))
}

func TestSendWithoutRecipients(t *testing.T) {
	m, err := NewMailer(testConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, m.SendSimple(nil, "subject", "body"), ErrNoRecipients)
}

func TestNewMessageHTMLWithPlainAlternative(t *testing.T) {
	m, err := NewMailer(testConfig())
	require.NoError(t, err)

	msg, err := m.newMessage(Email{
		To:       []string{"a@x.com"},
		Subject:  "Reset Your Password",
		Body:     "Your OTP is: 123456",
		HTMLBody: "<p>Your OTP is: <b>123456</b></p>",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Reset Your Password"}, msg.GetHeader("Subject"))
}
