package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordingMailerCaptures(t *testing.T) {
	m := &RecordingMailer{}

	err := m.Notify([]string{"a@example.com", "b@example.com"}, "Result", "You are accepted.")
	assert.NoError(t, err)

	assert.Len(t, m.Sent, 1)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, m.Sent[0].Recipients)
	assert.Equal(t, "Result", m.Sent[0].Subject)
}

func TestSMTPMailerUnconfigured(t *testing.T) {
	m := &SMTPMailer{}
	err := m.Notify([]string{"a@example.com"}, "Result", "body")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mailer not configured")
}

func TestFromEnvDryRun(t *testing.T) {
	t.Setenv("NOTIFY_DRY_RUN", "true")
	_, ok := FromEnv().(*RecordingMailer)
	assert.True(t, ok)
}
