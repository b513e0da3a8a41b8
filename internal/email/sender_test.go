package email

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPSender_Defaults(t *testing.T) {
	s := NewSMTPSender("", "")
	if s.Addr != "localhost:1025" {
		t.Fatalf("expected default addr localhost:1025, got %s", s.Addr)
	}
	if s.From != "no-reply@coachbot.local" {
		t.Fatalf("expected default from no-reply@coachbot.local, got %s", s.From)
	}
}

func TestStdoutSender_Send(t *testing.T) {
	var buf strings.Builder
	s := StdoutSender{Log: zerolog.New(&buf)}
	if err := s.Send("user@example.com", "Test subject", "<p>Test</p>"); err != nil {
		t.Fatalf("StdoutSender.Send returned error: %v", err)
	}
	assert.Contains(t, buf.String(), "user@example.com")
	assert.Contains(t, buf.String(), "Test subject")
}

func TestSenders_EmptyRecipient(t *testing.T) {
	senders := map[string]Sender{
		"smtp":   NewSMTPSender("localhost:1025", "from@example.com"),
		"stdout": StdoutSender{Log: zerolog.Nop()},
	}
	for name, s := range senders {
		if err := s.Send("  ", "subj", "body"); !errors.Is(err, ErrNoRecipient) {
			t.Errorf("%s: expected ErrNoRecipient, got %v", name, err)
		}
	}
}

func TestSMTPSender_BadRecipient(t *testing.T) {
	s := NewSMTPSender("127.0.0.1:1", "from@example.com")
	err := s.Send("Coach Bob <bob@example.com", "subj", "body")
	if !errors.Is(err, ErrBadRecipient) {
		t.Fatalf("expected ErrBadRecipient, got %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	msg := string(buildMessage("coach@example.com", "athlete@example.com", "Your plan: Weekly Nutrition Plan", "<p>a</p>\n<p>b</p>", now))

	assert.Contains(t, msg, "From: coach@example.com\r\n")
	assert.Contains(t, msg, "To: athlete@example.com\r\n")
	assert.Contains(t, msg, "Subject: Your plan: Weekly Nutrition Plan\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "Date: Sun, 01 Mar 2026 09:30:00 +0000\r\n")

	parts := strings.SplitN(msg, "\r\n\r\n", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "<p>a</p>\r\n<p>b</p>", parts[1])
}

func TestBuildMessageEncodesNonASCIISubject(t *testing.T) {
	msg := string(buildMessage("a@example.com", "b@example.com", "Récupération", "x", time.Now()))
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
}

func TestPlanEmailRender(t *testing.T) {
	subject, html, err := PlanEmail{
		Feature:  "Weekly Nutrition Plan",
		Sport:    "Rowing",
		Goal:     "Build stamina",
		Markdown: "## Breakfast\n- Oats",
		ShareURL: "http://localhost:8080/share?token=abc",
	}.Render()
	require.NoError(t, err)

	assert.Equal(t, "Your CoachBot plan: Weekly Nutrition Plan", subject)
	assert.Contains(t, html, "<h2>Breakfast</h2>")
	assert.Contains(t, html, `href="http://localhost:8080/share?token=abc"`)
	assert.NotContains(t, html, "Rowing (")
}

// Sends through a local MailHog when one is running and cleans up via its API.
func TestSMTPSender_MailHog_SendAndCleanup(t *testing.T) {
	client := &http.Client{Timeout: 2 * time.Second}
	_ = doMailHogDelete(client)

	sender := NewSMTPSender("localhost:1025", "test-from@example.com")
	if err := sender.Send("recipient@example.com", "Test MailHog", "<p>Hello MailHog</p>"); err != nil {
		t.Skipf("MailHog SMTP not available or send failed: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	resp, err := client.Get("http://localhost:8025/api/v2/messages")
	if err != nil {
		t.Skipf("MailHog HTTP API not available: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != 200 {
		t.Skipf("MailHog API returned non-200: %d", resp.StatusCode)
	}

	var payload struct {
		Total int `json:"total"`
	}
	b, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(b, &payload)
	assert.GreaterOrEqual(t, payload.Total, 1)

	if err := doMailHogDelete(client); err != nil {
		t.Fatalf("failed to clean up MailHog messages: %v", err)
	}
}

func doMailHogDelete(client *http.Client) error {
	req, _ := http.NewRequest("DELETE", "http://localhost:8025/api/v1/messages", nil)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
