// Package jobs moves slow side effects, such as e-mailing a plan, off the request path
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/coachbot/internal/email"
)

const (
	TaskEmailPlan = "email:plan"
	QueueMail     = "mail"
)

type EmailPlanPayload struct {
	To       string `json:"to"`
	PlanID   string `json:"plan_id"`
	Feature  string `json:"feature"`
	Sport    string `json:"sport"`
	Position string `json:"position,omitempty"`
	Goal     string `json:"goal"`
	Markdown string `json:"markdown"`
	ShareURL string `json:"share_url,omitempty"`
}

func (p EmailPlanPayload) message() email.PlanEmail {
	return email.PlanEmail{
		Feature:  p.Feature,
		Sport:    p.Sport,
		Position: p.Position,
		Goal:     p.Goal,
		Markdown: p.Markdown,
		ShareURL: p.ShareURL,
	}
}

// Dispatcher hands an e-mail job to whatever runs it
type Dispatcher interface {
	EmailPlan(ctx context.Context, p EmailPlanPayload) error
}

// NewEmailPlanTask encodes the payload as an asynq task
func NewEmailPlanTask(p EmailPlanPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return asynq.NewTask(TaskEmailPlan, b, asynq.Queue(QueueMail), asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// QueueDispatcher enqueues jobs on Redis for cmd/worker
type QueueDispatcher struct {
	Client *asynq.Client
}

func (d QueueDispatcher) EmailPlan(ctx context.Context, p EmailPlanPayload) error {
	task, err := NewEmailPlanTask(p)
	if err != nil {
		return err
	}
	info, err := d.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("task_id", info.ID).Str("plan_id", p.PlanID).Msg("email queued")
	return nil
}

// InlineDispatcher sends immediately, for setups without Redis
type InlineDispatcher struct {
	Sender email.Sender
}

func (d InlineDispatcher) EmailPlan(_ context.Context, p EmailPlanPayload) error {
	return SendPlan(d.Sender, p)
}

// SendPlan renders and sends the plan e-mail
func SendPlan(sender email.Sender, p EmailPlanPayload) error {
	subject, html, err := p.message().Render()
	if err != nil {
		return err
	}
	return sender.Send(p.To, subject, html)
}

// HandleEmailPlan returns the asynq handler used by cmd/worker
func HandleEmailPlan(sender email.Sender, log zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p EmailPlanPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Error().Err(err).Msg("bad email payload")
			return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
		}

		start := time.Now()
		err := SendPlan(sender, p)
		l := log.With().Str("plan_id", p.PlanID).Dur("duration", time.Since(start)).Logger()
		if err != nil {
			if isRetryableError(err) {
				l.Warn().Err(err).Msg("retryable email error")
				return err
			}
			l.Error().Err(err).Msg("permanent email error (dropping job)")
			return nil
		}
		l.Info().Msg("email sent")
		return nil
	}
}

// isRetryableError determines if an error should trigger a job retry
func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())

	// network/connectivity issues
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dns") ||
		strings.Contains(errStr, "eof") {
		return true
	}

	// SMTP transient replies (421 service unavailable, 45x mailbox busy)
	if strings.Contains(errStr, "421") ||
		strings.Contains(errStr, "450") ||
		strings.Contains(errStr, "451") ||
		strings.Contains(errStr, "452") {
		return true
	}

	// bad recipient, rejected message and so on
	return false
}
