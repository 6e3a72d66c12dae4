package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/aarogya-webinar/backend/pkg/queue"
)

// ConfirmationProcessor consumes booking confirmation jobs and sends the
// confirmation email with the WhatsApp group invite.
type ConfirmationProcessor struct {
	queue  *queue.Queue
	sender Sender
	logger *zap.Logger
}

// NewConfirmationProcessor creates a confirmation worker.
func NewConfirmationProcessor(q *queue.Queue, sender Sender, logger *zap.Logger) *ConfirmationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfirmationProcessor{queue: q, sender: sender, logger: logger}
}

// Run processes jobs until ctx is cancelled. Failed jobs are retried with
// backoff and land in the DLQ after the retry budget.
func (p *ConfirmationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(2 * time.Second)
			continue
		}
		if job == nil {
			continue
		}
		if job.Type != queue.JobTypeConfirmation {
			p.logger.Warn("unknown job type", zap.String("type", string(job.Type)), zap.String("job_id", job.ID))
			continue
		}

		var payload queue.ConfirmationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			p.logger.Warn("invalid confirmation payload", zap.Error(err), zap.String("job_id", job.ID))
			continue
		}

		if err := p.sender.SendConfirmation(ctx, payload); err != nil {
			p.logger.Error("send confirmation failed", zap.Error(err),
				zap.String("job_id", job.ID),
				zap.String("booking_id", payload.BookingID.String()),
				zap.Int("attempt", job.Attempt))
			_ = p.queue.Retry(ctx, job)
			continue
		}
		p.logger.Info("confirmation sent",
			zap.String("booking_id", payload.BookingID.String()),
			zap.String("recipient", payload.RecipientEmail))
	}
}
