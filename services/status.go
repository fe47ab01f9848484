package services

import (
	"context"
	"fmt"
	"time"

	"conversions/models"

	"github.com/redis/go-redis/v9"
)

// StatusMirror copies the latest job status into a Redis hash so external
// converters and dashboards can poll it without touching Postgres.
type StatusMirror struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStatusMirror returns a mirror writing to client. A nil client yields a
// mirror whose Publish is a no-op.
func NewStatusMirror(client *redis.Client, prefix string, ttl time.Duration) *StatusMirror {
	return &StatusMirror{client: client, prefix: prefix, ttl: ttl}
}

func (m *StatusMirror) Key(jobID string) string {
	return fmt.Sprintf("%sconversion:status:%s", m.prefix, jobID)
}

func (m *StatusMirror) Publish(ctx context.Context, job *models.ConversionJob) error {
	if m == nil || m.client == nil || job == nil {
		return nil
	}

	fields := map[string]interface{}{
		"status":     job.Status,
		"user_id":    job.UserID,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		fields["error"] = *job.ErrorMessage
	}
	if job.CompletedAt != nil {
		fields["completed_at"] = job.CompletedAt.UTC().Format(time.RFC3339)
	}

	key := m.Key(job.ID)
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		if m.ttl > 0 {
			pipe.Expire(ctx, key, m.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mirror status for job %s: %w", job.ID, err)
	}
	return nil
}
