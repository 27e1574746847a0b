package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
	qb "github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/querybuilder"
)

type WebhookLogRepository struct {
	db *sqlx.DB
}

func NewWebhookLogRepository(db *sqlx.DB) *WebhookLogRepository {
	return &WebhookLogRepository{db: db}
}

func (r *WebhookLogRepository) Append(ctx context.Context, item webhooklog.Record) error {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return fmt.Errorf("webhook record id is required")
	}

	insertModel := webhookLogInsertModel{
		ID:          id,
		MessageType: item.MessageType,
		Payload:     item.Payload,
		EventKey:    item.EventKey,
		MatchKey:    item.MatchKey,
		ReceivedAt:  item.ReceivedAt,
		Processed:   item.Processed,
		LastError:   item.Error,
	}
	query, args, err := qb.InsertModel("webhook_log", insertModel, "")
	if err != nil {
		return fmt.Errorf("build append webhook record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append webhook record id=%s: %w", id, err)
	}
	return nil
}

func (r *WebhookLogRepository) MarkProcessed(ctx context.Context, id string, processErr *string) error {
	query, args, err := qb.Update("webhook_log").
		Set("processed", true).
		Set("last_error", processErr).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark webhook processed query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark webhook processed id=%s: %w", id, err)
	}
	return nil
}

func (r *WebhookLogRepository) ListRecent(ctx context.Context, limit int) ([]webhooklog.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := qb.Select("*").From("webhook_log").
		OrderBy("received_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent webhooks query: %w", err)
	}

	var rows []webhookLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent webhooks: %w", err)
	}

	out := make([]webhooklog.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
