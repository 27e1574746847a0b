package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/metrics"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/id"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
)

const (
	WebhookStatusAccepted = "accepted"
	WebhookStatusIgnored  = "ignored"
)

// WebhookReceipt acknowledges one inbound push notification.
type WebhookReceipt struct {
	ID          string `json:"id"`
	MessageType string `json:"message_type"`
	Status      string `json:"status"`
}

// WebhookService ingests push notifications from the upstream competition
// API. Every delivery is persisted before any processing, so a crash mid
// dispatch loses nothing and operators can replay from the log.
type WebhookService struct {
	configRepo appconfig.Repository
	logRepo    webhooklog.Repository
	runner     SyncRunner
	workers    *ants.Pool
	idGen      id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

// NewWebhookService wires the ingest pipeline. A nil worker pool is valid
// and makes follow-up refreshes run inline on the request goroutine.
func NewWebhookService(
	configRepo appconfig.Repository,
	logRepo webhooklog.Repository,
	runner SyncRunner,
	workers *ants.Pool,
	idGen id.Generator,
	logger *logging.Logger,
) *WebhookService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookService{
		configRepo: configRepo,
		logRepo:    logRepo,
		runner:     runner,
		workers:    workers,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

type webhookEnvelope struct {
	MessageType string         `json:"message_type"`
	MessageData map[string]any `json:"message_data"`
}

// Ingest validates, persists, and dispatches one delivery. The signature is
// the X-TBA-HMAC header value; when no webhook secret is stored the payload
// is accepted unverified with a warning, so a fresh install can register
// with the upstream before the secret is configured.
func (s *WebhookService) Ingest(ctx context.Context, body []byte, signature string) (WebhookReceipt, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WebhookService.Ingest")
	defer span.End()

	if s.configRepo == nil || s.logRepo == nil || s.runner == nil || s.idGen == nil {
		return WebhookReceipt{}, fmt.Errorf("%w: webhook service is not fully configured", ErrDependencyUnavailable)
	}
	if len(body) == 0 {
		return WebhookReceipt{}, fmt.Errorf("%w: webhook body is empty", ErrInvalidInput)
	}

	if err := s.verifySignature(ctx, body, signature); err != nil {
		metrics.WebhooksReceived.WithLabelValues("unknown", metrics.ResultInvalid).Inc()
		return WebhookReceipt{}, err
	}

	var envelope webhookEnvelope
	parseErr := sonic.Unmarshal(body, &envelope)
	messageType := strings.TrimSpace(envelope.MessageType)
	if messageType == "" {
		messageType = "unknown"
	}

	recordID, err := s.idGen.NewID()
	if err != nil {
		return WebhookReceipt{}, fmt.Errorf("generate webhook id: %w", err)
	}

	eventKey, matchKey := webhookKeys(envelope.MessageData)
	record := webhooklog.Record{
		ID:          recordID,
		MessageType: messageType,
		Payload:     string(body),
		EventKey:    eventKey,
		MatchKey:    matchKey,
		ReceivedAt:  s.now(),
	}
	if err := s.logRepo.Append(ctx, record); err != nil {
		return WebhookReceipt{}, fmt.Errorf("persist webhook delivery: %w", err)
	}

	if parseErr != nil {
		s.markProcessed(ctx, recordID, parseErr.Error())
		metrics.WebhooksReceived.WithLabelValues(messageType, metrics.ResultInvalid).Inc()
		return WebhookReceipt{}, fmt.Errorf("%w: webhook body is not valid JSON: %v", ErrInvalidInput, parseErr)
	}

	receipt := WebhookReceipt{ID: recordID, MessageType: messageType, Status: WebhookStatusAccepted}

	switch messageType {
	case webhooklog.TypeVerification:
		key, _ := envelope.MessageData["verification_key"].(string)
		s.logger.InfoContext(ctx, "webhook verification key received", "verification_key", key)
		s.markProcessed(ctx, recordID, "")
		metrics.WebhooksReceived.WithLabelValues(messageType, metrics.ResultSuccess).Inc()

	case webhooklog.TypePing:
		s.logger.InfoContext(ctx, "webhook ping received")
		s.markProcessed(ctx, recordID, "")
		metrics.WebhooksReceived.WithLabelValues(messageType, metrics.ResultSuccess).Inc()

	case webhooklog.TypeUpcomingMatch, webhooklog.TypeMatchScore,
		webhooklog.TypeScheduleUpdated, webhooklog.TypeAllianceSelection:
		run, scope := s.refreshForType(messageType)
		s.logger.InfoContext(ctx, "webhook triggers event data refresh",
			"message_type", messageType,
			"refresh_scope", scope,
			"webhook_id", recordID,
			"event_key", stringOrEmpty(eventKey),
			"match_key", stringOrEmpty(matchKey),
		)
		s.scheduleRefresh(ctx, recordID, run)
		metrics.WebhooksReceived.WithLabelValues(messageType, metrics.ResultSuccess).Inc()

	default:
		s.logger.WarnContext(ctx, "ignoring unhandled webhook type", "message_type", messageType, "webhook_id", recordID)
		s.markProcessed(ctx, recordID, "")
		metrics.WebhooksReceived.WithLabelValues(messageType, metrics.ResultIgnored).Inc()
		receipt.Status = WebhookStatusIgnored
	}

	return receipt, nil
}

// RecentDeliveries lists the latest persisted deliveries, newest first.
func (s *WebhookService) RecentDeliveries(ctx context.Context, limit int) ([]webhooklog.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WebhookService.RecentDeliveries")
	defer span.End()

	if s.logRepo == nil {
		return nil, fmt.Errorf("%w: webhook service is not fully configured", ErrDependencyUnavailable)
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.logRepo.ListRecent(ctx, limit)
}

func (s *WebhookService) verifySignature(ctx context.Context, body []byte, signature string) error {
	entry, ok, err := s.configRepo.Get(ctx, appconfig.KeyTBAWebhookSecret)
	if err != nil {
		return fmt.Errorf("read config %s: %w", appconfig.KeyTBAWebhookSecret, err)
	}
	secret := strings.TrimSpace(entry.StringValue())
	if !ok || secret == "" {
		s.logger.WarnContext(ctx, "no webhook secret stored, accepting unverified delivery",
			"config_key", appconfig.KeyTBAWebhookSecret,
		)
		return nil
	}

	if !verifyWebhookSignature(secret, body, signature) {
		s.logger.WarnContext(ctx, "webhook signature mismatch", "signature", abbreviateSignature(signature))
		return fmt.Errorf("%w: webhook signature mismatch", ErrUnauthorized)
	}
	return nil
}

// verifyWebhookSignature checks the hex HMAC-SHA256 of the raw body.
func verifyWebhookSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	provided := strings.ToLower(strings.TrimSpace(signature))
	return hmac.Equal([]byte(expected), []byte(provided))
}

func abbreviateSignature(signature string) string {
	signature = strings.TrimSpace(signature)
	if len(signature) <= 8 {
		return signature
	}
	return signature[:8] + "..."
}

// refreshForType picks how much to re-pull: alliance selections move
// standings only, schedule changes move the match list only, match
// results move both.
func (s *WebhookService) refreshForType(messageType string) (func(context.Context) SyncOutcome, string) {
	switch messageType {
	case webhooklog.TypeAllianceSelection:
		return s.runner.RunStatusRefresh, "status"
	case webhooklog.TypeScheduleUpdated:
		return s.runner.RunMatchRefresh, "matches"
	default:
		return s.runner.RunDataRefresh, "all"
	}
}

// scheduleRefresh hands the follow-up refresh to the worker pool so the
// upstream gets its acknowledgement immediately. The refresh context is
// detached from the request lifetime but keeps its trace linkage.
func (s *WebhookService) scheduleRefresh(ctx context.Context, recordID string, run func(context.Context) SyncOutcome) {
	taskCtx := context.WithoutCancel(ctx)
	task := func() {
		outcome := run(taskCtx)
		if outcome.Err != nil {
			s.markProcessed(taskCtx, recordID, outcome.Err.Error())
			return
		}
		s.markProcessed(taskCtx, recordID, "")
	}

	if s.workers == nil {
		task()
		return
	}
	if err := s.workers.Submit(task); err != nil {
		s.logger.WarnContext(ctx, "submit webhook refresh to worker pool failed, running inline", "error", err)
		task()
	}
}

func (s *WebhookService) markProcessed(ctx context.Context, recordID, processErr string) {
	var errPtr *string
	if processErr != "" {
		errPtr = &processErr
	}
	if err := s.logRepo.MarkProcessed(ctx, recordID, errPtr); err != nil {
		s.logger.WarnContext(ctx, "mark webhook processed failed", "webhook_id", recordID, "error", err)
	}
}

func webhookKeys(data map[string]any) (*string, *string) {
	var eventKey, matchKey *string
	if v, ok := data["event_key"].(string); ok && v != "" {
		eventKey = &v
	}
	if v, ok := data["match_key"].(string); ok && v != "" {
		matchKey = &v
	}
	if nested, ok := data["match"].(map[string]any); ok {
		if matchKey == nil {
			if v, ok := nested["key"].(string); ok && v != "" {
				matchKey = &v
			}
		}
		if eventKey == nil {
			if v, ok := nested["event_key"].(string); ok && v != "" {
				eventKey = &v
			}
		}
	}
	return eventKey, matchKey
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
