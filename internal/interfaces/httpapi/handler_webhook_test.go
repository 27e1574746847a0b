package httpapi

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/infrastructure/repository/memory"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/id"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

func newWebhookHandler(entries []appconfig.Entry, runner usecase.SyncRunner, logRepo *memory.WebhookLogRepository) *Handler {
	if logRepo == nil {
		logRepo = memory.NewWebhookLogRepository()
	}
	service := usecase.NewWebhookService(
		memory.NewAppConfigRepository(entries),
		logRepo,
		runner,
		nil,
		id.NewRandomGenerator(),
		logging.NewNop(),
	)
	return NewHandler(nil, nil, nil, service, nil, logging.NewNop())
}

func postWebhook(h *Handler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/tba", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("X-TBA-HMAC", signature)
	}
	rec := httptest.NewRecorder()
	h.IngestTBAWebhook(rec, req)
	return rec
}

func signWebhookBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestIngestTBAWebhook_PingAcceptedWithoutSecret(t *testing.T) {
	h := newWebhookHandler(nil, &stubSyncRunner{}, nil)

	rec := postWebhook(h, `{"message_type":"ping","message_data":{"title":"Test Title","desc":"Test"}}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if got, _ := data["message_type"].(string); got != webhooklog.TypePing {
		t.Fatalf("unexpected message_type: got=%q want=%q", got, webhooklog.TypePing)
	}
	if got, _ := data["status"].(string); got != usecase.WebhookStatusAccepted {
		t.Fatalf("unexpected status: got=%q want=%q", got, usecase.WebhookStatusAccepted)
	}
	if got, _ := data["id"].(string); got == "" {
		t.Fatalf("expected a receipt id")
	}
}

func TestIngestTBAWebhook_MatchScoreTriggersRefresh(t *testing.T) {
	runner := &stubSyncRunner{}
	logRepo := memory.NewWebhookLogRepository()
	h := newWebhookHandler(nil, runner, logRepo)

	body := `{"message_type":"match_score","message_data":{"event_key":"2025mokc","match":{"key":"2025mokc_qm10"}}}`
	rec := postWebhook(h, body, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	// No worker pool wired, so the follow-up refresh ran inline.
	if got := runner.callCount(); got != 1 {
		t.Fatalf("unexpected refresh runs: got=%d want=%d", got, 1)
	}

	records, err := logRepo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("unexpected record count: got=%d want=%d", len(records), 1)
	}
	if records[0].EventKey == nil || *records[0].EventKey != "2025mokc" {
		t.Fatalf("unexpected event key: got=%v", records[0].EventKey)
	}
	if records[0].MatchKey == nil || *records[0].MatchKey != "2025mokc_qm10" {
		t.Fatalf("unexpected match key: got=%v", records[0].MatchKey)
	}
	if !records[0].Processed {
		t.Fatalf("record should be marked processed after the inline refresh")
	}
}

func TestIngestTBAWebhook_SignatureMismatchRejected(t *testing.T) {
	h := newWebhookHandler([]appconfig.Entry{
		{Key: appconfig.KeyTBAWebhookSecret, Value: strPtr("s3cret"), Encrypted: true},
	}, &stubSyncRunner{}, nil)

	rec := postWebhook(h, `{"message_type":"ping","message_data":{}}`, "deadbeef")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
	errBody, _ := decodeEnvelope(t, rec)["error"].(map[string]any)
	if got, _ := errBody["status"].(string); got != "UNAUTHENTICATED" {
		t.Fatalf("unexpected error status: got=%q want=%q", got, "UNAUTHENTICATED")
	}
}

func TestIngestTBAWebhook_ValidSignatureAccepted(t *testing.T) {
	const secret = "s3cret"
	h := newWebhookHandler([]appconfig.Entry{
		{Key: appconfig.KeyTBAWebhookSecret, Value: strPtr(secret), Encrypted: true},
	}, &stubSyncRunner{}, nil)

	body := `{"message_type":"verification","message_data":{"verification_key":"abc123"}}`
	rec := postWebhook(h, body, signWebhookBody(secret, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if got, _ := data["message_type"].(string); got != webhooklog.TypeVerification {
		t.Fatalf("unexpected message_type: got=%q want=%q", got, webhooklog.TypeVerification)
	}
}

func TestIngestTBAWebhook_UnknownTypeIgnored(t *testing.T) {
	runner := &stubSyncRunner{}
	h := newWebhookHandler(nil, runner, nil)

	rec := postWebhook(h, `{"message_type":"broadcast","message_data":{"title":"hi"}}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if got, _ := data["status"].(string); got != usecase.WebhookStatusIgnored {
		t.Fatalf("unexpected status: got=%q want=%q", got, usecase.WebhookStatusIgnored)
	}
	if got := runner.callCount(); got != 0 {
		t.Fatalf("ignored types must not trigger a refresh, got %d runs", got)
	}
}

func TestIngestTBAWebhook_EmptyBodyRejected(t *testing.T) {
	h := newWebhookHandler(nil, &stubSyncRunner{}, nil)

	rec := postWebhook(h, "", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestListRecentWebhooks_NewestFirstWithLimit(t *testing.T) {
	logRepo := memory.NewWebhookLogRepository()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	seeds := []webhooklog.Record{
		{ID: "wh-1", MessageType: webhooklog.TypePing, Payload: "{}", ReceivedAt: base},
		{ID: "wh-2", MessageType: webhooklog.TypeMatchScore, Payload: "{}", ReceivedAt: base.Add(time.Minute)},
		{ID: "wh-3", MessageType: webhooklog.TypeUpcomingMatch, Payload: "{}", ReceivedAt: base.Add(2 * time.Minute)},
	}
	for i := 0; i < len(seeds); i++ {
		if err := logRepo.Append(context.Background(), seeds[i]); err != nil {
			t.Fatalf("seed webhook record: %v", err)
		}
	}
	h := newWebhookHandler(nil, &stubSyncRunner{}, logRepo)

	req := httptest.NewRequest(http.MethodGet, "/v1/internal/webhooks/recent?limit=2", nil)
	rec := httptest.NewRecorder()
	h.ListRecentWebhooks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	data, _ := decodeEnvelope(t, rec)["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("unexpected record count: got=%d want=%d", len(data), 2)
	}
	first, _ := data[0].(map[string]any)
	if got, _ := first["id"].(string); got != "wh-3" {
		t.Fatalf("expected newest record first: got=%q want=%q", got, "wh-3")
	}
	if got, _ := first["messageType"].(string); got != webhooklog.TypeUpcomingMatch {
		t.Fatalf("unexpected messageType: got=%q want=%q", got, webhooklog.TypeUpcomingMatch)
	}
}

func TestListRecentWebhooks_RejectsBadLimit(t *testing.T) {
	h := newWebhookHandler(nil, &stubSyncRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/internal/webhooks/recent?limit=abc", nil)
	rec := httptest.NewRecorder()
	h.ListRecentWebhooks(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}
