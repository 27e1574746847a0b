package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

// maxWebhookBodyBytes caps inbound notification payloads. Real deliveries
// are a few KB; anything near the cap is junk.
const maxWebhookBodyBytes = 1 << 20

func (h *Handler) IngestTBAWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestTBAWebhook")
	defer span.End()

	if h.webhookService == nil {
		writeError(ctx, w, fmt.Errorf("%w: webhook service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read webhook body: %v", usecase.ErrInvalidInput, err))
		return
	}

	receipt, err := h.webhookService.Ingest(ctx, body, r.Header.Get("X-TBA-HMAC"))
	if err != nil {
		h.logger.WarnContext(ctx, "webhook ingest failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, receipt)
}

func (h *Handler) ListRecentWebhooks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecentWebhooks")
	defer span.End()

	if h.webhookService == nil {
		writeError(ctx, w, fmt.Errorf("%w: webhook service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid limit parameter: %v", usecase.ErrInvalidInput, err))
			return
		}
		limit = parsed
	}

	records, err := h.webhookService.RecentDeliveries(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list recent webhooks failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, webhookRecordsToDTO(records))
}
