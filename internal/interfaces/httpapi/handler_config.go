package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

const defaultConfigUpdatedBy = "admin-api"

func (h *Handler) GetConfigEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetConfigEntry")
	defer span.End()

	if h.configRepo == nil {
		writeError(ctx, w, fmt.Errorf("%w: config repository is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		writeError(ctx, w, fmt.Errorf("%w: config key is required", usecase.ErrInvalidInput))
		return
	}

	entry, ok, err := h.configRepo.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "get config entry failed", "key", key, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: config key %s", usecase.ErrNotFound, key))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, configEntryToDTO(entry))
}

func (h *Handler) UpdateConfigEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateConfigEntry")
	defer span.End()

	if h.configRepo == nil {
		writeError(ctx, w, fmt.Errorf("%w: config repository is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		writeError(ctx, w, fmt.Errorf("%w: config key is required", usecase.ErrInvalidInput))
		return
	}

	var req updateConfigRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updatedBy := strings.TrimSpace(req.UpdatedBy)
	if updatedBy == "" {
		updatedBy = defaultConfigUpdatedBy
	}

	if err := h.configRepo.Set(ctx, key, req.Value, req.Description, updatedBy); err != nil {
		h.logger.WarnContext(ctx, "update config entry failed", "key", key, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "config entry updated", "key", key, "updated_by", updatedBy)

	entry, ok, err := h.configRepo.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "read back config entry failed", "key", key, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: config key %s", usecase.ErrNotFound, key))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, configEntryToDTO(entry))
}
