package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

func (h *Handler) RunEventCheckJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunEventCheckJob")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	if err := decodeInternalJobRunRequest(r); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome := h.syncRunner.RunEventCheck(ctx)
	if outcome.Err != nil {
		h.logger.WarnContext(ctx, "forced event check failed", "run_id", outcome.RunID, "error", outcome.Err)
		writeError(ctx, w, outcome.Err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncOutcomeToDTO(outcome))
}

func (h *Handler) RunEventRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunEventRefreshJob")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	if err := decodeInternalJobRunRequest(r); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome := h.syncRunner.RunDataRefresh(ctx)
	if outcome.Err != nil {
		h.logger.WarnContext(ctx, "forced data refresh failed", "run_id", outcome.RunID, "error", outcome.Err)
		writeError(ctx, w, outcome.Err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncOutcomeToDTO(outcome))
}

func (h *Handler) RunCacheCleanupJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCacheCleanupJob")
	defer span.End()

	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	if err := decodeInternalJobRunRequest(r); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome := h.syncRunner.RunCacheCleanup(ctx)
	if outcome.Err != nil {
		h.logger.WarnContext(ctx, "forced cache cleanup failed", "run_id", outcome.RunID, "error", outcome.Err)
		writeError(ctx, w, outcome.Err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncOutcomeToDTO(outcome))
}

func (h *Handler) StartScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartScheduler")
	defer span.End()

	if h.schedulerService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler service is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	if err := decodeInternalJobRunRequest(r); err != nil {
		writeError(ctx, w, err)
		return
	}

	started, err := h.schedulerService.Start(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "scheduler start failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "scheduler start requested", "started", started)

	writeSuccess(ctx, w, http.StatusOK, schedulerStatusDTO{
		Started: started,
		Running: h.schedulerService.IsRunning(),
	})
}

func (h *Handler) StopScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StopScheduler")
	defer span.End()

	if h.schedulerService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler service is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	if err := decodeInternalJobRunRequest(r); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.schedulerService.Stop()
	h.logger.InfoContext(ctx, "scheduler stop requested")

	writeSuccess(ctx, w, http.StatusOK, schedulerStatusDTO{
		Running: h.schedulerService.IsRunning(),
	})
}

func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SchedulerStatus")
	defer span.End()

	if h.schedulerService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedulerStatusDTO{
		Running: h.schedulerService.IsRunning(),
	})
}

func decodeInternalJobRunRequest(r *http.Request) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobRunRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
