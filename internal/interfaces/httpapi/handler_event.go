package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

func (h *Handler) GetEventSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventSummary")
	defer span.End()

	summary, err := h.displayService.GetEventSummary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get event summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if summary == nil {
		// No active event. The frontend treats the empty envelope as
		// "nothing to display" rather than an error.
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventSummaryToDTO(*summary))
}

func (h *Handler) ListEventMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventMatches")
	defer span.End()

	team := strings.TrimSpace(r.URL.Query().Get("team"))
	if team != "" && !strings.HasPrefix(team, "frc") {
		if _, err := strconv.Atoi(team); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: team must be a key like frc1806 or a bare team number", usecase.ErrInvalidInput))
			return
		}
		team = usecase.TeamKeyFromNumber(team)
	}

	items, err := h.displayService.GetMatchSchedule(ctx, team)
	if err != nil {
		h.logger.WarnContext(ctx, "list event matches failed", "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}
