package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/webhooklog"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

type Handler struct {
	displayService   *usecase.EventDisplayService
	syncRunner       usecase.SyncRunner
	schedulerService *usecase.SchedulerService
	webhookService   *usecase.WebhookService
	configRepo       appconfig.Repository
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	displayService *usecase.EventDisplayService,
	syncRunner usecase.SyncRunner,
	schedulerService *usecase.SchedulerService,
	webhookService *usecase.WebhookService,
	configRepo appconfig.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		displayService:   displayService,
		syncRunner:       syncRunner,
		schedulerService: schedulerService,
		webhookService:   webhookService,
		configRepo:       configRepo,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type updateConfigRequest struct {
	Value       *string `json:"value"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	UpdatedBy   string  `json:"updatedBy" validate:"omitempty,max=80"`
}

// internalJobRunRequest is deliberately empty: forced runs carry no
// parameters, and strict decoding still rejects garbage bodies.
type internalJobRunRequest struct{}

type eventDTO struct {
	EventKey     string `json:"eventKey"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName,omitempty"`
	EventCode    string `json:"eventCode,omitempty"`
	EventType    int    `json:"eventType"`
	City         string `json:"city,omitempty"`
	StateProv    string `json:"stateProv,omitempty"`
	Country      string `json:"country,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
	StartAt      string `json:"startAt"`
	EndAt        string `json:"endAt"`
	Year         int    `json:"year"`
	IsActive     bool   `json:"isActive"`
}

type allianceDTO struct {
	TeamKeys          []string `json:"teamKeys"`
	Score             *int     `json:"score,omitempty"`
	SurrogateTeamKeys []string `json:"surrogateTeamKeys,omitempty"`
	DQTeamKeys        []string `json:"dqTeamKeys,omitempty"`
}

type videoDTO struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type matchDTO struct {
	MatchKey        string         `json:"matchKey"`
	EventKey        string         `json:"eventKey"`
	CompLevel       string         `json:"compLevel"`
	SetNumber       *int           `json:"setNumber,omitempty"`
	MatchNumber     int            `json:"matchNumber"`
	WinningAlliance string         `json:"winningAlliance,omitempty"`
	Red             allianceDTO    `json:"red"`
	Blue            allianceDTO    `json:"blue"`
	ScheduledAt     string         `json:"scheduledAt,omitempty"`
	PredictedAt     string         `json:"predictedAt,omitempty"`
	ActualAt        string         `json:"actualAt,omitempty"`
	PostResultAt    string         `json:"postResultAt,omitempty"`
	ScoreBreakdown  map[string]any `json:"scoreBreakdown,omitempty"`
	Videos          []videoDTO     `json:"videos,omitempty"`
}

type teamStatusDTO struct {
	TeamKey           string   `json:"teamKey"`
	EventKey          string   `json:"eventKey"`
	QualRank          *int     `json:"qualRank,omitempty"`
	QualAverage       *float64 `json:"qualAverage,omitempty"`
	Record            string   `json:"record,omitempty"`
	PlayoffAlliance   *int     `json:"playoffAlliance,omitempty"`
	PlayoffRecord     string   `json:"playoffRecord,omitempty"`
	PlayoffStatus     string   `json:"playoffStatus,omitempty"`
	OverallStatusText string   `json:"overallStatusText,omitempty"`
	NextMatchKey      string   `json:"nextMatchKey,omitempty"`
	LastMatchKey      string   `json:"lastMatchKey,omitempty"`
	OPR               *float64 `json:"opr,omitempty"`
	DPR               *float64 `json:"dpr,omitempty"`
	CCWM              *float64 `json:"ccwm,omitempty"`
	UpdatedAt         string   `json:"updatedAt"`
}

type eventSummaryDTO struct {
	Event                   eventDTO       `json:"event"`
	TeamStatus              *teamStatusDTO `json:"teamStatus,omitempty"`
	NextMatch               *matchDTO      `json:"nextMatch,omitempty"`
	LastMatch               *matchDTO      `json:"lastMatch,omitempty"`
	TurnaroundSeconds       *int64         `json:"turnaroundSeconds,omitempty"`
	TurnaroundAllianceColor string         `json:"turnaroundAllianceColor,omitempty"`
}

type syncOutcomeDTO struct {
	Operation      string `json:"operation"`
	RunID          string `json:"runId,omitempty"`
	StartedAt      string `json:"startedAt"`
	DurationMs     int64  `json:"durationMs"`
	HasActiveEvent bool   `json:"hasActiveEvent"`
	SweptRows      int64  `json:"sweptRows"`
}

type schedulerStatusDTO struct {
	Started bool `json:"started"`
	Running bool `json:"running"`
}

type webhookRecordDTO struct {
	ID          string `json:"id"`
	MessageType string `json:"messageType"`
	Payload     string `json:"payload"`
	EventKey    string `json:"eventKey,omitempty"`
	MatchKey    string `json:"matchKey,omitempty"`
	ReceivedAt  string `json:"receivedAt"`
	Processed   bool   `json:"processed"`
	Error       string `json:"error,omitempty"`
}

type configEntryDTO struct {
	Key         string  `json:"key"`
	Value       *string `json:"value,omitempty"`
	HasValue    bool    `json:"hasValue"`
	Description string  `json:"description,omitempty"`
	Encrypted   bool    `json:"encrypted"`
	UpdatedBy   string  `json:"updatedBy,omitempty"`
	UpdatedAt   string  `json:"updatedAt"`
}

func eventToDTO(v event.Event) eventDTO {
	return eventDTO{
		EventKey:     v.EventKey,
		Name:         v.Name,
		ShortName:    v.ShortName,
		EventCode:    v.EventCode,
		EventType:    v.EventType,
		City:         v.City,
		StateProv:    v.StateProv,
		Country:      v.Country,
		LocationName: v.LocationName,
		Timezone:     v.Timezone,
		StartAt:      v.StartAt.UTC().Format(time.RFC3339),
		EndAt:        v.EndAt.UTC().Format(time.RFC3339),
		Year:         v.Year,
		IsActive:     v.IsActive,
	}
}

func matchToDTO(v match.Match) matchDTO {
	videos := make([]videoDTO, 0, len(v.Videos))
	for _, item := range v.Videos {
		videos = append(videos, videoDTO{Type: item.Type, Key: item.Key})
	}
	if len(videos) == 0 {
		videos = nil
	}

	return matchDTO{
		MatchKey:        v.MatchKey,
		EventKey:        v.EventKey,
		CompLevel:       v.CompLevel,
		SetNumber:       v.SetNumber,
		MatchNumber:     v.MatchNumber,
		WinningAlliance: v.WinningAlliance,
		Red:             allianceToDTO(v.Red),
		Blue:            allianceToDTO(v.Blue),
		ScheduledAt:     formatOptionalTime(v.ScheduledAt),
		PredictedAt:     formatOptionalTime(v.PredictedAt),
		ActualAt:        formatOptionalTime(v.ActualAt),
		PostResultAt:    formatOptionalTime(v.PostResultAt),
		ScoreBreakdown:  v.ScoreBreakdown,
		Videos:          videos,
	}
}

func allianceToDTO(v match.Alliance) allianceDTO {
	return allianceDTO{
		TeamKeys:          append([]string(nil), v.TeamKeys...),
		Score:             v.Score,
		SurrogateTeamKeys: append([]string(nil), v.SurrogateTeamKeys...),
		DQTeamKeys:        append([]string(nil), v.DQTeamKeys...),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

func teamStatusToDTO(v teamstatus.Status) teamStatusDTO {
	return teamStatusDTO{
		TeamKey:           v.TeamKey,
		EventKey:          v.EventKey,
		QualRank:          v.QualRank,
		QualAverage:       v.QualAverage,
		Record:            v.RecordText(),
		PlayoffAlliance:   v.PlayoffAlliance,
		PlayoffRecord:     stringValue(v.PlayoffRecord),
		PlayoffStatus:     stringValue(v.PlayoffStatus),
		OverallStatusText: stringValue(v.OverallStatusText),
		NextMatchKey:      stringValue(v.NextMatchKey),
		LastMatchKey:      stringValue(v.LastMatchKey),
		OPR:               v.OPR,
		DPR:               v.DPR,
		CCWM:              v.CCWM,
		UpdatedAt:         v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func eventSummaryToDTO(v usecase.EventSummary) eventSummaryDTO {
	dto := eventSummaryDTO{Event: eventToDTO(v.Event)}
	if v.TeamStatus != nil {
		status := teamStatusToDTO(*v.TeamStatus)
		dto.TeamStatus = &status
	}
	if v.NextMatch != nil {
		next := matchToDTO(*v.NextMatch)
		dto.NextMatch = &next
	}
	if v.LastMatch != nil {
		last := matchToDTO(*v.LastMatch)
		dto.LastMatch = &last
	}
	if v.TurnaroundTime != nil {
		seconds := int64(v.TurnaroundTime.Seconds())
		dto.TurnaroundSeconds = &seconds
	}
	if v.TurnaroundAllianceColor != nil {
		dto.TurnaroundAllianceColor = *v.TurnaroundAllianceColor
	}
	return dto
}

func syncOutcomeToDTO(v usecase.SyncOutcome) syncOutcomeDTO {
	return syncOutcomeDTO{
		Operation:      string(v.Operation),
		RunID:          v.RunID,
		StartedAt:      v.StartedAt.UTC().Format(time.RFC3339),
		DurationMs:     v.Duration.Milliseconds(),
		HasActiveEvent: v.HasActiveEvent,
		SweptRows:      v.SweptRows,
	}
}

func webhookRecordsToDTO(items []webhooklog.Record) []webhookRecordDTO {
	out := make([]webhookRecordDTO, 0, len(items))
	for _, item := range items {
		out = append(out, webhookRecordDTO{
			ID:          item.ID,
			MessageType: item.MessageType,
			Payload:     item.Payload,
			EventKey:    stringValue(item.EventKey),
			MatchKey:    stringValue(item.MatchKey),
			ReceivedAt:  item.ReceivedAt.UTC().Format(time.RFC3339),
			Processed:   item.Processed,
			Error:       stringValue(item.Error),
		})
	}
	return out
}

// configEntryToDTO redacts the stored value of encrypted keys: hasValue
// still tells operators whether a secret is set.
func configEntryToDTO(v appconfig.Entry) configEntryDTO {
	dto := configEntryDTO{
		Key:         v.Key,
		HasValue:    v.Value != nil,
		Description: v.Description,
		Encrypted:   v.Encrypted,
		UpdatedBy:   v.UpdatedBy,
		UpdatedAt:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if v.Value != nil && !v.Encrypted {
		value := *v.Value
		dto.Value = &value
	}
	return dto
}

func formatOptionalTime(v *time.Time) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
