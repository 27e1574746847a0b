package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/teamstatus"
)

func newDisplayServiceForTest(now time.Time, configValues map[string]string) (*EventDisplayService, *memEventRepo, *memStatusRepo, *memMatchRepo) {
	eventRepo := newMemEventRepo()
	statusRepo := newMemStatusRepo()
	matchRepo := newMemMatchRepo()

	svc := NewEventDisplayService(
		newMemConfigRepo(configValues),
		eventRepo,
		statusRepo,
		matchRepo,
		nil,
	)
	svc.now = func() time.Time { return now }
	return svc, eventRepo, statusRepo, matchRepo
}

func displayMatch(key, level string, number int, red, blue []string) match.Match {
	return match.Match{
		MatchKey:    key,
		EventKey:    "2025mokc",
		CompLevel:   level,
		MatchNumber: number,
		Red:         match.Alliance{TeamKeys: red},
		Blue:        match.Alliance{TeamKeys: blue},
	}
}

func TestEventDisplayService_GetEventSummary_NoActiveEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newDisplayServiceForTest(now, syncConfigValues())

	summary, err := svc.GetEventSummary(context.Background())
	if err != nil {
		t.Fatalf("GetEventSummary error: %v", err)
	}
	if summary != nil {
		t.Fatalf("expected nil summary without an active event, got %+v", summary)
	}
}

func TestEventDisplayService_GetEventSummary_EventOnlyWithoutTeamNumber(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 14, 15, 0, 0, 0, time.UTC)
	svc, eventRepo, _, _ := newDisplayServiceForTest(now, map[string]string{
		appconfig.KeyEnableEventDisplay: "true",
	})
	seedActiveEvent(t, eventRepo, "2025mokc", now)

	summary, err := svc.GetEventSummary(context.Background())
	if err != nil {
		t.Fatalf("GetEventSummary error: %v", err)
	}
	if summary == nil {
		t.Fatalf("expected summary for active event")
	}
	if summary.Event.EventKey != "2025mokc" {
		t.Fatalf("unexpected event key: got=%s", summary.Event.EventKey)
	}
	if summary.TeamStatus != nil || summary.NextMatch != nil || summary.LastMatch != nil {
		t.Fatalf("expected event-only summary, got %+v", summary)
	}
}

func TestEventDisplayService_GetEventSummary_TurnaroundFromPredictedTimes(t *testing.T) {
	t.Parallel()

	now := time.Unix(900, 0)
	svc, eventRepo, statusRepo, matchRepo := newDisplayServiceForTest(now, syncConfigValues())
	seedActiveEvent(t, eventRepo, "2025mokc", now)

	rank := 3
	if err := statusRepo.Upsert(context.Background(), teamstatus.Status{
		TeamKey:  "frc1806",
		EventKey: "2025mokc",
		QualRank: &rank,
	}); err != nil {
		t.Fatalf("seed status: %v", err)
	}

	played := displayMatch("2025mokc_qm1", match.CompLevelQual, 1,
		[]string{"frc1806", "frc16", "frc1986"}, []string{"frc935", "frc1723", "frc2410"})
	redScore, blueScore := 87, 62
	played.Red.Score = &redScore
	played.Blue.Score = &blueScore
	resultAt := time.Unix(400, 0)
	played.PostResultAt = &resultAt

	next := displayMatch("2025mokc_qm3", match.CompLevelQual, 3,
		[]string{"frc1806", "frc971", "frc254"}, []string{"frc118", "frc148", "frc2056"})
	nextPredicted := time.Unix(1000, 0)
	next.PredictedAt = &nextPredicted

	// The team sits this one out, so it must not count as the follow-up.
	other := displayMatch("2025mokc_qm5", match.CompLevelQual, 5,
		[]string{"frc16", "frc1986", "frc935"}, []string{"frc1723", "frc2410", "frc971"})
	otherPredicted := time.Unix(1200, 0)
	other.PredictedAt = &otherPredicted

	following := displayMatch("2025mokc_qm7", match.CompLevelQual, 7,
		[]string{"frc254", "frc118", "frc148"}, []string{"frc2056", "frc1806", "frc16"})
	followingPredicted := time.Unix(1500, 0)
	following.PredictedAt = &followingPredicted

	if err := matchRepo.UpsertMany(context.Background(), []match.Match{played, next, other, following}); err != nil {
		t.Fatalf("seed matches: %v", err)
	}

	summary, err := svc.GetEventSummary(context.Background())
	if err != nil {
		t.Fatalf("GetEventSummary error: %v", err)
	}
	if summary == nil {
		t.Fatalf("expected summary")
	}

	if summary.TeamStatus == nil || summary.TeamStatus.QualRank == nil || *summary.TeamStatus.QualRank != 3 {
		t.Fatalf("unexpected team status: %+v", summary.TeamStatus)
	}
	if summary.NextMatch == nil || summary.NextMatch.MatchKey != "2025mokc_qm3" {
		t.Fatalf("unexpected next match: %+v", summary.NextMatch)
	}
	if summary.LastMatch == nil || summary.LastMatch.MatchKey != "2025mokc_qm1" {
		t.Fatalf("unexpected last match: %+v", summary.LastMatch)
	}
	if summary.TurnaroundTime == nil || *summary.TurnaroundTime != 500*time.Second {
		t.Fatalf("unexpected turnaround: %+v", summary.TurnaroundTime)
	}
	if summary.TurnaroundAllianceColor == nil || *summary.TurnaroundAllianceColor != match.AllianceBlue {
		t.Fatalf("unexpected turnaround alliance color: %+v", summary.TurnaroundAllianceColor)
	}
}

func TestEventDisplayService_GetEventSummary_NoTurnaroundWithoutFollowingMatch(t *testing.T) {
	t.Parallel()

	now := time.Unix(900, 0)
	svc, eventRepo, _, matchRepo := newDisplayServiceForTest(now, syncConfigValues())
	seedActiveEvent(t, eventRepo, "2025mokc", now)

	next := displayMatch("2025mokc_qm9", match.CompLevelQual, 9,
		[]string{"frc1806", "frc971", "frc254"}, []string{"frc118", "frc148", "frc2056"})
	predicted := time.Unix(1000, 0)
	next.PredictedAt = &predicted
	if err := matchRepo.Upsert(context.Background(), next); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	summary, err := svc.GetEventSummary(context.Background())
	if err != nil {
		t.Fatalf("GetEventSummary error: %v", err)
	}
	if summary == nil || summary.NextMatch == nil {
		t.Fatalf("expected summary with next match, got %+v", summary)
	}
	if summary.TurnaroundTime != nil {
		t.Fatalf("expected no turnaround for the team's final match, got %v", *summary.TurnaroundTime)
	}
	if summary.TurnaroundAllianceColor != nil {
		t.Fatalf("expected no turnaround color, got %q", *summary.TurnaroundAllianceColor)
	}
}

func TestEventDisplayService_GetMatchSchedule_EmptyWithoutActiveEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newDisplayServiceForTest(now, syncConfigValues())

	items, err := svc.GetMatchSchedule(context.Background(), "")
	if err != nil {
		t.Fatalf("GetMatchSchedule error: %v", err)
	}
	if items == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(items) != 0 {
		t.Fatalf("expected no matches, got=%d", len(items))
	}
}

func TestEventDisplayService_GetMatchSchedule_TeamFilter(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 14, 15, 0, 0, 0, time.UTC)
	svc, eventRepo, _, matchRepo := newDisplayServiceForTest(now, syncConfigValues())
	seedActiveEvent(t, eventRepo, "2025mokc", now)

	ours := displayMatch("2025mokc_qm2", match.CompLevelQual, 2,
		[]string{"frc1806", "frc16", "frc1986"}, []string{"frc935", "frc1723", "frc2410"})
	theirs := displayMatch("2025mokc_qm4", match.CompLevelQual, 4,
		[]string{"frc971", "frc254", "frc118"}, []string{"frc148", "frc2056", "frc16"})
	if err := matchRepo.UpsertMany(context.Background(), []match.Match{ours, theirs}); err != nil {
		t.Fatalf("seed matches: %v", err)
	}

	all, err := svc.GetMatchSchedule(context.Background(), "")
	if err != nil {
		t.Fatalf("GetMatchSchedule error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 matches, got=%d", len(all))
	}

	filtered, err := svc.GetMatchSchedule(context.Background(), "frc1806")
	if err != nil {
		t.Fatalf("GetMatchSchedule filtered error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].MatchKey != "2025mokc_qm2" {
		t.Fatalf("unexpected filtered schedule: %+v", filtered)
	}
}
