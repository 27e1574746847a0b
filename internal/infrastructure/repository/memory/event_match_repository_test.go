package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/match"
)

func TestEventMatchRepository_ListSortsScheduleOrder(t *testing.T) {
	t.Parallel()

	repo := NewEventMatchRepository()
	ctx := context.Background()

	setOne := 1
	items := []match.Match{
		{
			MatchKey:    "2025mokc_sf1m1",
			EventKey:    "2025mokc",
			CompLevel:   match.CompLevelSemi,
			SetNumber:   &setOne,
			MatchNumber: 1,
			Red:         match.Alliance{TeamKeys: []string{"frc1806", "frc16", "frc2345"}},
			Blue:        match.Alliance{TeamKeys: []string{"frc1987", "frc5006", "frc9312"}},
		},
		{
			MatchKey:    "2025mokc_qm10",
			EventKey:    "2025mokc",
			CompLevel:   match.CompLevelQual,
			MatchNumber: 10,
			Red:         match.Alliance{TeamKeys: []string{"frc1987", "frc5006", "frc9312"}},
			Blue:        match.Alliance{TeamKeys: []string{"frc1806", "frc16", "frc2345"}},
		},
		{
			MatchKey:    "2025mokc_qm2",
			EventKey:    "2025mokc",
			CompLevel:   match.CompLevelQual,
			MatchNumber: 2,
			Red:         match.Alliance{TeamKeys: []string{"frc1806", "frc16", "frc2345"}},
			Blue:        match.Alliance{TeamKeys: []string{"frc1987", "frc5006", "frc9312"}},
		},
	}
	if err := repo.UpsertMany(ctx, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.List(ctx, "2025mokc", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected match count: got=%d want=3", len(got))
	}
	order := []string{got[0].MatchKey, got[1].MatchKey, got[2].MatchKey}
	want := []string{"2025mokc_qm2", "2025mokc_qm10", "2025mokc_sf1m1"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected schedule order at %d: got=%s want=%s", i, order[i], want[i])
		}
	}
}

func TestEventMatchRepository_ListFiltersByTeam(t *testing.T) {
	t.Parallel()

	repo := NewEventMatchRepository()
	ctx := context.Background()

	items := []match.Match{
		{
			MatchKey:    "2025mokc_qm1",
			EventKey:    "2025mokc",
			CompLevel:   match.CompLevelQual,
			MatchNumber: 1,
			Red:         match.Alliance{TeamKeys: []string{"frc1806", "frc16", "frc2345"}},
			Blue:        match.Alliance{TeamKeys: []string{"frc1987", "frc5006", "frc9312"}},
		},
		{
			MatchKey:    "2025mokc_qm2",
			EventKey:    "2025mokc",
			CompLevel:   match.CompLevelQual,
			MatchNumber: 2,
			Red:         match.Alliance{TeamKeys: []string{"frc5119", "frc5268", "frc5918"}},
			Blue:        match.Alliance{TeamKeys: []string{"frc1987", "frc5006", "frc9312"}},
		},
	}
	if err := repo.UpsertMany(ctx, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.List(ctx, "2025mokc", "frc1806")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected match count: got=%d want=1", len(got))
	}
	if got[0].MatchKey != "2025mokc_qm1" {
		t.Fatalf("unexpected match: got=%s want=2025mokc_qm1", got[0].MatchKey)
	}
}

func TestEventMatchRepository_ListScopedToEvent(t *testing.T) {
	t.Parallel()

	repo := NewEventMatchRepository()
	ctx := context.Background()

	items := []match.Match{
		{MatchKey: "2025mokc_qm1", EventKey: "2025mokc", CompLevel: match.CompLevelQual, MatchNumber: 1},
		{MatchKey: "2025mosl_qm1", EventKey: "2025mosl", CompLevel: match.CompLevelQual, MatchNumber: 1},
	}
	if err := repo.UpsertMany(ctx, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.List(ctx, "2025mokc", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected match count: got=%d want=1", len(got))
	}
	if got[0].MatchKey != "2025mokc_qm1" {
		t.Fatalf("unexpected match: got=%s", got[0].MatchKey)
	}
}

func TestEventMatchRepository_NextAndLastFollowPostedResults(t *testing.T) {
	t.Parallel()

	repo := NewEventMatchRepository()
	ctx := context.Background()

	played, upcoming := 87, -1
	playedAt := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	laterAt := time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)
	items := []match.Match{
		{
			MatchKey:     "2025mokc_qm3",
			EventKey:     "2025mokc",
			CompLevel:    match.CompLevelQual,
			MatchNumber:  3,
			Red:          match.Alliance{TeamKeys: []string{"frc1806", "frc16", "frc2345"}, Score: &played},
			Blue:         match.Alliance{TeamKeys: []string{"frc1987", "frc5006", "frc9312"}, Score: &played},
			ScheduledAt:  &playedAt,
			PostResultAt: &playedAt,
		},
		{
			MatchKey:    "2025mokc_qm21",
			EventKey:    "2025mokc",
			CompLevel:   match.CompLevelQual,
			MatchNumber: 21,
			Red:         match.Alliance{TeamKeys: []string{"frc1806", "frc16", "frc2345"}, Score: &upcoming},
			Blue:        match.Alliance{TeamKeys: []string{"frc1987", "frc5006", "frc9312"}, Score: &upcoming},
			ScheduledAt: &laterAt,
		},
	}
	if err := repo.UpsertMany(ctx, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	next, ok, err := repo.Next(ctx, "2025mokc", "frc1806", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a next match")
	}
	if next.MatchKey != "2025mokc_qm21" {
		t.Fatalf("unexpected next match: got=%s want=2025mokc_qm21", next.MatchKey)
	}

	last, ok, err := repo.Last(ctx, "2025mokc", "frc1806")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a last match")
	}
	if last.MatchKey != "2025mokc_qm3" {
		t.Fatalf("unexpected last match: got=%s want=2025mokc_qm3", last.MatchKey)
	}
}

func TestEventMatchRepository_UpsertCopiesAlliances(t *testing.T) {
	t.Parallel()

	repo := NewEventMatchRepository()
	ctx := context.Background()

	keys := []string{"frc1806", "frc16", "frc2345"}
	item := match.Match{
		MatchKey:    "2025mokc_qm1",
		EventKey:    "2025mokc",
		CompLevel:   match.CompLevelQual,
		MatchNumber: 1,
		Red:         match.Alliance{TeamKeys: keys},
	}
	if err := repo.Upsert(ctx, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys[0] = "frc9999"

	got, err := repo.List(ctx, "2025mokc", "frc1806")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("stored alliance mutated through the caller's slice")
	}
}
