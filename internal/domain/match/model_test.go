package match

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func simpleMatch(key, level string, setNumber *int, matchNumber int) Match {
	return Match{
		MatchKey:    key,
		EventKey:    "2025mokc",
		CompLevel:   level,
		SetNumber:   setNumber,
		MatchNumber: matchNumber,
	}
}

func TestSort_QualsBeforeEliminations(t *testing.T) {
	t.Parallel()

	items := []Match{
		simpleMatch("2025mokc_qm3", CompLevelQual, nil, 3),
		simpleMatch("2025mokc_f1m1", CompLevelFinal, intPtr(1), 1),
		simpleMatch("2025mokc_qm1", CompLevelQual, nil, 1),
		simpleMatch("2025mokc_sf2m1", CompLevelSemi, intPtr(2), 1),
	}

	Sort(items)

	got := make([]string, 0, len(items))
	for _, item := range items {
		got = append(got, item.MatchKey)
	}
	want := []string{"2025mokc_qm1", "2025mokc_qm3", "2025mokc_sf2m1", "2025mokc_f1m1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected schedule order (-want +got):\n%s", diff)
	}
}

func TestSort_MissingSetNumberOrdersAsSetOne(t *testing.T) {
	t.Parallel()

	items := []Match{
		simpleMatch("2025mokc_sf2m1", CompLevelSemi, intPtr(2), 1),
		simpleMatch("2025mokc_sf1m1", CompLevelSemi, nil, 1),
	}

	Sort(items)

	if items[0].MatchKey != "2025mokc_sf1m1" {
		t.Fatalf("expected nil set number to sort as set 1, got first=%s", items[0].MatchKey)
	}
}

func TestIsUpcoming_PlaceholderScoresCountAsUnset(t *testing.T) {
	t.Parallel()

	now := time.Unix(2000, 0)
	item := simpleMatch("2025mokc_qm1", CompLevelQual, nil, 1)
	item.Red.Score = intPtr(-1)
	item.Blue.Score = intPtr(-1)
	item.ScheduledAt = timePtr(time.Unix(1000, 0))

	if !item.IsUpcoming(now) {
		t.Fatalf("expected match with placeholder scores to be upcoming")
	}
	if item.IsCompleted() {
		t.Fatalf("expected match with placeholder scores to not be completed")
	}
}

func TestIsCompleted_RealScoresOrPostResultTime(t *testing.T) {
	t.Parallel()

	scored := simpleMatch("2025mokc_qm1", CompLevelQual, nil, 1)
	scored.Red.Score = intPtr(52)
	scored.Blue.Score = intPtr(47)
	if !scored.IsCompleted() {
		t.Fatalf("expected match with both real scores to be completed")
	}

	posted := simpleMatch("2025mokc_qm2", CompLevelQual, nil, 2)
	posted.PostResultAt = timePtr(time.Unix(1500, 0))
	if !posted.IsCompleted() {
		t.Fatalf("expected match with post-result time to be completed")
	}
}

func TestNextAndLastForTeam(t *testing.T) {
	t.Parallel()

	now := time.Unix(5000, 0)

	played := simpleMatch("2025mokc_qm1", CompLevelQual, nil, 1)
	played.Red.TeamKeys = []string{"frc1806", "frc16", "frc5098"}
	played.Blue.TeamKeys = []string{"frc935", "frc1730", "frc1939"}
	played.Red.Score = intPtr(88)
	played.Blue.Score = intPtr(61)

	pending := simpleMatch("2025mokc_qm9", CompLevelQual, nil, 9)
	pending.Red.TeamKeys = []string{"frc2345", "frc3284", "frc1108"}
	pending.Blue.TeamKeys = []string{"frc1806", "frc1825", "frc1987"}
	pending.Red.Score = intPtr(-1)
	pending.Blue.Score = intPtr(-1)

	otherTeams := simpleMatch("2025mokc_qm5", CompLevelQual, nil, 5)
	otherTeams.Red.TeamKeys = []string{"frc971", "frc254", "frc118"}
	otherTeams.Blue.TeamKeys = []string{"frc2481", "frc1678", "frc148"}

	items := []Match{played, otherTeams, pending}
	Sort(items)

	next, ok := NextForTeam(items, "frc1806", now)
	if !ok || next.MatchKey != "2025mokc_qm9" {
		t.Fatalf("unexpected next match: ok=%v key=%s", ok, next.MatchKey)
	}

	last, ok := LastForTeam(items, "frc1806")
	if !ok || last.MatchKey != "2025mokc_qm1" {
		t.Fatalf("unexpected last match: ok=%v key=%s", ok, last.MatchKey)
	}
}

func TestFollowingForTeam_SkipsOtherTeamsMatches(t *testing.T) {
	t.Parallel()

	next := simpleMatch("2025mokc_qm9", CompLevelQual, nil, 9)
	next.Blue.TeamKeys = []string{"frc1806"}

	interleaved := simpleMatch("2025mokc_qm10", CompLevelQual, nil, 10)
	interleaved.Red.TeamKeys = []string{"frc254"}

	following := simpleMatch("2025mokc_qm14", CompLevelQual, nil, 14)
	following.Red.TeamKeys = []string{"frc1806"}

	items := []Match{next, interleaved, following}
	Sort(items)

	got, ok := FollowingForTeam(items, "frc1806", next)
	if !ok || got.MatchKey != "2025mokc_qm14" {
		t.Fatalf("unexpected following match: ok=%v key=%s", ok, got.MatchKey)
	}
	if got.AllianceOf("frc1806") != AllianceRed {
		t.Fatalf("unexpected alliance color: got=%s want=%s", got.AllianceOf("frc1806"), AllianceRed)
	}
}

func TestFollowingForTeam_NoneAfterLastMatch(t *testing.T) {
	t.Parallel()

	only := simpleMatch("2025mokc_f1m2", CompLevelFinal, intPtr(1), 2)
	only.Red.TeamKeys = []string{"frc1806"}

	if _, ok := FollowingForTeam([]Match{only}, "frc1806", only); ok {
		t.Fatalf("expected no following match after the final")
	}
}

func TestAllianceOf_TeamInNeitherAlliance(t *testing.T) {
	t.Parallel()

	item := simpleMatch("2025mokc_qm1", CompLevelQual, nil, 1)
	item.Red.TeamKeys = []string{"frc16"}
	item.Blue.TeamKeys = []string{"frc935"}

	if got := item.AllianceOf("frc1806"); got != "" {
		t.Fatalf("expected empty alliance, got=%q", got)
	}
}
