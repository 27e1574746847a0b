package rankingpoint

// AllianceRankingPoints is what each alliance earned from one match's
// score breakdown, with the per-bonus flags the season defines.
type AllianceRankingPoints struct {
	Red           int
	Blue          int
	RedBreakdown  map[string]bool
	BlueBreakdown map[string]bool
}

// TeamRankingPoints narrows alliance points to one team.
type TeamRankingPoints struct {
	Points    int
	Breakdown map[string]bool
	Alliance  string
}

// sideExtractor reads one alliance's side of a season's breakdown schema.
type sideExtractor func(side map[string]any) (int, map[string]bool)

// extractorForYear dispatches on the season, because the game's scoring
// schema changes annually. Unknown seasons use the generic fallback, which
// only reads the flat "rp" field.
func extractorForYear(year int) sideExtractor {
	switch year {
	case 2025:
		return extract2025
	default:
		return extractGeneric
	}
}

func extract2025(side map[string]any) (int, map[string]bool) {
	return intField(side, "rp"), map[string]bool{
		"Barge Bonus": boolField(side, "bargeBonusAchieved"),
		"Coral Bonus": boolField(side, "coralBonusAchieved"),
	}
}

func extractGeneric(side map[string]any) (int, map[string]bool) {
	return intField(side, "rp"), map[string]bool{}
}

// Extract maps a year-specific score breakdown to the ranking points each
// alliance earned. It returns nil when either alliance side is missing and
// never panics; this feeds display paths that must degrade gracefully.
func Extract(breakdown map[string]any, year int) *AllianceRankingPoints {
	if breakdown == nil {
		return nil
	}
	red, ok := sideMap(breakdown["red"])
	if !ok {
		return nil
	}
	blue, ok := sideMap(breakdown["blue"])
	if !ok {
		return nil
	}

	extract := extractorForYear(year)
	redRP, redBonus := extract(red)
	blueRP, blueBonus := extract(blue)

	return &AllianceRankingPoints{
		Red:           redRP,
		Blue:          blueRP,
		RedBreakdown:  redBonus,
		BlueBreakdown: blueBonus,
	}
}

// ForTeam returns the team's share of the breakdown, located through
// alliance membership. A team in neither alliance yields nil.
func ForTeam(breakdown map[string]any, year int, teamKey string, redTeams, blueTeams []string) *TeamRankingPoints {
	points := Extract(breakdown, year)
	if points == nil {
		return nil
	}

	switch {
	case containsKey(redTeams, teamKey):
		return &TeamRankingPoints{Points: points.Red, Breakdown: points.RedBreakdown, Alliance: "red"}
	case containsKey(blueTeams, teamKey):
		return &TeamRankingPoints{Points: points.Blue, Breakdown: points.BlueBreakdown, Alliance: "blue"}
	default:
		return nil
	}
}

func sideMap(value any) (map[string]any, bool) {
	side, ok := value.(map[string]any)
	if !ok || side == nil {
		return nil, false
	}
	return side, true
}

func intField(side map[string]any, key string) int {
	switch v := side[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func boolField(side map[string]any, key string) bool {
	v, ok := side[key].(bool)
	return ok && v
}

func containsKey(keys []string, teamKey string) bool {
	for _, key := range keys {
		if key == teamKey {
			return true
		}
	}
	return false
}
