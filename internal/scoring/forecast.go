package scoring

import "math"

// Composite score weights. Consistency is a standard deviation, so it is
// penalized: a steadier team scores higher.
const (
	weightAverage     = 0.6
	weightHighGame    = 0.1
	weightExperience  = 0.05
	weightConsistency = -0.25
)

type ForecastSide struct {
	MeanAverage     float64
	MeanConsistency float64
	MaxHighGame     int
	Experience      int
	TotalHDC        int
	TotalPins       int
	Composite       float64
	WinProbability  int
	ProjectedScore  int
}

type ForecastResult struct {
	TeamA ForecastSide
	TeamB ForecastSide
	// Winner is "A" or "B", empty when the composite scores tie exactly
	// and there is no clear favorite.
	Winner          string
	ConfidenceLevel int
	ConfidenceLabel string
}

// Forecast blends the selected players' aggregates into a win-probability
// pair and a point-spread projection. Both sides need at least one player
// with valid statistics; otherwise the result is nil and the caller should
// prompt for a selection instead of rendering zeros.
func Forecast(a, b []*PlayerStats) *ForecastResult {
	sideA, okA := buildForecastSide(a)
	sideB, okB := buildForecastSide(b)
	if !okA || !okB {
		return nil
	}

	total := sideA.Composite + sideB.Composite
	if total > 0 {
		sideA.WinProbability = int(math.Round(sideA.Composite / total * 100))
	} else {
		sideA.WinProbability = 50
	}
	sideB.WinProbability = 100 - sideA.WinProbability

	result := &ForecastResult{TeamA: sideA, TeamB: sideB}
	switch {
	case sideA.Composite > sideB.Composite:
		result.Winner = "A"
	case sideB.Composite > sideA.Composite:
		result.Winner = "B"
	}
	result.ConfidenceLevel = int(math.Abs(float64(sideA.WinProbability-50))) * 2
	result.ConfidenceLabel = confidenceLabel(result.ConfidenceLevel)
	return result
}

func buildForecastSide(players []*PlayerStats) (ForecastSide, bool) {
	valid := make([]*PlayerStats, 0, len(players))
	for _, p := range players {
		if p != nil && p.GamesPlayed > 0 {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return ForecastSide{}, false
	}

	var side ForecastSide
	for _, p := range valid {
		side.MeanAverage += p.Average
		side.MeanConsistency += float64(p.Consistency)
		if p.HighGame > side.MaxHighGame {
			side.MaxHighGame = p.HighGame
		}
		side.Experience += p.GamesPlayed
		side.TotalHDC += p.TotalHDC
		side.TotalPins += p.TotalPins
	}
	side.MeanAverage /= float64(len(valid))
	side.MeanConsistency /= float64(len(valid))

	side.Composite = weightAverage*side.MeanAverage +
		weightHighGame*float64(side.MaxHighGame) +
		weightExperience*float64(side.Experience) +
		weightConsistency*side.MeanConsistency
	side.ProjectedScore = int(math.Round(float64(side.TotalPins + side.TotalHDC)))
	return side, true
}

func confidenceLabel(level int) string {
	switch {
	case level > 60:
		return "High"
	case level > 30:
		return "Medium"
	default:
		return "Low"
	}
}
