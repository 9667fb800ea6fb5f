package strategy

import (
	"math"
)

// =============================================================================
// DEAL SCORE
// Each strategy scores a handful of metrics on piecewise-linear curves, caps
// each sub-score, and sums them into a 0-100 composite.
// =============================================================================

// Breakpoint maps a metric value X to Points.
type Breakpoint struct {
	X      float64
	Points float64
}

// Curve is a capped scoring curve. Breakpoints must be sorted by X.
type Curve struct {
	Breakpoints []Breakpoint
	Cap         float64
}

// Interpolate evaluates the piecewise-linear function through bps at x.
// Values outside the breakpoint range take the nearest end's points.
func Interpolate(x float64, bps []Breakpoint) float64 {
	if len(bps) == 0 || math.IsNaN(x) {
		return 0
	}
	if x <= bps[0].X {
		return bps[0].Points
	}
	last := bps[len(bps)-1]
	if x >= last.X {
		return last.Points
	}
	for i := 1; i < len(bps); i++ {
		lo, hi := bps[i-1], bps[i]
		if x <= hi.X {
			t := (x - lo.X) / (hi.X - lo.X)
			return lo.Points + t*(hi.Points-lo.Points)
		}
	}
	return last.Points
}

// Points scores x and clamps to [0, Cap].
func (c Curve) Points(x float64) float64 {
	return math.Min(c.Cap, math.Max(0, Interpolate(x, c.Breakpoints)))
}

// Grade is a letter grade for a deal score.
type Grade string

const (
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// GradeFor maps a 0-100 score to a letter grade.
func GradeFor(score int) Grade {
	switch {
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeBPlus
	case score >= 60:
		return GradeB
	case score >= 50:
		return GradeCPlus
	case score >= 40:
		return GradeC
	default:
		return GradeD
	}
}

// ScoreComponent is one capped sub-score.
type ScoreComponent struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
}

// DealScore is the composite score with its breakdown.
type DealScore struct {
	Score      int              `json:"score"`
	Grade      Grade            `json:"grade"`
	Components []ScoreComponent `json:"components"`
}

// component scores value on c.
func component(name string, value float64, c Curve) ScoreComponent {
	return ScoreComponent{Name: name, Value: value, Points: c.Points(value), Max: c.Cap}
}

// bonus awards all of points when ok.
func bonus(name string, ok bool, points float64) ScoreComponent {
	c := ScoreComponent{Name: name, Value: boolValue(ok), Max: points}
	if ok {
		c.Points = points
	}
	return c
}

// composite sums components, rounds, and clamps to [0, 100].
func composite(components ...ScoreComponent) DealScore {
	var sum float64
	for _, c := range components {
		sum += c.Points
	}
	score := int(math.Max(0, math.Min(100, math.Round(sum))))
	return DealScore{
		Score:      score,
		Grade:      GradeFor(score),
		Components: components,
	}
}
