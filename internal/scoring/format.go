package scoring

import (
	"math"
	"strings"
)

// Format holds the limits of a match.
type Format struct {
	MaxOvers     int `json:"maxOvers" yaml:"max_overs"`
	MaxWickets   int `json:"maxWickets" yaml:"max_wickets"`
	BallsPerOver int `json:"ballsPerOver" yaml:"balls_per_over"`
}

// DefaultFormat is a 20-over, 10-wicket, 6-ball-over match.
func DefaultFormat() Format {
	return Format{MaxOvers: 20, MaxWickets: 10, BallsPerOver: 6}
}

var presets = map[string]Format{
	"t20": {MaxOvers: 20, MaxWickets: 10, BallsPerOver: 6},
	"odi": {MaxOvers: 50, MaxWickets: 10, BallsPerOver: 6},
	"t10": {MaxOvers: 10, MaxWickets: 10, BallsPerOver: 6},
}

// FormatByName looks up a preset format (t20, odi, t10).
func FormatByName(name string) (Format, bool) {
	f, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// WithDefaults fills any unset limit from DefaultFormat.
func (f Format) WithDefaults() Format {
	def := DefaultFormat()
	if f.MaxOvers <= 0 {
		f.MaxOvers = def.MaxOvers
	}
	if f.MaxWickets <= 0 {
		f.MaxWickets = def.MaxWickets
	}
	if f.BallsPerOver <= 0 {
		f.BallsPerOver = def.BallsPerOver
	}
	return f
}

// TotalBalls is the number of legal deliveries available to an innings.
func (f Format) TotalBalls() int {
	return f.MaxOvers * f.BallsPerOver
}

// oversFromBalls renders balls in overs.balls notation, e.g. 15 balls -> 2.3.
func oversFromBalls(balls, perOver int) float64 {
	return round1(float64(balls/perOver) + float64(balls%perOver)/10)
}

// perOver returns runs per over, 0 if no balls have been bowled.
func perOver(runs, balls, perOver int) float64 {
	if balls <= 0 {
		return 0
	}
	return round2(float64(runs) / (float64(balls) / float64(perOver)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
