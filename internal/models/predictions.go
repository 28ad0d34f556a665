package models

import "time"

// Confidence labels how much history backs a prediction
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Tier names the fallback step that produced a prediction's sample
type Tier string

const (
	TierExact         Tier = "exact"
	TierWeekOnly      Tier = "week_only"
	TierBackwardExact Tier = "backward_exact"
	TierBackwardWeek  Tier = "backward_week"
	TierSeason        Tier = "season"
)

// PredictionQuery asks for a player's expected production against an opponent
type PredictionQuery struct {
	PlayerName string `json:"player"`
	Opponent   string `json:"opponent"`
	Week       *int   `json:"week,omitempty"`
}

// StatLine holds yards and touchdowns per category
type StatLine struct {
	RushingYards   float64 `json:"rushing_yards"`
	ReceivingYards float64 `json:"receiving_yards"`
	PassingYards   float64 `json:"passing_yards"`
	RushingTDs     float64 `json:"rushing_tds"`
	ReceivingTDs   float64 `json:"receiving_tds"`
	PassingTDs     float64 `json:"passing_tds"`
}

// Aggregate is the raw sum of a player's production within a resolved sample.
// SampleSize counts every play in the sample, not only the player's touches.
type Aggregate struct {
	StatLine
	SampleSize int `json:"sample_size"`
}

// AdjustmentFactors are opponent-allowed / league-average ratios per category
type AdjustmentFactors struct {
	Rushing   float64 `json:"rushing"`
	Receiving float64 `json:"receiving"`
	Passing   float64 `json:"passing"`
}

// PredictionResult is the engine's answer to a PredictionQuery
type PredictionResult struct {
	PlayerName      string            `json:"player_name"`
	Opponent        string            `json:"opponent"`
	RequestedWeek   *int              `json:"requested_week,omitempty"`
	UsedWeek        *int              `json:"used_week,omitempty"`
	Tier            Tier              `json:"tier"`
	Predicted       StatLine          `json:"predicted"`
	Baseline        StatLine          `json:"baseline"`
	Factors         AdjustmentFactors `json:"factors"`
	SampleSize      int               `json:"sample_size"`
	Confidence      Confidence        `json:"confidence"`
	Note            string            `json:"note,omitempty"`
	SnapshotVersion string            `json:"snapshot_version"`
}

// KnownPlayer is a player observed in the play history
type KnownPlayer struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// SnapshotInfo describes the data set currently served
type SnapshotInfo struct {
	Version  string    `json:"version"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Plays    int       `json:"plays"`
	Players  int       `json:"players"`
	Teams    int       `json:"teams"`
}

// Yards returns the yards recorded for category c
func (s StatLine) Yards(c Category) float64 {
	switch c {
	case CategoryRushing:
		return s.RushingYards
	case CategoryReceiving:
		return s.ReceivingYards
	case CategoryPassing:
		return s.PassingYards
	}
	return 0
}

// TDs returns the touchdowns recorded for category c
func (s StatLine) TDs(c Category) float64 {
	switch c {
	case CategoryRushing:
		return s.RushingTDs
	case CategoryReceiving:
		return s.ReceivingTDs
	case CategoryPassing:
		return s.PassingTDs
	}
	return 0
}

// Set overwrites yards and touchdowns for category c
func (s *StatLine) Set(c Category, yards, tds float64) {
	switch c {
	case CategoryRushing:
		s.RushingYards, s.RushingTDs = yards, tds
	case CategoryReceiving:
		s.ReceivingYards, s.ReceivingTDs = yards, tds
	case CategoryPassing:
		s.PassingYards, s.PassingTDs = yards, tds
	}
}

// Add accumulates yards and touchdowns into category c
func (s *StatLine) Add(c Category, yards, tds float64) {
	s.Set(c, s.Yards(c)+yards, s.TDs(c)+tds)
}

// Get returns the factor for category c
func (f AdjustmentFactors) Get(c Category) float64 {
	switch c {
	case CategoryRushing:
		return f.Rushing
	case CategoryReceiving:
		return f.Receiving
	case CategoryPassing:
		return f.Passing
	}
	return 0
}

// Set stores the factor for category c
func (f *AdjustmentFactors) Set(c Category, v float64) {
	switch c {
	case CategoryRushing:
		f.Rushing = v
	case CategoryReceiving:
		f.Receiving = v
	case CategoryPassing:
		f.Passing = v
	}
}
