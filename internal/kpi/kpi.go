// Package kpi derives the headline numbers shown on a client's dashboard cards.
package kpi

import (
	"errors"
	"fmt"
	"math"

	"github.com/brightsteps/brightsteps/internal/roster"
)

// ErrNoRecords is returned when a client has no weekly records to summarise.
var ErrNoRecords = errors.New("kpi: no records")

const (
	forecastMinWeeks = 2.0
	forecastMaxWeeks = 5.0
)

// Summary contains the four dashboard KPIs for one client.
type Summary struct {
	MasteryPct           int `json:"mastery_pct"`
	BehaviorReductionPct int `json:"behavior_reduction_pct"`
	ParentTrainingPct    int `json:"parent_training_pct"`
	ForecastWeeks        int `json:"forecast_weeks"`
}

// Compute summarises an ordered record sequence. Forecast is a random placeholder drawn from rng.
func Compute(records []roster.WeeklyRecord, rng roster.Rand) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecords
	}
	if rng == nil {
		rng = roster.NewRand()
	}
	first := records[0]
	last := records[len(records)-1]
	return Summary{
		MasteryPct:           Mastery(last),
		BehaviorReductionPct: BehaviorReduction(first, last),
		ParentTrainingPct:    ParentTraining(records),
		ForecastWeeks:        Forecast(rng),
	}, nil
}

// Mastery is the latest skill mastery rounded to the nearest integer.
func Mastery(last roster.WeeklyRecord) int {
	return round(last.SkillMastery)
}

// BehaviorReduction is the percent drop in behavior frequency from first to last record.
// A zero baseline counts as a full reduction.
func BehaviorReduction(first, last roster.WeeklyRecord) int {
	if first.BehaviorFrequency <= 0 {
		return 100
	}
	drop := (first.BehaviorFrequency - last.BehaviorFrequency) / first.BehaviorFrequency * 100
	return round(math.Max(0, drop))
}

// ParentTraining is the share of weeks with parent training attended.
func ParentTraining(records []roster.WeeklyRecord) int {
	if len(records) == 0 {
		return 0
	}
	attended := 0
	for _, r := range records {
		attended += r.Attended()
	}
	return round(float64(attended) / float64(len(records)) * 100)
}

// Forecast draws a placeholder "weeks to next milestone" value in [2, 5].
func Forecast(rng roster.Rand) int {
	return round(forecastMinWeeks + (forecastMaxWeeks-forecastMinWeeks)*rng.Float64())
}

// Mastery renders the mastery KPI, e.g. "73%".
func (s Summary) Mastery() string { return percent(s.MasteryPct) }

// BehaviorReduction renders the reduction KPI.
func (s Summary) BehaviorReduction() string { return percent(s.BehaviorReductionPct) }

// ParentTraining renders the parent training rate.
func (s Summary) ParentTraining() string { return percent(s.ParentTrainingPct) }

// Forecast renders the forecast as "~{n}w".
func (s Summary) Forecast() string { return fmt.Sprintf("~%dw", s.ForecastWeeks) }

func percent(v int) string {
	return fmt.Sprintf("%d%%", v)
}

// round matches half-up rounding for the non-negative values used here.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
