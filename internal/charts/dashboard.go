package charts

import (
	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/roster"
)

// Stable chart ids used by the dashboard page.
const (
	IDSkillTrend     = "chart-skill-trend"
	IDBehavior       = "chart-behavior"
	IDSkillBehavior  = "chart-skill-behavior"
	IDParentTraining = "chart-parent-training"
	IDKPIRadar       = "chart-kpi-radar"
	IDSkillHeatmap   = "chart-skill-heatmap"
	IDLocations      = "chart-locations"
)

// Named pairs a spec with the chart id it renders into.
type Named struct {
	ID   string
	Spec Spec
}

// Clinics are the practice locations plotted on the map chart.
var Clinics = []Location{
	{Name: "Austin", Lng: -97.74, Lat: 30.27, Value: 42},
	{Name: "Denver", Lng: -104.99, Lat: 39.74, Value: 28},
	{Name: "Portland", Lng: -122.68, Lat: 45.52, Value: 19},
	{Name: "Raleigh", Lng: -78.64, Lat: 35.78, Value: 23},
}

// DashboardSpecs builds the chart set for a roster. Per-client charts are omitted when active is nil.
func DashboardSpecs(r roster.Roster, active *roster.Client, summaries map[int64]kpi.Summary) []Named {
	labels := r.WeekLabels()
	out := make([]Named, 0, 7)

	if active != nil && len(active.Records) > 0 {
		skill := make([]float64, 0, len(active.Records))
		behavior := make([]float64, 0, len(active.Records))
		attended := 0
		for _, rec := range active.Records {
			skill = append(skill, round1(rec.SkillMastery))
			behavior = append(behavior, round1(rec.BehaviorFrequency))
			attended += rec.Attended()
		}
		out = append(out,
			Named{ID: IDSkillTrend, Spec: Line{
				Title:  "Skill mastery: " + active.Name,
				Labels: labels,
				Series: []Series{{Name: "Skill mastery %", Values: skill}},
				YName:  "%",
				Smooth: true,
			}},
			Named{ID: IDBehavior, Spec: Bar{
				Title:  "Target behavior per week",
				Labels: labels,
				Series: []Series{{Name: "Occurrences", Values: behavior}},
				YName:  "count",
			}},
			Named{ID: IDParentTraining, Spec: Doughnut{
				Title: "Parent training sessions",
				Slices: []Slice{
					{Name: "Attended", Value: float64(attended)},
					{Name: "Missed", Value: float64(len(active.Records) - attended)},
				},
			}},
		)
	}

	groups := make([]ScatterGroup, 0, len(r.Clients))
	radar := make([]Series, 0, len(r.Clients))
	names := make([]string, 0, len(r.Clients))
	cells := make([]Cell, 0, len(r.Clients)*roster.Weeks)
	for y, c := range r.Clients {
		names = append(names, c.Name)
		points := make([]Point, 0, len(c.Records))
		for x, rec := range c.Records {
			points = append(points, Point{X: round1(rec.SkillMastery), Y: round1(rec.BehaviorFrequency)})
			cells = append(cells, Cell{X: x, Y: y, Value: round1(rec.SkillMastery)})
		}
		groups = append(groups, ScatterGroup{Name: c.Name, Points: points})
		if s, ok := summaries[c.ID]; ok {
			radar = append(radar, Series{Name: c.Name, Values: []float64{
				float64(s.MasteryPct),
				float64(s.BehaviorReductionPct),
				float64(s.ParentTrainingPct),
				skillGain(c),
			}})
		}
	}

	out = append(out,
		Named{ID: IDSkillBehavior, Spec: Scatter{
			Title:  "Skill mastery vs behavior",
			XName:  "Skill mastery %",
			YName:  "Behavior / week",
			Groups: groups,
		}},
		Named{ID: IDKPIRadar, Spec: Radar{
			Title: "Client outcomes",
			Indicators: []Indicator{
				{Name: "Mastery", Max: 100},
				{Name: "Behavior reduction", Max: 100},
				{Name: "Parent training", Max: 100},
				{Name: "Skill gain", Max: 70},
			},
			Series: radar,
		}},
		Named{ID: IDSkillHeatmap, Spec: Heatmap{
			Title:   "Weekly skill mastery",
			XLabels: labels,
			YLabels: names,
			Cells:   cells,
			Min:     0,
			Max:     100,
		}},
		Named{ID: IDLocations, Spec: Geo{
			Title:     "Our clinics",
			Map:       "world",
			Locations: Clinics,
		}},
	)
	return out
}

func skillGain(c roster.Client) float64 {
	first, ok := c.First()
	if !ok {
		return 0
	}
	last, _ := c.Last()
	gain := last.SkillMastery - first.SkillMastery
	if gain < 0 {
		return 0
	}
	return round1(gain)
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
