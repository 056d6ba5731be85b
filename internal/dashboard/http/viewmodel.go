package dashboardhttp

import (
	"html/template"

	"github.com/brightsteps/brightsteps/internal/articles"
	"github.com/brightsteps/brightsteps/internal/charts"
	"github.com/brightsteps/brightsteps/internal/charts/svg"
	"github.com/brightsteps/brightsteps/internal/contact"
	"github.com/brightsteps/brightsteps/internal/dashboard"
	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/roster"
)

const (
	sparkWidth   = 240
	sparkHeight  = 90
	sparkPadding = 16
)

type pageView struct {
	Clients  []clientCard
	Active   *clientCard
	Charts   []*charts.Handle
	Articles []articles.Article
	Featured *articleView
	Contact  contact.FormView
}

type clientCard struct {
	ID        int64
	Name      string
	Diagnosis string
	Active    bool
	HasKPI    bool
	KPI       kpi.Summary
	Latest    roster.WeeklyRecord
	Sparkline template.HTML
	// Progress is the no-script rendering of the active client's weekly history.
	Progress template.HTML
}

type articleView struct {
	Article articles.Article
	Chart   template.HTML
}

func clientCards(state *dashboard.State, summaries map[int64]kpi.Summary, colors svg.Colors) ([]clientCard, error) {
	labels := state.Roster.WeekLabels()
	cards := make([]clientCard, 0, len(state.Roster.Clients))
	for _, c := range state.Roster.Clients {
		card := clientCard{
			ID:        c.ID,
			Name:      c.Name,
			Diagnosis: c.Diagnosis,
			Active:    c.ID == state.ActiveID(),
		}
		card.KPI, card.HasKPI = summaries[c.ID]
		card.Latest, _ = c.Last()
		if len(c.Records) == 0 || len(c.Records) != len(labels) {
			cards = append(cards, card)
			continue
		}
		skill, behavior := series(c)
		spark, err := svg.Line(sparkWidth, sparkHeight, skill, labels, svg.LineOpts{
			Title:     c.Name + " skill mastery",
			Colors:    colors,
			Padding:   sparkPadding,
			TickCount: 2,
		})
		if err != nil {
			return nil, err
		}
		card.Sparkline = spark
		if card.Active {
			progress, err := svg.Bars(svg.DefaultWidth, svg.DefaultHeight, [][]float64{skill, behavior}, labels, svg.BarOpts{
				Title:        c.Name + " weekly progress",
				Description:  "Skill mastery and target behavior per week",
				SeriesLabels: []string{"Skill mastery %", "Behavior / week"},
				Colors:       colors,
			})
			if err != nil {
				return nil, err
			}
			card.Progress = progress
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func series(c roster.Client) (skill, behavior []float64) {
	skill = make([]float64, 0, len(c.Records))
	behavior = make([]float64, 0, len(c.Records))
	for _, rec := range c.Records {
		skill = append(skill, rec.SkillMastery)
		behavior = append(behavior, rec.BehaviorFrequency)
	}
	return skill, behavior
}
