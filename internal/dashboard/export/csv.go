// Package export writes rosters and client histories as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/brightsteps/brightsteps/internal/roster"
)

// DateLayout formats record dates in exports.
const DateLayout = "2006-01-02"

var clientHeader = []string{"Week", "Date", "Skill Mastery", "Behavior Frequency", "Parent Training Attended"}

// WriteClientCSV emits one client's weekly history as CSV.
func WriteClientCSV(w io.Writer, c roster.Client) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(clientHeader); err != nil {
		return err
	}
	for i, rec := range c.Records {
		if err := writer.Write(recordRow(i, rec)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRosterCSV emits every client's history as one CSV table keyed by client.
func WriteRosterCSV(w io.Writer, r roster.Roster) error {
	writer := csv.NewWriter(w)
	header := append([]string{"Client ID", "Client", "Diagnosis"}, clientHeader...)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, c := range r.Clients {
		prefix := []string{strconv.FormatInt(c.ID, 10), c.Name, c.Diagnosis}
		for i, rec := range c.Records {
			row := append(append([]string{}, prefix...), recordRow(i, rec)...)
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRosterJSON emits the roster as indented JSON.
func WriteRosterJSON(w io.Writer, r roster.Roster) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func recordRow(i int, rec roster.WeeklyRecord) []string {
	return []string{
		strconv.Itoa(i + 1),
		rec.Date.Format(DateLayout),
		formatFloat(rec.SkillMastery),
		formatFloat(rec.BehaviorFrequency),
		strconv.Itoa(rec.Attended()),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
