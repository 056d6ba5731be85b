package roster

import "time"

// ClientProfile seeds one synthetic client.
type ClientProfile struct {
	Name         string
	Diagnosis    string
	BaseSkill    float64
	BaseBehavior float64
}

// WeeklyRecord is one week of tracked metrics for a client.
type WeeklyRecord struct {
	Date                   time.Time `json:"date"`
	SkillMastery           float64   `json:"skill_mastery"`
	BehaviorFrequency      float64   `json:"behavior_frequency"`
	ParentTrainingAttended bool      `json:"parent_training_attended"`
}

// Attended returns the parent training flag encoded as 0 or 1.
func (r WeeklyRecord) Attended() int {
	if r.ParentTrainingAttended {
		return 1
	}
	return 0
}

// Client is a synthetic client with its chronological weekly history.
type Client struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Diagnosis string         `json:"diagnosis"`
	Records   []WeeklyRecord `json:"records"`
}

// First returns the oldest record.
func (c Client) First() (WeeklyRecord, bool) {
	if len(c.Records) == 0 {
		return WeeklyRecord{}, false
	}
	return c.Records[0], true
}

// Last returns the newest record.
func (c Client) Last() (WeeklyRecord, bool) {
	if len(c.Records) == 0 {
		return WeeklyRecord{}, false
	}
	return c.Records[len(c.Records)-1], true
}

// Roster is the ordered set of generated clients.
type Roster struct {
	GeneratedAt time.Time `json:"generated_at"`
	Clients     []Client  `json:"clients"`
}

// Find looks a client up by identifier.
func (r Roster) Find(id int64) (Client, bool) {
	for _, c := range r.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// WeekLabels returns the record dates of the first client formatted for chart axes.
// Every client shares the same dates.
func (r Roster) WeekLabels() []string {
	if len(r.Clients) == 0 {
		return nil
	}
	labels := make([]string, 0, len(r.Clients[0].Records))
	for _, rec := range r.Clients[0].Records {
		labels = append(labels, rec.Date.Format(LabelLayout))
	}
	return labels
}
