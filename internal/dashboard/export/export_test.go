package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps/internal/roster"
)

func sampleRoster() roster.Roster {
	return roster.New(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), roster.NewSeededRand(11))
}

func TestWriteClientCSV(t *testing.T) {
	c := roster.Client{ID: 1001, Name: "Maya", Records: []roster.WeeklyRecord{
		{Date: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), SkillMastery: 41.25, BehaviorFrequency: 7.5, ParentTrainingAttended: true},
		{Date: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), SkillMastery: 44, BehaviorFrequency: 0},
	}}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteClientCSV(buf, c))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, clientHeader, records[0])
	assert.Equal(t, []string{"1", "2025-01-06", "41.25", "7.50", "1"}, records[1])
	assert.Equal(t, []string{"2", "2025-01-13", "44.00", "0.00", "0"}, records[2])
}

func TestWriteRosterCSV(t *testing.T) {
	r := sampleRoster()
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRosterCSV(buf, r))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(r.Clients)*roster.Weeks)
	assert.Equal(t, "Client ID", records[0][0])
	assert.Equal(t, "1001", records[1][0])
	assert.Equal(t, r.Clients[2].Name, records[len(records)-1][1])
	assert.Equal(t, "2025-03-03", records[len(records)-1][4])
}

func TestWriteRosterJSON(t *testing.T) {
	r := sampleRoster()
	buf := &bytes.Buffer{}
	require.NoError(t, WriteRosterJSON(buf, r))

	var decoded roster.Roster
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Clients, 3)
	assert.Equal(t, r.Clients[0].Records[5].SkillMastery, decoded.Clients[0].Records[5].SkillMastery)
}
