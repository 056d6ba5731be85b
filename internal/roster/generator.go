package roster

import (
	"math"
	"math/rand/v2"
	"time"
)

// Generator tuning.
const (
	// Weeks is the number of weekly records per client.
	Weeks = 13
	// BaseID is the identifier assigned to the first generated client.
	BaseID int64 = 1001
	// LabelLayout formats record dates on chart axes.
	LabelLayout = "Jan 02"

	skillGain          = 60.0
	skillNoise         = 5.0
	behaviorDecay      = 0.75
	behaviorNoise      = 1.0
	attendProbability  = 0.7
	maxSkillMastery    = 100.0
	minBehaviorPerWeek = 0.0
)

// Rand is the random source used by the generator. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a fresh, randomly seeded source.
func NewRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand returns a deterministic source for reproducible output.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds one client per profile, each with Weeks chronological records ending at today.
func Generate(today time.Time, profiles []ClientProfile, rng Rand) []Client {
	clients := make([]Client, 0, len(profiles))
	for i, p := range profiles {
		records := make([]WeeklyRecord, 0, Weeks)
		for w := Weeks - 1; w >= 0; w-- {
			progress := float64(Weeks-1-w) / float64(Weeks-1)
			skill := p.BaseSkill*100 + progress*skillGain + uniform(rng, -skillNoise, skillNoise)
			behavior := p.BaseBehavior*(1-progress*behaviorDecay) + uniform(rng, -behaviorNoise, behaviorNoise)
			records = append(records, WeeklyRecord{
				Date:                   today.AddDate(0, 0, -7*w),
				SkillMastery:           math.Min(maxSkillMastery, skill),
				BehaviorFrequency:      math.Max(minBehaviorPerWeek, behavior),
				ParentTrainingAttended: rng.Float64() < attendProbability,
			})
		}
		clients = append(clients, Client{
			ID:        BaseID + int64(i),
			Name:      p.Name,
			Diagnosis: p.Diagnosis,
			Records:   records,
		})
	}
	return clients
}

// New generates the fixed roster anchored at today.
func New(today time.Time, rng Rand) Roster {
	if rng == nil {
		rng = NewRand()
	}
	return Roster{GeneratedAt: today, Clients: Generate(today, Profiles(), rng)}
}

// uniform draws from [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
