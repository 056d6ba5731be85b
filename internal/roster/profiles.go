package roster

var profiles = [...]ClientProfile{
	{Name: "Maya Thompson", Diagnosis: "Autism spectrum disorder (level 1)", BaseSkill: 0.35, BaseBehavior: 8},
	{Name: "Ethan Lopez", Diagnosis: "ADHD, combined presentation", BaseSkill: 0.45, BaseBehavior: 6},
	{Name: "Zoe Patel", Diagnosis: "Expressive language delay", BaseSkill: 0.25, BaseBehavior: 10},
}

// Profiles returns a copy of the fixed demo profiles.
func Profiles() []ClientProfile {
	out := make([]ClientProfile, len(profiles))
	copy(out, profiles[:])
	return out
}
