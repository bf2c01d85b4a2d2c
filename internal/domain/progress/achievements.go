package progress

// Achievement is a named milestone a student can unlock.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
}

// Achievement IDs.
const (
	AchievementFirstQuestion = "first_question"
	AchievementTenQuestions  = "ten_questions"
	AchievementPolymath      = "polymath"
)

// polymathConceptCount is the number of distinct concepts for the polymath
// achievement.
const polymathConceptCount = 4

// catalog defines all achievements and their unlock checks, in award order.
var catalog = []struct {
	Achievement
	unlocked func(p *StudentProgress) bool
}{
	{
		Achievement: Achievement{
			ID:          AchievementFirstQuestion,
			Name:        "First Question",
			Description: "Asked your first question",
			Icon:        "🎯",
			Points:      10,
		},
		unlocked: func(p *StudentProgress) bool { return p.QuestionsAsked >= 1 },
	},
	{
		Achievement: Achievement{
			ID:          AchievementTenQuestions,
			Name:        "10 Questions",
			Description: "Asked ten questions",
			Icon:        "🚀",
			Points:      50,
		},
		unlocked: func(p *StudentProgress) bool { return p.QuestionsAsked >= 10 },
	},
	{
		Achievement: Achievement{
			ID:          AchievementPolymath,
			Name:        "Polymath",
			Description: "Practiced four different concepts",
			Icon:        "🧠",
			Points:      200,
		},
		unlocked: func(p *StudentProgress) bool { return len(p.ConceptsPracticed) >= polymathConceptCount },
	},
}

// AchievementByID returns the achievement definition for an ID.
func AchievementByID(id string) (Achievement, bool) {
	for _, entry := range catalog {
		if entry.ID == id {
			return entry.Achievement, true
		}
	}
	return Achievement{}, false
}

// CheckAchievements evaluates all rules against the progress and appends any
// newly unlocked achievements to it. Unlocks are idempotent: an achievement
// already present is never awarded twice. Returns the new unlocks.
func CheckAchievements(p *StudentProgress) []Achievement {
	var unlocked []Achievement
	for _, entry := range catalog {
		if p.HasAchievement(entry.ID) {
			continue
		}
		if entry.unlocked(p) {
			p.Achievements = append(p.Achievements, entry.ID)
			unlocked = append(unlocked, entry.Achievement)
		}
	}
	return unlocked
}

// TotalPoints sums the points of a student's unlocked achievements.
func TotalPoints(p *StudentProgress) int {
	total := 0
	for _, id := range p.Achievements {
		if a, ok := AchievementByID(id); ok {
			total += a.Points
		}
	}
	return total
}
