package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

func TestRecordQuestion_AccumulatesProgress(t *testing.T) {
	p := NewStudentProgress("s1")
	now := time.Now()

	p.RecordQuestion(shared.ConceptCalculus, now)
	p.RecordQuestion(shared.ConceptCalculus, now.Add(time.Minute))
	p.RecordQuestion(shared.ConceptAlgebra, now.Add(2*time.Minute))

	assert.Equal(t, 3, p.QuestionsAsked)
	assert.Equal(t, []string{"algebra", "calculus"}, p.ConceptsPracticed)
	assert.Equal(t, 30.0, p.Score)
	assert.Equal(t, now.Add(2*time.Minute), p.LastInteraction)
}

func TestRecordQuestion_ScoreCapsAtHundred(t *testing.T) {
	p := NewStudentProgress("s1")
	for i := 0; i < 25; i++ {
		p.RecordQuestion(shared.ConceptPython, time.Now())
	}
	assert.Equal(t, MaxScore, p.Score)
}

func TestCheckAchievements_FirstQuestion(t *testing.T) {
	p := NewStudentProgress("s1")
	p.RecordQuestion(shared.ConceptAlgebra, time.Now())

	unlocked := CheckAchievements(p)
	require.Len(t, unlocked, 1)
	assert.Equal(t, AchievementFirstQuestion, unlocked[0].ID)
	assert.True(t, p.HasAchievement(AchievementFirstQuestion))
}

func TestCheckAchievements_Idempotent(t *testing.T) {
	p := NewStudentProgress("s1")
	p.RecordQuestion(shared.ConceptAlgebra, time.Now())

	first := CheckAchievements(p)
	require.NotEmpty(t, first)

	again := CheckAchievements(p)
	assert.Empty(t, again)
	assert.Len(t, p.Achievements, 1)
}

func TestCheckAchievements_TenQuestionsAndPolymath(t *testing.T) {
	p := NewStudentProgress("s1")
	concepts := []shared.ConceptType{
		shared.ConceptAlgebra,
		shared.ConceptCalculus,
		shared.ConceptPython,
		shared.ConceptStatistics,
	}
	for i := 0; i < 10; i++ {
		p.RecordQuestion(concepts[i%len(concepts)], time.Now())
	}

	unlocked := CheckAchievements(p)
	ids := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		ids = append(ids, a.ID)
	}
	assert.Contains(t, ids, AchievementFirstQuestion)
	assert.Contains(t, ids, AchievementTenQuestions)
	assert.Contains(t, ids, AchievementPolymath)
}

func TestCheckAchievements_PolymathNeedsFourConcepts(t *testing.T) {
	p := NewStudentProgress("s1")
	for i := 0; i < 20; i++ {
		p.RecordQuestion(shared.ConceptAlgebra, time.Now())
		p.RecordQuestion(shared.ConceptCalculus, time.Now())
		p.RecordQuestion(shared.ConceptGeometry, time.Now())
	}

	CheckAchievements(p)
	assert.False(t, p.HasAchievement(AchievementPolymath))
}

func TestTotalPoints(t *testing.T) {
	p := NewStudentProgress("s1")
	for i := 0; i < 10; i++ {
		p.RecordQuestion(shared.ConceptType(fmt.Sprintf("concept-%d", i)), time.Now())
	}
	CheckAchievements(p)

	// first_question (10) + ten_questions (50) + polymath (200)
	assert.Equal(t, 260, TotalPoints(p))
}
