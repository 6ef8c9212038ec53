package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Will-L07/scheduler/internal/models"
)

func ratedDated(id, topic string, c models.Confidence, completedAt *time.Time) models.Entry {
	e := models.NewDatedEntry(id, "2026-02-09", "AS FM", topic, "1h")
	d, _ := e.Dated()
	d.Confidence = c
	if completedAt != nil {
		d.Completed = true
		d.CompletedAt = completedAt
	}
	return e
}

func TestConfidenceAnalysis(t *testing.T) {
	at := time.Date(2026, 2, 9, 19, 0, 0, 0, time.UTC)
	weekly := models.NewRecurringEntry("w", time.Monday, "AS FM", "Matrices", "1h")
	r, _ := weekly.Recurring()
	r.ConfidenceByDate["2026-02-09"] = models.ConfidenceRed
	r.ConfidenceByDate["2026-02-16"] = models.ConfidenceGreen

	sch := models.Schedule{
		ID:   "rev",
		Name: "Revision",
		TopicGroups: map[string][]string{
			"CP1":      {"Complex numbers", "Matrices", "Untouched"},
			"D1":       {"Algorithms", "Graphs"},
			"Unrated":  {"Nothing"},
			"Mechanic": {"Momentum"},
		},
		Entries: []models.Entry{
			ratedDated("a", "Complex numbers", models.ConfidenceAmber, &at),
			weekly,
			ratedDated("b", "Algorithms", models.ConfidenceRed, nil),
			ratedDated("c", "Graphs", models.ConfidenceGreen, nil),
			ratedDated("d", "Momentum", models.ConfidenceRed, nil),
		},
	}

	got := ConfidenceAnalysis([]models.Schedule{sch})
	require.Len(t, got, 3, "unrated group is skipped")

	cp1 := got[0]
	assert.Equal(t, "CP1", cp1.Group)
	assert.Equal(t, 0, cp1.Red)
	assert.Equal(t, 1, cp1.Amber)
	assert.Equal(t, 1, cp1.Green)
	assert.Equal(t, FeedbackProgress, cp1.Feedback)
	assert.Equal(t, "2026-02-16", cp1.Topics[1].RatedOn, "newest recurring rating wins")
	assert.Equal(t, "2026-02-09", cp1.Topics[0].RatedOn)
	assert.Empty(t, cp1.Topics[2].Confidence)

	d1 := got[1]
	assert.Equal(t, "D1", d1.Group)
	assert.Equal(t, FeedbackNeedsWork, d1.Feedback, "50% red needs work")

	assert.Equal(t, "Mechanic", got[2].Group)
	assert.Equal(t, FeedbackNeedsWork, got[2].Feedback)
}

func TestConfidenceAnalysisAllGreen(t *testing.T) {
	sch := models.Schedule{
		TopicGroups: map[string][]string{"P": {"Waves"}},
		Entries:     []models.Entry{ratedDated("a", "Waves", models.ConfidenceGreen, nil)},
	}
	got := ConfidenceAnalysis([]models.Schedule{sch})
	require.Len(t, got, 1)
	assert.Equal(t, FeedbackStrong, got[0].Feedback)
}

func TestWeakAreas(t *testing.T) {
	today := day(t, "2026-03-01")
	recent := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	old := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

	weekly := models.NewRecurringEntry("w", time.Monday, "Physics", "Circuits", "1h")
	r, _ := weekly.Recurring()
	r.ConfidenceByDate["2026-02-09"] = models.ConfidenceGreen
	r.ConfidenceByDate["2026-02-23"] = models.ConfidenceAmber

	staleWeekly := models.NewRecurringEntry("s", time.Tuesday, "Physics", "Optics", "1h")
	sr, _ := staleWeekly.Recurring()
	sr.ConfidenceByDate["2026-01-06"] = models.ConfidenceRed

	sch := models.Schedule{
		ID:            "rev",
		Name:          "Revision",
		SubjectColors: map[string]string{"Physics": "#10B981"},
		Entries: []models.Entry{
			weekly,
			staleWeekly,
			ratedDated("recent-red", "Vectors", models.ConfidenceRed, &recent),
			ratedDated("old-red", "Matrices", models.ConfidenceRed, &old),
			ratedDated("not-done", "Roots", models.ConfidenceRed, nil),
			ratedDated("green", "Series", models.ConfidenceGreen, &recent),
		},
	}

	got := WeakAreas([]models.Schedule{sch}, today, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Circuits", got[0].Topic)
	assert.Equal(t, models.ConfidenceAmber, got[0].Confidence)
	assert.Equal(t, "#10B981", got[0].SubjectColor)
	assert.Equal(t, "Vectors", got[1].Topic)
	assert.Equal(t, "2026-02-25", got[1].RatedOn)

	wide := WeakAreas([]models.Schedule{sch}, today, 90)
	assert.Len(t, wide, 4)
}
