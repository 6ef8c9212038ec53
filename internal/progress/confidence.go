package progress

import (
	"sort"
	"time"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/utils"
)

const (
	FeedbackNeedsWork = "Needs significant work: revisit core concepts and practice questions."
	FeedbackProgress  = "Making progress: focus more practice on the amber and red topics."
	FeedbackStrong    = "Strong understanding: keep refreshing to maintain confidence."
)

type TopicRating struct {
	Topic      string            `json:"topic"`
	Confidence models.Confidence `json:"confidence,omitempty"`
	RatedOn    string            `json:"ratedOn,omitempty"`
}

type GroupAnalysis struct {
	Group        string        `json:"group"`
	ScheduleID   string        `json:"scheduleId"`
	ScheduleName string        `json:"scheduleName"`
	Red          int           `json:"red"`
	Amber        int           `json:"amber"`
	Green        int           `json:"green"`
	Feedback     string        `json:"feedback"`
	Topics       []TopicRating `json:"topics"`
}

// latestRating returns the newest rating for an entry. Recurring entries use
// their most recent dated rating; dated entries are rated on their completion day.
func latestRating(e models.Entry) (models.Confidence, string) {
	switch occ := e.Occurrence.(type) {
	case *models.RecurringOccurrence:
		var newest string
		for d := range occ.ConfidenceByDate {
			if occ.ConfidenceByDate[d] != models.ConfidenceNone && d > newest {
				newest = d
			}
		}
		if newest == "" {
			return models.ConfidenceNone, ""
		}
		return occ.ConfidenceByDate[newest], newest
	case *models.DatedOccurrence:
		var ratedOn string
		if occ.CompletedAt != nil {
			ratedOn = utils.FormatDate(*occ.CompletedAt)
		}
		return occ.Confidence, ratedOn
	}
	return models.ConfidenceNone, ""
}

func feedbackFor(red, amber, rated int) string {
	redPct := (red*100 + rated/2) / rated
	switch {
	case redPct >= 50:
		return FeedbackNeedsWork
	case red > 0 || amber > 0:
		return FeedbackProgress
	default:
		return FeedbackStrong
	}
}

// ConfidenceAnalysis summarises ratings per topic group for every schedule
// that declares topic groups. Groups with no ratings yet are omitted.
func ConfidenceAnalysis(schedules []models.Schedule) []GroupAnalysis {
	var out []GroupAnalysis
	for _, sch := range schedules {
		groups := make([]string, 0, len(sch.TopicGroups))
		for g := range sch.TopicGroups {
			groups = append(groups, g)
		}
		sort.Strings(groups)

		for _, g := range groups {
			ga := GroupAnalysis{Group: g, ScheduleID: sch.ID, ScheduleName: sch.Name}
			for _, topic := range sch.TopicGroups[g] {
				row := TopicRating{Topic: topic}
				for _, e := range sch.Entries {
					if e.Topic == topic {
						row.Confidence, row.RatedOn = latestRating(e)
						break
					}
				}
				switch row.Confidence {
				case models.ConfidenceRed:
					ga.Red++
				case models.ConfidenceAmber:
					ga.Amber++
				case models.ConfidenceGreen:
					ga.Green++
				}
				ga.Topics = append(ga.Topics, row)
			}

			rated := ga.Red + ga.Amber + ga.Green
			if rated == 0 {
				continue
			}
			ga.Feedback = feedbackFor(ga.Red, ga.Amber, rated)
			out = append(out, ga)
		}
	}
	return out
}

type WeakArea struct {
	Topic        string            `json:"topic"`
	Subject      string            `json:"subject"`
	Confidence   models.Confidence `json:"confidence"`
	RatedOn      string            `json:"ratedOn"`
	ScheduleID   string            `json:"scheduleId"`
	ScheduleName string            `json:"scheduleName"`
	SubjectColor string            `json:"subjectColor,omitempty"`
}

// WeakAreas lists entries whose latest rating within the last withinDays
// days is red or amber. Dated entries only count once completed.
// A non-positive window uses the default.
func WeakAreas(schedules []models.Schedule, today time.Time, withinDays int) []WeakArea {
	if withinDays <= 0 {
		withinDays = constants.WeakAreaWindowDays
	}
	cutoff := utils.FormatDate(utils.DateOf(today).AddDate(0, 0, -withinDays))

	var out []WeakArea
	for _, sch := range schedules {
		for _, e := range sch.Entries {
			var c models.Confidence
			var ratedOn string
			switch occ := e.Occurrence.(type) {
			case *models.RecurringOccurrence:
				for d, v := range occ.ConfidenceByDate {
					if d >= cutoff && d > ratedOn && v != models.ConfidenceNone {
						ratedOn, c = d, v
					}
				}
			case *models.DatedOccurrence:
				if occ.Completed && occ.Confidence != models.ConfidenceNone && occ.CompletedAt != nil {
					c = occ.Confidence
					ratedOn = utils.FormatDate(*occ.CompletedAt)
				}
			}

			if (c != models.ConfidenceRed && c != models.ConfidenceAmber) || ratedOn < cutoff {
				continue
			}
			out = append(out, WeakArea{
				Topic:        e.Topic,
				Subject:      e.Subject,
				Confidence:   c,
				RatedOn:      ratedOn,
				ScheduleID:   sch.ID,
				ScheduleName: sch.Name,
				SubjectColor: sch.SubjectColors[e.Subject],
			})
		}
	}
	return out
}
