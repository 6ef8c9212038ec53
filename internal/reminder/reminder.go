// Package reminder decides which reminders are due and delivers each one
// at most once per day.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/metrics"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/notifier"
	"github.com/Will-L07/scheduler/internal/resolver"
	"github.com/Will-L07/scheduler/internal/storage"
	"github.com/Will-L07/scheduler/internal/utils"
)

type Kind string

const (
	KindExamTomorrow Kind = "exam-tomorrow"
	KindExamToday    Kind = "exam-today"
	KindMorning      Kind = "morning"
	KindEvening      Kind = "evening"
)

type Reminder struct {
	// Key identifies the reminder within its day.
	Key   string
	Kind  Kind
	Title string
	Body  string
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Due lists the reminders that apply at now, given today's tasks and all
// exams. It does not know what has already been sent.
func Due(now time.Time, tasks []models.Task, exams []models.ExamRef) []Reminder {
	today := utils.DateOf(now)
	date := utils.FormatDate(today)

	var out []Reminder
	for _, ex := range exams {
		days, err := utils.DaysUntil(ex.Date, today)
		if err != nil {
			continue
		}
		switch days {
		case 1:
			out = append(out, Reminder{
				Key:   "exam-" + ex.Date + "-" + ex.Name,
				Kind:  KindExamTomorrow,
				Title: "Exam Tomorrow: " + ex.Name,
				Body:  ex.Session + " session. Good luck!",
			})
		case 0:
			out = append(out, Reminder{
				Key:   "exam-today-" + ex.Date + "-" + ex.Name,
				Kind:  KindExamToday,
				Title: "EXAM TODAY: " + ex.Name,
				Body:  ex.Session + " session. You've got this!",
			})
		}
	}

	incomplete := 0
	for _, t := range tasks {
		if !t.Completed {
			incomplete++
		}
	}

	hour := now.Hour()
	if hour >= constants.MorningReminderHour && hour < constants.MorningReminderHour+1 && len(tasks) > 0 {
		out = append(out, Reminder{
			Key:   "morning-" + date,
			Kind:  KindMorning,
			Title: "Good morning!",
			Body:  fmt.Sprintf("You have %s scheduled today.", plural(incomplete, "task")),
		})
	}
	if hour >= constants.EveningReminderHour && hour < constants.EveningReminderHour+1 && incomplete > 0 {
		out = append(out, Reminder{
			Key:   "evening-" + date,
			Kind:  KindEvening,
			Title: "Evening check-in",
			Body:  fmt.Sprintf("%s still to complete today.", plural(incomplete, "task")),
		})
	}
	return out
}

// ledger is the persisted set of reminder keys already sent on Date.
type ledger struct {
	Date string   `json:"date"`
	Keys []string `json:"keys"`
}

func (l *ledger) has(key string) bool {
	for _, k := range l.Keys {
		if k == key {
			return true
		}
	}
	return false
}

type Runner struct {
	store    *datastore.Store
	notifier notifier.Notifier
	now      func() time.Time
}

func NewRunner(store *datastore.Store, n notifier.Notifier, now func() time.Time) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{store: store, notifier: n, now: now}
}

func (r *Runner) load(date string) ledger {
	l := ledger{Date: date}
	data, err := r.store.Provider().Get(constants.KeyNotified)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read reminder ledger", "error", err)
		}
		return l
	}
	var stored ledger
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("Discarding unreadable reminder ledger", "error", err)
		return l
	}
	// keys from an earlier day no longer apply
	if stored.Date == date {
		return stored
	}
	return l
}

func (r *Runner) save(l ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	if err := r.store.Provider().Set(constants.KeyNotified, data); err != nil {
		return fmt.Errorf("failed to persist reminder ledger: %w", err)
	}
	return nil
}

// Check delivers every due reminder not yet sent today. Reminders are
// skipped entirely unless notifications are enabled or force is set.
func (r *Runner) Check(ctx context.Context, force bool) ([]Reminder, error) {
	if !force && !r.store.Settings().NotificationsEnabled {
		return nil, nil
	}

	now := r.now()
	today := utils.DateOf(now)
	l := r.load(utils.FormatDate(today))

	due := Due(now, resolver.TasksForDate(r.store.Schedules(), today), r.store.Exams())

	var sent []Reminder
	var errs []error
	for _, rem := range due {
		if l.has(rem.Key) {
			continue
		}
		if err := r.notifier.Notify(ctx, rem.Title, rem.Body); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rem.Key, err))
			continue
		}
		l.Keys = append(l.Keys, rem.Key)
		sent = append(sent, rem)
		metrics.RecordReminder(string(rem.Kind))
		logger.Info("Reminder sent", "kind", rem.Kind, "title", rem.Title)
	}

	if len(sent) > 0 {
		if err := r.save(l); err != nil {
			errs = append(errs, err)
		}
	}
	return sent, errors.Join(errs...)
}

// Watch runs Check every interval until ctx is done. Storage is re-read
// before each check so edits made by other processes are seen.
func (r *Runner) Watch(ctx context.Context, interval time.Duration, force bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logger.With("component", "reminder", "interval", interval)
	log.Info("Watching for due reminders")
	for {
		if _, err := r.store.Reload(); err != nil {
			log.Warn("Failed to reload storage", "error", err)
		}
		if _, err := r.Check(ctx, force); err != nil {
			log.Error("Reminder check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
