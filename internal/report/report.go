package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/exercise-tracker/internal/repository"
	"github.com/Dan9191/exercise-tracker/internal/utils"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RecentDays is the number of calendar days, today included, counted as recent.
const RecentDays = 7

// Mailer delivers a finished report
type Mailer interface {
	Send(to, subject, body string) error
}

// Summary is a point-in-time overview of tracker activity
type Summary struct {
	GeneratedAt     time.Time
	Users           int
	Exercises       int
	TotalMinutes    int
	RecentExercises int
	RecentMinutes   int
	ActiveUsers     int // users with at least one recent exercise
}

// Reporter builds activity summaries and delivers them by email or to the log
type Reporter struct {
	repo      repository.Repository
	mailer    Mailer
	recipient string
	log       *logrus.Logger
	now       func() time.Time
}

// NewReporter creates a reporter. A nil mailer or empty recipient disables email.
func NewReporter(repo repository.Repository, mailer Mailer, recipient string, log *logrus.Logger) *Reporter {
	return &Reporter{repo: repo, mailer: mailer, recipient: recipient, log: log, now: time.Now}
}

// Build walks every user's log and aggregates it
func (r *Reporter) Build(ctx context.Context) (Summary, error) {
	now := r.now().UTC()
	summary := Summary{GeneratedAt: now}
	since := utils.TruncateDay(now).AddDate(0, 0, -(RecentDays - 1))

	users, err := r.repo.ListUsers(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list users: %w", err)
	}
	summary.Users = len(users)

	for _, user := range users {
		exercises, err := r.repo.ListExercisesByUser(ctx, user.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to list exercises for user %s: %w", user.ID, err)
		}
		active := false
		for _, ex := range exercises {
			summary.Exercises++
			summary.TotalMinutes += ex.Duration
			if utils.WithinDays(ex.Date, &since, &now) {
				summary.RecentExercises++
				summary.RecentMinutes += ex.Duration
				active = true
			}
		}
		if active {
			summary.ActiveUsers++
		}
	}
	return summary, nil
}

// Text renders the summary as a plain-text message body
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exercise tracker activity report for %s\n\n", utils.FormatDay(s.GeneratedAt))
	fmt.Fprintf(&b, "Users: %d (%d active in the last %d days)\n", s.Users, s.ActiveUsers, RecentDays)
	fmt.Fprintf(&b, "Exercises logged: %d, %d minutes in total\n", s.Exercises, s.TotalMinutes)
	fmt.Fprintf(&b, "Last %d days: %d exercises, %d minutes\n", RecentDays, s.RecentExercises, s.RecentMinutes)
	return b.String()
}

// Run builds one report and delivers it
func (r *Reporter) Run(ctx context.Context) error {
	summary, err := r.Build(ctx)
	if err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"users":            summary.Users,
		"active_users":     summary.ActiveUsers,
		"exercises":        summary.Exercises,
		"total_minutes":    summary.TotalMinutes,
		"recent_exercises": summary.RecentExercises,
		"recent_minutes":   summary.RecentMinutes,
	}).Info("Activity report built")

	if r.mailer == nil || r.recipient == "" {
		return nil
	}
	subject := "Exercise tracker report " + utils.FormatDay(summary.GeneratedAt)
	return r.mailer.Send(r.recipient, subject, summary.Text())
}

// Schedule registers the reporter on c using a standard cron spec
// (e.g. "0 7 * * 1" or "@daily"). Failures are logged, not retried.
func Schedule(c *cron.Cron, spec string, r *Reporter) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := r.Run(ctx); err != nil {
			r.log.Errorf("Scheduled activity report failed: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}
	return id, nil
}
