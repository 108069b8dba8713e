package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/exercise-tracker/internal/models"
	"github.com/Dan9191/exercise-tracker/internal/repository"
	"github.com/Dan9191/exercise-tracker/internal/utils"
	"github.com/sirupsen/logrus"
)

// ExerciseInput carries the raw, unvalidated fields of a new exercise
type ExerciseInput struct {
	Description string
	Duration    string
	Date        string // optional
}

// LogFilter carries the raw query parameters of a log request. All are optional.
type LogFilter struct {
	From  string
	To    string
	Limit string
}

// Service handles business logic
type Service struct {
	repo repository.Repository
	log  *logrus.Logger
	now  func() time.Time
}

// NewService initializes a new service
func NewService(repo repository.Repository, log *logrus.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// CreateUser stores a user with a fresh id
func (s *Service) CreateUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Reason: "is required"}
	}

	user := &models.User{Username: username}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, &StorageError{Op: "create user", Err: err}
	}

	s.log.Infof("User created: %s (%s)", user.Username, user.ID)
	return user, nil
}

// ListUsers returns every user
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list users", Err: err}
	}
	return users, nil
}

// GetUser looks up a single user
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, &StorageError{Op: "find user", Err: err}
	}
	return user, nil
}

// AddExercise validates the input and appends an exercise to the user's log
func (s *Service) AddExercise(ctx context.Context, userID string, in ExerciseInput) (*models.ExerciseEntry, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "is required"}
	}

	duration, err := parseDuration(in.Duration)
	if err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if strings.TrimSpace(in.Date) != "" {
		date, err = utils.ParseDate(in.Date)
		if err != nil {
			return nil, &ValidationError{Field: "date", Reason: "must be a date like 2006-01-02"}
		}
	}

	exercise := &models.Exercise{
		UserID:      user.ID,
		Description: description,
		Duration:    duration,
		Date:        date,
	}
	if err := s.repo.CreateExercise(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: userID}
		}
		return nil, &StorageError{Op: "create exercise", Err: err}
	}

	s.log.Infof("Exercise logged for user %s: %s, %d min", user.ID, exercise.Description, exercise.Duration)
	return &models.ExerciseEntry{
		ID:          user.ID,
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        utils.FormatDay(exercise.Date),
	}, nil
}

// QueryLog returns the user's exercises in insertion order, restricted to the
// inclusive day range [From, To] and truncated to Limit entries.
func (s *Service) QueryLog(ctx context.Context, userID string, filter LogFilter) (*models.ExerciseLog, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, err := parseBound("from", filter.From)
	if err != nil {
		return nil, err
	}
	to, err := parseBound("to", filter.To)
	if err != nil {
		return nil, err
	}
	limit, err := parseLimit(filter.Limit)
	if err != nil {
		return nil, err
	}

	exercises, err := s.repo.ListExercisesByUser(ctx, user.ID)
	if err != nil {
		return nil, &StorageError{Op: "list exercises", Err: err}
	}

	entries := []models.LogEntry{}
	for _, ex := range exercises {
		if limit > 0 && len(entries) == limit {
			break
		}
		if !utils.WithinDays(ex.Date, from, to) {
			continue
		}
		entries = append(entries, models.LogEntry{
			Description: ex.Description,
			Duration:    ex.Duration,
			Date:        utils.FormatDay(ex.Date),
		})
	}

	return &models.ExerciseLog{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(entries),
		Log:      entries,
	}, nil
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return &StorageError{Op: "ping store", Err: err}
	}
	return nil
}

// parseDuration accepts whole positive minutes only
func parseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "duration", Reason: "is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "duration", Reason: "must be a whole number of minutes"}
	}
	if n <= 0 {
		return 0, &ValidationError{Field: "duration", Reason: "must be positive"}
	}
	return n, nil
}

func parseBound(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be a date like 2006-01-02"}
	}
	return &t, nil
}

// parseLimit returns 0 for "no limit". Non-positive values also mean no limit.
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "limit", Reason: "must be an integer"}
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}
