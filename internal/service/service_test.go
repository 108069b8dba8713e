package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/exercise-tracker/internal/models"
	"github.com/Dan9191/exercise-tracker/internal/repository"
	"github.com/sirupsen/logrus"
)

var fixedNow = time.Date(2023, 1, 15, 21, 45, 0, 0, time.UTC)

func newTestService(repo repository.Repository) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(repo, logger)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// failingRepository fails every storage call.
type failingRepository struct {
	repository.MemoryRepository
}

var errBoom = errors.New("disk on fire")

func (*failingRepository) CreateUser(context.Context, *models.User) error { return errBoom }
func (*failingRepository) ListUsers(context.Context) ([]models.User, error) {
	return nil, errBoom
}
func (*failingRepository) FindUserByID(context.Context, string) (*models.User, error) {
	return nil, errBoom
}
func (*failingRepository) Ping(context.Context) error { return errBoom }

func TestCreateUser(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "fcc_test")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if user.Username != "fcc_test" || user.ID == "" {
		t.Errorf("CreateUser() = %+v", user)
	}

	other, err := svc.CreateUser(ctx, "fcc_test")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if other.ID == user.ID {
		t.Errorf("CreateUser() reused id %s", user.ID)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("ListUsers() returned %d users, want 2", len(users))
	}
}

func TestCreateUserRequiresUsername(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)

	for _, name := range []string{"", "   "} {
		_, err := svc.CreateUser(context.Background(), name)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("CreateUser(%q) error = %v, want ErrValidation", name, err)
		}
	}
	users, _ := repo.ListUsers(context.Background())
	if len(users) != 0 {
		t.Errorf("invalid usernames created records: %+v", users)
	}
}

func TestAddExercise(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository())
	ctx := context.Background()
	user, _ := svc.CreateUser(ctx, "fcc_test")

	entry, err := svc.AddExercise(ctx, user.ID, ExerciseInput{Description: "test run", Duration: "30", Date: "2023-01-15"})
	if err != nil {
		t.Fatalf("AddExercise() error: %v", err)
	}
	want := models.ExerciseEntry{ID: user.ID, Username: "fcc_test", Description: "test run", Duration: 30, Date: "Sun Jan 15 2023"}
	if *entry != want {
		t.Errorf("AddExercise() = %+v, want %+v", *entry, want)
	}
}

func TestAddExerciseDefaultsDateToToday(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository())
	ctx := context.Background()
	user, _ := svc.CreateUser(ctx, "fcc_test")

	entry, err := svc.AddExercise(ctx, user.ID, ExerciseInput{Description: "swim", Duration: "45"})
	if err != nil {
		t.Fatalf("AddExercise() error: %v", err)
	}
	if entry.Date != "Sun Jan 15 2023" {
		t.Errorf("Date = %q, want today's day %q", entry.Date, "Sun Jan 15 2023")
	}
}

func TestAddExerciseValidation(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	user, _ := svc.CreateUser(ctx, "fcc_test")

	tests := []struct {
		name  string
		input ExerciseInput
		field string
	}{
		{"missing description", ExerciseInput{Duration: "30"}, "description"},
		{"blank description", ExerciseInput{Description: "  ", Duration: "30"}, "description"},
		{"missing duration", ExerciseInput{Description: "run"}, "duration"},
		{"fractional duration", ExerciseInput{Description: "run", Duration: "30.5"}, "duration"},
		{"text duration", ExerciseInput{Description: "run", Duration: "half an hour"}, "duration"},
		{"zero duration", ExerciseInput{Description: "run", Duration: "0"}, "duration"},
		{"bad date", ExerciseInput{Description: "run", Duration: "30", Date: "someday"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExercise(ctx, user.ID, tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("AddExercise() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	stored, _ := repo.ListExercisesByUser(ctx, user.ID)
	if len(stored) != 0 {
		t.Errorf("invalid input stored exercises: %+v", stored)
	}
}

func TestAddExerciseUnknownUser(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := newTestService(repo)

	_, err := svc.AddExercise(context.Background(), "nobody", ExerciseInput{Description: "run", Duration: "30"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("AddExercise() error = %v, want ErrNotFound", err)
	}
	stored, _ := repo.ListExercisesByUser(context.Background(), "nobody")
	if len(stored) != 0 {
		t.Errorf("exercise stored for unknown user: %+v", stored)
	}
}

func seedLog(t *testing.T, svc *Service, dates ...string) string {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), "logger")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	for i, d := range dates {
		in := ExerciseInput{Description: "session", Duration: "10", Date: d}
		if _, err := svc.AddExercise(context.Background(), user.ID, in); err != nil {
			t.Fatalf("AddExercise(%d) error: %v", i, err)
		}
	}
	return user.ID
}

func logDates(l *models.ExerciseLog) []string {
	dates := make([]string, 0, len(l.Log))
	for _, e := range l.Log {
		dates = append(dates, e.Date)
	}
	return dates
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryLog(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository())
	userID := seedLog(t, svc,
		"2023-01-20T08:00:00Z",
		"2023-01-09T23:59:00Z",
		"2023-01-10T18:30:00Z",
		"2023-01-15",
		"2023-01-21T00:00:00Z",
	)

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{"no filter keeps insertion order", LogFilter{},
			[]string{"Fri Jan 20 2023", "Mon Jan 09 2023", "Tue Jan 10 2023", "Sun Jan 15 2023", "Sat Jan 21 2023"}},
		{"inclusive range with timestamps on boundary days", LogFilter{From: "2023-01-10", To: "2023-01-20"},
			[]string{"Fri Jan 20 2023", "Tue Jan 10 2023", "Sun Jan 15 2023"}},
		{"from only", LogFilter{From: "2023-01-15"},
			[]string{"Fri Jan 20 2023", "Sun Jan 15 2023", "Sat Jan 21 2023"}},
		{"to only", LogFilter{To: "2023-01-10"},
			[]string{"Mon Jan 09 2023", "Tue Jan 10 2023"}},
		{"limit after filtering", LogFilter{From: "2023-01-10", Limit: "2"},
			[]string{"Fri Jan 20 2023", "Tue Jan 10 2023"}},
		{"limit larger than log", LogFilter{Limit: "50"},
			[]string{"Fri Jan 20 2023", "Mon Jan 09 2023", "Tue Jan 10 2023", "Sun Jan 15 2023", "Sat Jan 21 2023"}},
		{"zero limit means unlimited", LogFilter{To: "2023-01-09", Limit: "0"},
			[]string{"Mon Jan 09 2023"}},
		{"negative limit means unlimited", LogFilter{To: "2023-01-09", Limit: "-3"},
			[]string{"Mon Jan 09 2023"}},
		{"bounds in display form", LogFilter{From: "Sun Jan 15 2023", To: "Sun Jan 15 2023"},
			[]string{"Sun Jan 15 2023"}},
		{"empty range", LogFilter{From: "2024-01-01"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.QueryLog(context.Background(), userID, tt.filter)
			if err != nil {
				t.Fatalf("QueryLog() error: %v", err)
			}
			dates := logDates(got)
			if !equalStrings(dates, tt.want) {
				t.Errorf("QueryLog() dates = %v, want %v", dates, tt.want)
			}
			if got.Count != len(got.Log) {
				t.Errorf("Count = %d, len(Log) = %d", got.Count, len(got.Log))
			}
			if got.ID != userID || got.Username != "logger" {
				t.Errorf("QueryLog() user = %s/%s", got.ID, got.Username)
			}
			if got.Log == nil {
				t.Error("Log is nil, want empty slice")
			}
		})
	}
}

func TestQueryLogValidation(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository())
	userID := seedLog(t, svc, "2023-01-15")

	tests := []struct {
		name   string
		filter LogFilter
		field  string
	}{
		{"bad from", LogFilter{From: "last week"}, "from"},
		{"bad to", LogFilter{To: "2023-02-30"}, "to"},
		{"bad limit", LogFilter{Limit: "ten"}, "limit"},
		{"fractional limit", LogFilter{Limit: "2.5"}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.QueryLog(context.Background(), userID, tt.filter)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("QueryLog() error = %v, want validation error on %s", err, tt.field)
			}
		})
	}
}

func TestQueryLogUnknownUser(t *testing.T) {
	svc := newTestService(repository.NewMemoryRepository())
	_, err := svc.QueryLog(context.Background(), "nobody", LogFilter{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("QueryLog() error = %v, want ErrNotFound", err)
	}
}

func TestStorageErrors(t *testing.T) {
	svc := newTestService(&failingRepository{})
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "x"); !errors.Is(err, ErrStorage) || !errors.Is(err, errBoom) {
		t.Errorf("CreateUser() error = %v, want ErrStorage wrapping cause", err)
	}
	if _, err := svc.ListUsers(ctx); !errors.Is(err, ErrStorage) {
		t.Errorf("ListUsers() error = %v, want ErrStorage", err)
	}
	if _, err := svc.QueryLog(ctx, "id", LogFilter{}); !errors.Is(err, ErrStorage) {
		t.Errorf("QueryLog() error = %v, want ErrStorage", err)
	}
	if err := svc.Ping(ctx); !errors.Is(err, ErrStorage) {
		t.Errorf("Ping() error = %v, want ErrStorage", err)
	}
}
