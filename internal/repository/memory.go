package repository

import (
	"context"
	"sync"

	"github.com/Dan9191/exercise-tracker/internal/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps everything in process memory. Data is lost on exit.
type MemoryRepository struct {
	mu        sync.RWMutex
	users     []models.User
	userIndex map[string]int
	exercises map[string][]models.Exercise
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		userIndex: make(map[string]int),
		exercises: make(map[string][]models.Exercise),
	}
}

func (r *MemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.NewString()
	r.userIndex[user.ID] = len(r.users)
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryRepository) FindUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.userIndex[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.users[idx]
	return &user, nil
}

func (r *MemoryRepository) ListUsers(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

// CreateExercise appends to the user's log. The user must exist.
func (r *MemoryRepository) CreateExercise(_ context.Context, exercise *models.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.userIndex[exercise.UserID]; !ok {
		return ErrNotFound
	}
	exercise.ID = uuid.NewString()
	r.exercises[exercise.UserID] = append(r.exercises[exercise.UserID], *exercise)
	return nil
}

func (r *MemoryRepository) ListExercisesByUser(_ context.Context, userID string) ([]models.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.exercises[userID]
	exercises := make([]models.Exercise, len(stored))
	copy(exercises, stored)
	return exercises, nil
}

func (r *MemoryRepository) Migrate(context.Context) error { return nil }

func (r *MemoryRepository) Ping(context.Context) error { return nil }

func (r *MemoryRepository) Close() error { return nil }
