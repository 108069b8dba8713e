package repository

import (
	"context"
	"errors"

	"github.com/Dan9191/exercise-tracker/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository provides persistence for users and their exercises.
//
// Create methods assign the record ID. ListUsers and ListExercisesByUser
// return records in insertion order.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateExercise(ctx context.Context, exercise *models.Exercise) error
	ListExercisesByUser(ctx context.Context, userID string) ([]models.Exercise, error)

	// Migrate prepares the schema (tables, indexes). It is safe to call repeatedly.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
