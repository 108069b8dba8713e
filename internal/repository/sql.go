package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/exercise-tracker/internal/models"
	"github.com/google/uuid"
)

// Dialect selects the SQL flavour spoken by SQLRepository.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// Dates are stored as unix milliseconds so both dialects share one encoding.
var schemas = map[Dialect][]string{
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL REFERENCES users(id),
			description TEXT NOT NULL,
			duration INTEGER NOT NULL,
			date_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_user ON exercises (user_id, seq)`,
	},
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS users (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exercises (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL REFERENCES users(id),
			description TEXT NOT NULL,
			duration INTEGER NOT NULL,
			date_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_user ON exercises (user_id, seq)`,
	},
}

// SQLRepository provides database operations over database/sql
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLRepository initializes a new repository
func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders into $n for postgres.
func (r *SQLRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Migrate creates the tables if they do not exist
func (r *SQLRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schemas[r.dialect] {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// CreateUser creates a new user in the database
func (r *SQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = uuid.NewString()
	query := r.rebind(`INSERT INTO users (id, username) VALUES (?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Username); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByID retrieves a user by id
func (r *SQLRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	query := r.rebind(`SELECT id, username FROM users WHERE id = ?`)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users in insertion order
func (r *SQLRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// CreateExercise stores a new exercise for an existing user
func (r *SQLRepository) CreateExercise(ctx context.Context, exercise *models.Exercise) error {
	exercise.ID = uuid.NewString()
	query := r.rebind(`
		INSERT INTO exercises (id, user_id, description, duration, date_ms)
		VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		exercise.ID, exercise.UserID, exercise.Description, exercise.Duration, exercise.Date.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

// ListExercisesByUser returns a user's exercises in insertion order
func (r *SQLRepository) ListExercisesByUser(ctx context.Context, userID string) ([]models.Exercise, error) {
	query := r.rebind(`
		SELECT id, user_id, description, duration, date_ms
		FROM exercises
		WHERE user_id = ?
		ORDER BY seq`)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercises: %w", err)
	}
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		var ex models.Exercise
		var dateMS int64
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Description, &ex.Duration, &dateMS); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		ex.Date = time.UnixMilli(dateMS).UTC()
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exercises: %w", err)
	}
	return exercises, nil
}

// Ping checks the database connection
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database
func (r *SQLRepository) Close() error {
	return r.db.Close()
}
