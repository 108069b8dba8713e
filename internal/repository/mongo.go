package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/exercise-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
}

type exerciseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
}

// MongoRepository stores users and exercises in two collections. Record IDs
// are ObjectIDs, whose ordering follows insertion order.
type MongoRepository struct {
	client    *mongo.Client
	users     *mongo.Collection
	exercises *mongo.Collection
}

// NewMongoRepository initializes a repository over an already connected client
func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	db := client.Database(database)
	return &MongoRepository{
		client:    client,
		users:     db.Collection("users"),
		exercises: db.Collection("exercises"),
	}
}

var byInsertion = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

// Migrate creates the per-user exercise index
func (r *MongoRepository) Migrate(ctx context.Context) error {
	_, err := r.exercises.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create exercise index: %w", err)
	}
	return nil
}

// CreateUser creates a new user document
func (r *MongoRepository) CreateUser(ctx context.Context, user *models.User) error {
	doc := userDocument{ID: primitive.NewObjectID(), Username: user.Username}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

// FindUserByID retrieves a user by its hex ObjectID
func (r *MongoRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc userDocument
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &models.User{ID: doc.ID.Hex(), Username: doc.Username}, nil
}

// ListUsers returns all users in insertion order
func (r *MongoRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{}, byInsertion)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.User{ID: doc.ID.Hex(), Username: doc.Username})
	}
	return users, nil
}

// CreateExercise stores a new exercise document
func (r *MongoRepository) CreateExercise(ctx context.Context, exercise *models.Exercise) error {
	doc := exerciseDocument{
		ID:          primitive.NewObjectID(),
		UserID:      exercise.UserID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date.UTC(),
	}
	if _, err := r.exercises.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	exercise.ID = doc.ID.Hex()
	return nil
}

// ListExercisesByUser returns a user's exercises in insertion order
func (r *MongoRepository) ListExercisesByUser(ctx context.Context, userID string) ([]models.Exercise, error) {
	cursor, err := r.exercises.Find(ctx, bson.M{"userId": userID}, byInsertion)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercises: %w", err)
	}

	var docs []exerciseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}

	exercises := make([]models.Exercise, 0, len(docs))
	for _, doc := range docs {
		exercises = append(exercises, models.Exercise{
			ID:          doc.ID.Hex(),
			UserID:      doc.UserID,
			Description: doc.Description,
			Duration:    doc.Duration,
			Date:        doc.Date.UTC(),
		})
	}
	return exercises, nil
}

// Ping checks the primary is reachable
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
