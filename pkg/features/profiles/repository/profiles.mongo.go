package profilerepository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	profileservice "github.com/Gamequic/DigCardBackend/pkg/features/profiles/service"
	profilestruct "github.com/Gamequic/DigCardBackend/pkg/features/profiles/struct"
	"github.com/Gamequic/DigCardBackend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	profileKeyIndex = "profileKey_unique"

	prepareAttemptTimeout = 10 * time.Second
	maxPrepareDelay       = 30 * time.Second
)

// MongoStore keeps profiles as documents of a single collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger

	mu       sync.Mutex
	prepared bool
}

func NewMongoStore(client *mongo.Client, database, collection string, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger,
	}
}

// Prepare creates the profileKey index and backfills legacy keys. Once it
// has succeeded later calls return at once. Writes call it first: without the
// index a taken key would be stored twice.
func (s *MongoStore) Prepare(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared {
		return nil
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("create profile indexes: %w", err)
	}
	n, err := s.Backfill(ctx)
	if err != nil {
		return fmt.Errorf("backfill profile keys: %w", err)
	}
	if n > 0 {
		s.logger.Info("Backfilled profile keys", zap.Int("count", n))
	}

	s.prepared = true
	s.logger.Info("MongoDB connected, profiles collection ready")
	return nil
}

// PrepareWithRetry calls Prepare until it succeeds or ctx is done, doubling
// the wait between attempts up to maxPrepareDelay.
func (s *MongoStore) PrepareWithRetry(ctx context.Context, delay time.Duration) {
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, prepareAttemptTimeout)
		err := s.Prepare(attemptCtx)
		cancel()
		if err == nil {
			return
		}

		s.logger.Error("MongoDB connection error", zap.Error(err), zap.Duration("retryIn", delay))
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxPrepareDelay)
	}
}

// EnsureIndexes creates the unique profileKey index. Documents without a key
// are left out of it so legacy records do not collide.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "profileKey", Value: 1}},
		Options: options.Index().
			SetName(profileKeyIndex).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"profileKey": bson.M{"$exists": true}}),
	})
	return err
}

// Backfill stores a profileKey on documents written before keys existed.
// Keys that are already taken are logged and skipped.
func (s *MongoStore) Backfill(ctx context.Context) (int, error) {
	cursor, err := s.collection.Find(ctx,
		bson.M{"profileKey": bson.M{"$exists": false}},
		options.Find().SetProjection(bson.M{"name": 1}),
	)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	updated := 0
	for cursor.Next(ctx) {
		var doc struct {
			ID   primitive.ObjectID `bson:"_id"`
			Name string             `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return updated, err
		}
		if strings.TrimSpace(doc.Name) == "" {
			continue
		}

		key := utils.GenerateSlug(doc.Name)
		_, err := s.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{"profileKey": key}})
		if mongo.IsDuplicateKeyError(err) {
			s.logger.Warn("Skipping profile key backfill, key already taken",
				zap.String("id", doc.ID.Hex()), zap.String("profileKey", key))
			continue
		}
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, cursor.Err()
}

func (s *MongoStore) Insert(ctx context.Context, profile *profilestruct.Profile) error {
	if err := s.Prepare(ctx); err != nil {
		return err
	}

	res, err := s.collection.InsertOne(ctx, profile)
	if err != nil {
		return mongoWriteError(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		profile.ID = id
	}
	return nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]profilestruct.Profile, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	profiles := []profilestruct.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *MongoStore) FindByKey(ctx context.Context, profileKey string) (*profilestruct.Profile, error) {
	var profile profilestruct.Profile
	err := s.collection.FindOne(ctx, keyFilter(profileKey)).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, profileservice.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *MongoStore) ReplaceByKey(ctx context.Context, profileKey string, profile *profilestruct.Profile) (*profilestruct.Profile, error) {
	if err := s.Prepare(ctx); err != nil {
		return nil, err
	}

	// The replacement must not carry an _id of its own.
	replacement := *profile
	replacement.ID = primitive.NilObjectID

	var updated profilestruct.Profile
	err := s.collection.FindOneAndReplace(ctx, keyFilter(profileKey), replacement,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, profileservice.ErrNotFound
	}
	if err != nil {
		return nil, mongoWriteError(err)
	}
	return &updated, nil
}

func (s *MongoStore) DeleteByKey(ctx context.Context, profileKey string) error {
	res, err := s.collection.DeleteOne(ctx, keyFilter(profileKey))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return profileservice.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// keyFilter matches a stored profileKey, or, for legacy documents without
// one, a case-insensitive name the key could have been derived from.
func keyFilter(profileKey string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"profileKey": profileKey},
		bson.M{
			"profileKey": bson.M{"$exists": false},
			"name":       primitive.Regex{Pattern: utils.SlugPattern(profileKey), Options: "i"},
		},
	}}
}

func mongoWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: profile key already in use", profileservice.ErrRejected)
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		return fmt.Errorf("%w: %v", profileservice.ErrRejected, err)
	}
	return err
}
