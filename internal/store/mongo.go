package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// maxAppendAttempts bounds the retries of an Append that lost a race for
// its ply.
const maxAppendAttempts = 5

// duplicateKeyCode is the server error code for a unique index violation.
const duplicateKeyCode = 11000

// MongoStore keeps one document per move record in a collection. A unique
// index on (game_id, ply) keeps plies distinct.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// OpenMongo connects to the configured server, checks it with a ping and
// makes sure the ply index exists.
func OpenMongo(ctx context.Context, cfg config.Mongo) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.Address)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", cfg.Address)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrapf(err, "pinging %s", cfg.Address)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)
	if _, err := collection.Indexes().CreateOne(ctx, plyIndex()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrapf(err, "creating ply index on %s", cfg.Collection)
	}

	return &MongoStore{
		client:     client,
		collection: collection,
		timeout:    cfg.Timeout,
	}, nil
}

func plyIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "game_id", Value: 1}, {Key: "ply", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("game_id_ply"),
	}
}

// isDuplicateKey reports whether err is a unique index violation.
func isDuplicateKey(err error) bool {
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == duplicateKeyCode {
				return true
			}
		}
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == duplicateKeyCode
	}
	return false
}

func gameFilter(gameID string) bson.D {
	return bson.D{{Key: "game_id", Value: gameID}}
}

func plyOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "ply", Value: 1}})
}

// Append implements HistoryRepository. The ply is the current record
// count plus one; when a concurrent append took that ply first the insert
// hits the unique index and is retried with a fresh count.
func (s *MongoStore) Append(ctx context.Context, gameID string, rec MoveRecord) (MoveRecord, error) {
	if err := ValidateGameID(gameID); err != nil {
		return MoveRecord{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var err error
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		var n int64
		n, err = s.collection.CountDocuments(ctx, gameFilter(gameID))
		if err != nil {
			return MoveRecord{}, errors.Wrapf(err, "counting moves of game %q", gameID)
		}
		next := prepare(gameID, int(n)+1, rec)

		if _, err = s.collection.InsertOne(ctx, next); err == nil {
			return next, nil
		}
		if !isDuplicateKey(err) {
			break
		}
	}
	return MoveRecord{}, errors.Wrapf(err, "appending to game %q", gameID)
}

// List implements HistoryRepository.
func (s *MongoStore) List(ctx context.Context, gameID string) ([]MoveRecord, error) {
	if err := ValidateGameID(gameID); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.collection.Find(ctx, gameFilter(gameID), plyOrder())
	if err != nil {
		return nil, errors.Wrapf(err, "listing game %q", gameID)
	}

	var records []MoveRecord
	if err = cur.All(ctx, &records); err != nil {
		return nil, errors.Wrapf(err, "decoding game %q", gameID)
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(errors.ErrGameNotFound, "%q", gameID)
	}
	return records, nil
}

// Pairs implements HistoryRepository.
func (s *MongoStore) Pairs(ctx context.Context, gameID string) ([]MovePair, error) {
	return pairsOf(ctx, s, gameID)
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
