package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/labyrinth-duel/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MatchRepo archives finished games in MongoDB.
type MatchRepo struct {
	collection *mongo.Collection
}

// NewMatchRepo creates a new MatchRepo with the given MongoDB client,
// database name, and collection name.
func NewMatchRepo(client *mongo.Client, dbName, collectionName string) *MatchRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &MatchRepo{
		collection: collection,
	}
}

// Save inserts or updates the archived record for a game. Finishing races
// make this run more than once per game, so it upserts by game id.
func (m *MatchRepo) Save(ctx context.Context, record *dmn.MatchRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": record.GameID}
	update := bson.M{
		"$set": bson.M{
			"mode":       record.Mode,
			"gameType":   record.GameType,
			"rounds":     record.Rounds,
			"finishedAt": record.FinishedAt,
			"results":    record.Results,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByPlayer lists archived matches the player took part in, newest first.
func (m *MatchRepo) ByPlayer(ctx context.Context, playerID string, limit int64) ([]*dmn.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"results.playerId": playerID}
	opts := options.Find().SetSort(bson.M{"finishedAt": -1}).SetLimit(limit)
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer func() { _ = cursor.Close(ctx) }()

	var records []*dmn.MatchRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return records, nil
}
