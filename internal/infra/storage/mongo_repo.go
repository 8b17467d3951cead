package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// JournalCollection is the collection name used by MongoJournalRepository.
const JournalCollection = "journal"

// MongoJournalRepository implements JournalRepository using MongoDB.
type MongoJournalRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo dials uri, verifies the connection and returns a repository
// bound to the journal collection of database.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoJournalRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(JournalCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "sequence", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create journal index: %w", err)
	}

	return &MongoJournalRepository{client: client, coll: coll}, nil
}

func (r *MongoJournalRepository) Append(ctx context.Context, e JournalEntry) error {
	e.Timestamp = e.Timestamp.UTC()
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

func (r *MongoJournalRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]JournalEntry, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []JournalEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *MongoJournalRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"session_id": sessionID}, opts)
}

func (r *MongoJournalRepository) ListByAction(ctx context.Context, sessionID, actionID string) ([]JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	return r.find(ctx, bson.M{"session_id": sessionID, "action_id": actionID}, opts)
}

func (r *MongoJournalRepository) CountByAction(ctx context.Context, sessionID string) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "session_id", Value: sessionID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$action_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Action string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Count
	}
	return counts, nil
}

func (r *MongoJournalRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
