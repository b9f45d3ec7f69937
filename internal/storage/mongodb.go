package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGateway stores each logical collection in a Mongo collection of
// seq-ordered documents. Records round-trip through JSON so the stored
// shape matches the file backend.
type MongoGateway struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoGateway connects, pings and selects the database.
func NewMongoGateway(uri, dbName string) (*MongoGateway, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoGateway{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

type mongoDocument struct {
	Seq int            `bson:"seq"`
	Doc map[string]any `bson:"doc"`
}

func (g *MongoGateway) LoadCollection(ctx context.Context, name string, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := g.db.Collection(name).Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("failed to find collection %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	var wrapped []mongoDocument
	if err := cursor.All(ctx, &wrapped); err != nil {
		return fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	if len(wrapped) == 0 {
		return nil
	}

	docs := make([]map[string]any, 0, len(wrapped))
	for _, w := range wrapped {
		docs = append(docs, w.Doc)
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to assemble collection %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return nil
}

func (g *MongoGateway) SaveCollection(ctx context.Context, name string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to split collection %s: %w", name, err)
	}

	coll := g.db.Collection(name)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", name, err)
	}
	if len(docs) == 0 {
		return nil
	}

	wrapped := make([]any, 0, len(docs))
	for i, doc := range docs {
		wrapped = append(wrapped, mongoDocument{Seq: i, Doc: doc})
	}
	if _, err := coll.InsertMany(ctx, wrapped); err != nil {
		return fmt.Errorf("failed to insert collection %s: %w", name, err)
	}
	return nil
}

func (g *MongoGateway) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}
