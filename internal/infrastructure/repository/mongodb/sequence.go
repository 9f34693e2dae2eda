package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// SequenceAllocator hands out monotonically increasing positive int64 ids
// from a counters collection. Each named sequence is a single document
// incremented atomically, so two concurrent allocations never see the same
// value even across service instances.
type SequenceAllocator struct {
	collection *mongo.Collection
}

// NewSequenceAllocator creates an allocator over the counters collection.
func NewSequenceAllocator(collection *mongo.Collection) *SequenceAllocator {
	return &SequenceAllocator{collection: collection}
}

type counterDocument struct {
	Name  string `bson:"_id"`
	Value int64  `bson:"value"`
}

// Next returns the next id of the named sequence, starting at 1. The
// sequence document is created on first use.
func (a *SequenceAllocator) Next(ctx context.Context, name string) (int64, error) {
	filter := bson.M{"_id": name}
	update := bson.M{"$inc": bson.M{"value": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDocument
	err := a.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}

	return doc.Value, nil
}
