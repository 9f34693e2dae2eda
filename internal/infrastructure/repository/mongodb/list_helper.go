package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// listDocuments runs a paginated find over the whole collection and decodes
// each document into a domain object. Documents that fail to decode or
// convert are skipped rather than failing the page.
//
// T is the document type, R the domain type. The sort is ascending by
// sortField so pages are stable under concurrent inserts of higher keys.
func listDocuments[T any, R any](
	ctx context.Context,
	collection *mongo.Collection,
	offset, limit int,
	sortField string,
	decoder func(*T) (R, error),
	collectionName string,
) ([]R, error) {
	limit = DefaultLimitWithMax(limit, DefaultPaginationLimit, MaxPaginationLimit)

	opts := FindWithPagination(offset, limit, sortField, 1)

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, HandleMongoError(err, collectionName)
	}
	defer cursor.Close(ctx)

	var results []R
	for cursor.Next(ctx) {
		var doc T
		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			continue
		}

		item, docErr := decoder(&doc)
		if docErr != nil {
			continue
		}

		results = append(results, item)
	}

	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	if results == nil {
		results = make([]R, 0)
	}

	return results, nil
}
