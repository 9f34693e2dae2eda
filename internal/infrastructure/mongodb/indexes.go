// Package mongodb provides MongoDB infrastructure components including index management.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names as constants for consistency.
const (
	CollectionUsers    = "users"
	CollectionCounters = "counters"
)

// IndexDefinition describes a MongoDB index to be created.
type IndexDefinition struct {
	Collection string
	Keys       bson.D
	Options    *options.IndexOptionsBuilder
}

// CreateAllIndexes creates all necessary indexes for the application.
// This function is idempotent - calling it multiple times is safe.
func CreateAllIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := GetAllIndexDefinitions()

	for _, idx := range indexes {
		coll := db.Collection(idx.Collection)
		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: idx.Options,
		}

		_, err := coll.Indexes().CreateOne(ctx, model)
		if err != nil {
			return fmt.Errorf("failed to create index on collection %s: %w", idx.Collection, err)
		}
	}

	return nil
}

// GetAllIndexDefinitions returns all index definitions for all collections.
func GetAllIndexDefinitions() []IndexDefinition {
	return GetUserIndexes()
}

// GetUserIndexes returns index definitions for the users collection.
// The unique indexes on login and email are the final word on uniqueness:
// the application-level pre-checks are racy under concurrent creates, and a
// duplicate-key error here is what closes the window.
func GetUserIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Primary key - unique numeric user ID from the counters sequence
			Collection: CollectionUsers,
			Keys:       bson.D{{Key: "user_id", Value: 1}},
			Options:    options.Index().SetUnique(true).SetName("idx_users_id_unique"),
		},
		{
			// Unique index for login; logins are stored lower-case
			Collection: CollectionUsers,
			Keys:       bson.D{{Key: "login", Value: 1}},
			Options:    options.Index().SetUnique(true).SetName("idx_users_login_unique"),
		},
		{
			// Unique case-insensitive index for email. The collation must
			// match CaseInsensitiveCollation used by email lookups.
			Collection: CollectionUsers,
			Keys:       bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}).
				SetName("idx_users_email_unique"),
		},
		{
			// Non-unique sparse index for mobile lookups; duplicates are
			// tolerated and resolved by lowest user_id
			Collection: CollectionUsers,
			Keys:       bson.D{{Key: "mobile", Value: 1}},
			Options:    options.Index().SetSparse(true).SetName("idx_users_mobile"),
		},
	}
}
