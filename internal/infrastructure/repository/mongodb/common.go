package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/hdmon/uaa/internal/domain/errs"
)

const (
	// DefaultPaginationLimit is the page size applied when a query asks
	// for zero or a negative limit.
	DefaultPaginationLimit = 50

	// MaxPaginationLimit caps the page size of listing queries.
	MaxPaginationLimit = 100
)

// HandleMongoError maps a MongoDB error to a domain error.
// Returns:
//   - nil if err == nil
//   - errs.ErrNotFound when no document matched
//   - errs.ErrAlreadyExists on a unique index violation
//   - a wrapped error otherwise
func HandleMongoError(err error, resourceType string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}

	return fmt.Errorf("failed to operate on %s: %w", resourceType, err)
}

// CaseInsensitiveCollation matches strings ignoring case and diacritics.
// It must mirror the collation of the email unique index exactly, or a
// query and the index it relies on would disagree on equality.
func CaseInsensitiveCollation() *options.Collation {
	return &options.Collation{Locale: "en", Strength: 2}
}

// FindWithPagination returns find options for a paginated, sorted query.
// sortOrder is 1 for ascending, -1 for descending.
func FindWithPagination(offset, limit int, sortField string, sortOrder int) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
}

// CountFilter counts documents matching the filter.
func CountFilter(ctx context.Context, coll *mongo.Collection, filter bson.M) (int, error) {
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountAll counts every document in the collection.
func CountAll(ctx context.Context, coll *mongo.Collection) (int, error) {
	return CountFilter(ctx, coll, bson.M{})
}

// DefaultLimitWithMax applies the default and clamps to maxLimit.
func DefaultLimitWithMax(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// StringPtr returns a pointer to s, or nil for the empty string.
// Useful for optional string fields in documents.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
