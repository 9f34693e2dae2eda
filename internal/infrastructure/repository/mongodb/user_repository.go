package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/hdmon/uaa/internal/domain/errs"
	userdomain "github.com/hdmon/uaa/internal/domain/user"
)

// userSequence is the counters document backing user id allocation.
const userSequence = "user_id"

// MongoUserRepository implements the application layer's user.Repository.
type MongoUserRepository struct {
	collection *mongo.Collection
	sequence   *SequenceAllocator
	logger     *slog.Logger
}

// UserRepoOption configures MongoUserRepository.
type UserRepoOption func(*MongoUserRepository)

// WithUserRepoLogger sets the logger for the user repository.
func WithUserRepoLogger(logger *slog.Logger) UserRepoOption {
	return func(r *MongoUserRepository) {
		r.logger = logger
	}
}

// NewMongoUserRepository creates a new MongoDB user repository. The
// sequence allocator hands out ids for first-time saves.
func NewMongoUserRepository(
	collection *mongo.Collection,
	sequence *SequenceAllocator,
	opts ...UserRepoOption,
) *MongoUserRepository {
	r := &MongoUserRepository{
		collection: collection,
		sequence:   sequence,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FindByID finds a user by numeric id.
func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*userdomain.User, error) {
	if id <= 0 {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"user_id": id}
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.ErrorContext(ctx, "failed to find user by id",
				slog.Int64("user_id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, HandleMongoError(err, "user")
	}

	return r.documentToUser(&doc)
}

// FindByLogin finds a user by login. Logins are stored lower-case, so the
// query key is lowered rather than relying on a collation.
func (r *MongoUserRepository) FindByLogin(ctx context.Context, login string) (*userdomain.User, error) {
	if login == "" {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"login": strings.ToLower(login)}
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "user")
	}

	return r.documentToUser(&doc)
}

// FindByEmail finds a user by email, case-insensitively. Emails keep their
// stored casing, so the lookup runs under the same collation as the email
// unique index.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	if email == "" {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"email": email}
	opts := options.FindOne().SetCollation(CaseInsensitiveCollation())
	var doc userDocument
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "user")
	}

	return r.documentToUser(&doc)
}

// FindByMobile finds a user by exact mobile number. Mobiles are not unique
// at the index level; the lowest user_id wins so repeated lookups are
// deterministic.
func (r *MongoUserRepository) FindByMobile(ctx context.Context, mobile string) (*userdomain.User, error) {
	if mobile == "" {
		return nil, errs.ErrInvalidInput
	}

	filter := bson.M{"mobile": mobile}
	opts := options.FindOne().SetSort(bson.D{{Key: "user_id", Value: 1}})
	var doc userDocument
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		return nil, HandleMongoError(err, "user")
	}

	return r.documentToUser(&doc)
}

// Save persists a user. A record without an id gets one from the sequence
// and is inserted; anything else is a full-document update of the existing
// record. Unique index violations surface as errs.ErrAlreadyExists.
func (r *MongoUserRepository) Save(ctx context.Context, user *userdomain.User) error {
	if user == nil {
		return errs.ErrInvalidInput
	}

	if user.ID() == 0 {
		return r.insert(ctx, user)
	}

	doc := r.userToDocument(user)
	filter := bson.M{"user_id": user.ID()}
	update := bson.M{"$set": doc}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to save user",
			slog.Int64("user_id", user.ID()),
			slog.String("login", user.Login()),
			slog.String("error", err.Error()),
		)
		return HandleMongoError(err, "user")
	}
	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) insert(ctx context.Context, user *userdomain.User) error {
	id, err := r.sequence.Next(ctx, userSequence)
	if err != nil {
		return err
	}
	if err = user.AssignID(id); err != nil {
		return err
	}

	doc := r.userToDocument(user)
	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			r.logger.ErrorContext(ctx, "failed to insert user",
				slog.Int64("user_id", user.ID()),
				slog.String("login", user.Login()),
				slog.String("error", err.Error()),
			)
		}
		return HandleMongoError(err, "user")
	}
	return nil
}

// DeleteByLogin removes the record with the given login.
func (r *MongoUserRepository) DeleteByLogin(ctx context.Context, login string) error {
	if login == "" {
		return errs.ErrInvalidInput
	}

	filter := bson.M{"login": strings.ToLower(login)}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to delete user",
			slog.String("login", login),
			slog.String("error", err.Error()),
		)
		return HandleMongoError(err, "user")
	}

	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// List returns users ordered by id with pagination.
func (r *MongoUserRepository) List(ctx context.Context, offset, limit int) ([]*userdomain.User, error) {
	return listDocuments(ctx, r.collection, offset, limit, "user_id", r.documentToUser, "users")
}

// Count returns the total number of users.
func (r *MongoUserRepository) Count(ctx context.Context) (int, error) {
	count, err := CountAll(ctx, r.collection)
	if err != nil {
		return 0, HandleMongoError(err, "users")
	}
	return count, nil
}

// userDocument is the MongoDB document shape for a user.
type userDocument struct {
	UserID    int64     `bson:"user_id"`
	Login     string    `bson:"login"`
	Email     string    `bson:"email"`
	Mobile    *string   `bson:"mobile,omitempty"`
	Activated bool      `bson:"activated"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *MongoUserRepository) userToDocument(user *userdomain.User) userDocument {
	return userDocument{
		UserID:    user.ID(),
		Login:     user.Login(),
		Email:     user.Email(),
		Mobile:    StringPtr(user.Mobile()),
		Activated: user.Activated(),
		CreatedAt: user.CreatedAt(),
		UpdatedAt: user.UpdatedAt(),
	}
}

func (r *MongoUserRepository) documentToUser(doc *userDocument) (*userdomain.User, error) {
	if doc == nil {
		return nil, errs.ErrInvalidInput
	}

	return userdomain.Reconstruct(
		doc.UserID,
		doc.Login,
		doc.Email,
		StringValue(doc.Mobile),
		doc.Activated,
		doc.CreatedAt,
		doc.UpdatedAt,
	), nil
}
