package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"saasbase.org/internal/ids"
)

const usersCollection = "users"

type userDoc struct {
	ID             string    `bson:"_id"`
	Email          string    `bson:"email"`
	PasswordHash   string    `bson:"password_hash"`
	Status         string    `bson:"status"`
	OrganisationID string    `bson:"organisation_id,omitempty"`
	RoleID         string    `bson:"role_id,omitempty"`
	DesignationID  string    `bson:"designation_id,omitempty"`
	Mobile         string    `bson:"mobile,omitempty"`
	LastLoginAt    time.Time `bson:"last_login_at,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func (d *userDoc) user() *User {
	return &User{
		ID:             d.ID,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Status:         d.Status,
		OrganisationID: d.OrganisationID,
		RoleID:         d.RoleID,
		DesignationID:  d.DesignationID,
		Mobile:         d.Mobile,
		LastLoginAt:    d.LastLoginAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// MongoUserStore implements UserStore on a MongoDB collection.
type MongoUserStore struct {
	col *mongo.Collection
}

var _ UserStore = (*MongoUserStore)(nil)

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. The index, not the service
// pre-checks, is the real uniqueness guarantee.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	return nil
}

func (s *MongoUserStore) Insert(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
		u.UpdatedAt = now
	}
	doc := userDoc{
		ID:             u.ID,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Status:         u.Status,
		OrganisationID: u.OrganisationID,
		RoleID:         u.RoleID,
		DesignationID:  u.DesignationID,
		Mobile:         u.Mobile,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *MongoUserStore) Find(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByEmailFold(ctx context.Context, email string) (*User, error) {
	// Anchored pattern with the raw input escaped; matches the whole email
	// ignoring case only.
	pattern := "^" + regexp.QuoteMeta(email) + "$"
	return s.findOne(ctx, bson.M{"email": primitive.Regex{Pattern: pattern, Options: "i"}})
}

func (s *MongoUserStore) RecordLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login_at": at, "updated_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDoc
	if err := s.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.user(), nil
}
