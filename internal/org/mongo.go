package org

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"saasbase.org/internal/ids"
)

const organisationsCollection = "organisations"

type orgDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Slug      string    `bson:"slug"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *orgDoc) organisation() Organisation {
	return Organisation{
		ID:        d.ID,
		Name:      d.Name,
		Slug:      d.Slug,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	col *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(organisationsCollection)}
}

// EnsureIndexes creates the unique slug index. The service's pre-check is a
// fast path for a better error message; this index is the actual guarantee.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("organisations slug index: %w", err)
	}
	return nil
}

func mongoFilter(f Filter) bson.M {
	filter := bson.M{}
	if f.ID != "" {
		filter["_id"] = f.ID
	}
	if f.Slug != "" {
		filter["slug"] = f.Slug
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ExcludeID != "" {
		filter["_id"] = bson.M{"$ne": f.ExcludeID}
	}
	return filter
}

func (s *MongoStore) FindAll(ctx context.Context, f Filter) ([]Organisation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, err
	}
	var docs []orgDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Organisation, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].organisation())
	}
	return out, nil
}

func (s *MongoStore) FindOne(ctx context.Context, f Filter) (*Organisation, error) {
	var doc orgDoc
	if err := s.col.FindOne(ctx, mongoFilter(f)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	record := doc.organisation()
	return &record, nil
}

func (s *MongoStore) Insert(ctx context.Context, o *Organisation) error {
	if o.ID == "" {
		o.ID = ids.New()
	}
	doc := orgDoc{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *MongoStore) FindAndUpdate(ctx context.Context, id string, p Patch) (*Organisation, error) {
	set := bson.M{"updated_at": p.UpdatedAt}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Slug != nil {
		set["slug"] = *p.Slug
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orgDoc
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	record := doc.organisation()
	return &record, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
