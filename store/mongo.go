package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"postboard/models"
)

var _ PostStore = (*MongoStore)(nil)

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d postDocument) toModel() models.Post {
	return models.Post{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Message:   d.Message,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// MongoStore stores posts in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	posts  *mongo.Collection
	now    func() time.Time
}

// NewMongoStore wraps the named collection of a connected client.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		posts:  client.Database(database).Collection(collection),
		now:    time.Now,
	}
}

// newestFirst orders posts by createdAt descending, newest insert first on ties.
var newestFirst = bson.D{
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: -1},
}

// postUpdate builds the $set document for an update. createdAt is only
// overwritten when the caller supplied one.
func postUpdate(base models.PostBase, now func() time.Time) bson.D {
	set := bson.D{
		{Key: "name", Value: base.Name},
		{Key: "message", Value: base.Message},
	}
	if base.CreatedAt != nil {
		set = append(set, bson.E{Key: "createdAt", Value: creationTime(base.CreatedAt, now)})
	}
	return bson.D{{Key: "$set", Value: set}}
}

// EnsureIndexes creates the index backing newest-first listing.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    newestFirst,
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("create posts index: %w", err)
	}
	return nil
}

// Create inserts a new post document.
func (s *MongoStore) Create(ctx context.Context, base models.PostBase) (models.Post, error) {
	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Name:      base.Name,
		Message:   base.Message,
		CreatedAt: creationTime(base.CreatedAt, s.now),
	}

	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return doc.toModel(), nil
}

// ListAll returns every post sorted by createdAt descending.
func (s *MongoStore) ListAll(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(newestFirst)

	cursor, err := s.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]models.Post, len(docs))
	for i, d := range docs {
		posts[i] = d.toModel()
	}
	return posts, nil
}

// UpdateByID replaces the post fields and returns the updated document.
func (s *MongoStore) UpdateByID(ctx context.Context, id string, base models.PostBase) (models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Post{}, ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, postUpdate(base, s.now), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	return doc.toModel(), nil
}

// DeleteByID removes the post document with the given id.
func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks connectivity to the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
