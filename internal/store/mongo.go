package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore is the production Store. It owns a single pooled client.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo dials uri and checks the connection with a ping.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{c: s.db.Collection(name)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func (s *MongoStore) EnsureIndexes(ctx context.Context, collection string, indexes ...Index) error {
	if len(indexes) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		opts := options.Index()
		if idx.Unique {
			opts.SetUnique(true)
		}
		if idx.Sparse {
			opts.SetSparse(true)
		}
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: idx.Field, Value: 1}}, Options: opts})
	}
	if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	c *mongo.Collection
}

func (m *mongoCollection) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]bson.M, error) {
	findOptions := options.Find()
	if opts.Sort != "" {
		dir := 1
		if opts.Desc {
			dir = -1
		}
		findOptions.SetSort(bson.D{{Key: opts.Sort, Value: dir}})
	}
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}

	cursor, err := m.c.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]bson.M, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *mongoCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	var doc bson.M
	err := m.c.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *mongoCollection) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := m.c.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid, nil
}

func (m *mongoCollection) UpdateOne(ctx context.Context, filter bson.M, set any) (UpdateResult, error) {
	res, err := m.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return UpdateResult{}, translate(err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (m *mongoCollection) UpdateMany(ctx context.Context, filter bson.M, set any) (UpdateResult, error) {
	res, err := m.c.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return UpdateResult{}, translate(err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (m *mongoCollection) UnsetOne(ctx context.Context, filter bson.M, fields ...string) (UpdateResult, error) {
	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	res, err := m.c.UpdateOne(ctx, filter, bson.M{"$unset": unset})
	if err != nil {
		return UpdateResult{}, translate(err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (m *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := m.c.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *mongoCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := m.c.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func translate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{Field: duplicateIndexField(err.Error()), Err: err}
	}
	return err
}

// duplicateIndexField pulls the field out of a server message such as
// "E11000 duplicate key error collection: petla.users index: username_1 dup key: ...".
func duplicateIndexField(msg string) string {
	_, rest, found := strings.Cut(msg, "index: ")
	if !found {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return strings.TrimSuffix(name, "_1")
}
