package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// Defaults for [OpenMongo].
const (
	DefaultMongoDatabase   = "familytree"
	DefaultMongoCollection = "persons"
)

// personDoc is one person as stored in MongoDB.
type personDoc struct {
	ID        string          `bson:"_id"`
	ParentID  string          `bson:"parent_id,omitempty"`
	Position  int             `bson:"position"`
	Name      string          `bson:"name"`
	BirthDate string          `bson:"birth_date,omitempty"`
	Job       string          `bson:"job,omitempty"`
	Notes     string          `bson:"notes,omitempty"`
	PhotoURL  string          `bson:"photo_url,omitempty"`
	Spouses   []family.Spouse `bson:"spouses,omitempty"`
}

func (d personDoc) record() family.PersonRecord {
	return family.PersonRecord{
		ID:        family.ID(d.ID),
		Name:      d.Name,
		BirthDate: d.BirthDate,
		Job:       d.Job,
		Notes:     d.Notes,
		PhotoURL:  d.PhotoURL,
		Spouses:   d.Spouses,
	}
}

// MongoStore keeps one document per person with a parent reference.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri, pings the server and ensures the parent index.
// An empty database means [DefaultMongoDatabase].
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store needs a connection uri")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := NewMongoStore(client, client.Database(database).Collection(DefaultMongoCollection))
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "position", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return s, nil
}

// NewMongoStore wraps an existing collection.
func NewMongoStore(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll}
}

var byPosition = bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}

func (s *MongoStore) Tree(ctx context.Context) (*family.PersonRecord, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(byPosition))
	if err != nil {
		return nil, fmt.Errorf("find persons: %w", err)
	}
	var docs []personDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode persons: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	rows := make([]linkedRecord, len(docs))
	for i, d := range docs {
		rows[i] = linkedRecord{rec: d.record(), parent: family.ID(d.ParentID)}
	}
	return assemble(rows)
}

func (s *MongoStore) Person(ctx context.Context, id family.ID) (*family.PersonRecord, error) {
	var doc personDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find person %s: %w", id, err)
	}
	rec := doc.record()

	opts := options.Find().SetSort(byPosition).SetProjection(bson.M{"_id": 1, "name": 1})
	cur, err := s.coll.Find(ctx, bson.M{"parent_id": string(id)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find children of %s: %w", id, err)
	}
	var kids []personDoc
	if err := cur.All(ctx, &kids); err != nil {
		return nil, fmt.Errorf("decode children of %s: %w", id, err)
	}
	for _, k := range kids {
		rec.Children = append(rec.Children, family.PersonRecord{ID: family.ID(k.ID), Name: k.Name})
	}
	return &rec, nil
}

// Import replaces the collection's contents with root's hierarchy.
func (s *MongoStore) Import(ctx context.Context, root *family.PersonRecord) (int, error) {
	if root == nil {
		return 0, errors.New(errors.ErrCodeEmptyTree, "nothing to import")
	}
	if err := checkUnique(root); err != nil {
		return 0, err
	}

	var docs []any
	var flatten func(rec *family.PersonRecord, parent family.ID, position int)
	flatten = func(rec *family.PersonRecord, parent family.ID, position int) {
		docs = append(docs, personDoc{
			ID:        string(rec.ID),
			ParentID:  string(parent),
			Position:  position,
			Name:      rec.DisplayName(),
			BirthDate: rec.BirthDate,
			Job:       rec.Job,
			Notes:     rec.Notes,
			PhotoURL:  rec.PhotoURL,
			Spouses:   rec.Spouses,
		})
		for i := range rec.Children {
			flatten(&rec.Children[i], rec.ID, i)
		}
	}
	flatten(root, "", 0)

	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, fmt.Errorf("clear persons: %w", err)
	}
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert persons: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var (
	_ Store    = (*MongoStore)(nil)
	_ Importer = (*MongoStore)(nil)
)
