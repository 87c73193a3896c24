package positions

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/issuegraph/pkg/observability"
)

// MongoCollection is the collection records are stored in.
const MongoCollection = "positions"

// mongoDoc keeps the record in its wire form so every backend decodes the
// same bytes.
type mongoDoc struct {
	Key       string    `bson:"_id"`
	Project   string    `bson:"project"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per project.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string, logger *log.Logger) (*MongoStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if database == "" {
		database = "issuegraph"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	ping := func() error { return client.Ping(ctx, nil) }
	if err := retry(ctx, connectAttempts, connectDelay, ping); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
		logger: orDefault(logger),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, project string) (*Record, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": StorageKey(project)}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return decodeLoaded(ctx, BackendMongo, project, nil, false, s.logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find positions: %w", err)
	}
	return decodeLoaded(ctx, BackendMongo, project, []byte(doc.Data), true, s.logger), nil
}

func (s *MongoStore) Save(ctx context.Context, project string, r *Record) error {
	data, err := encodeForSave(project, r)
	if err == nil {
		doc := mongoDoc{
			Key:       StorageKey(project),
			Project:   project,
			Data:      string(data),
			UpdatedAt: time.Now().UTC(),
		}
		_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Key}, doc, options.Replace().SetUpsert(true))
	}
	observability.Store().OnSave(ctx, BackendMongo, len(data), err)
	if err != nil {
		return fmt.Errorf("mongo save positions: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
