package store

import (
	"bytes"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/fontsmith/pkg/config"
	"github.com/matzehuels/fontsmith/pkg/errors"
)

// Collection is the MongoDB collection configs are stored in.
const Collection = "configs"

const connectTimeout = 10 * time.Second

// MongoStore keeps configs in MongoDB, one document per font name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// configDocument is the stored form. The config is kept as its JSON
// encoding so the document matches config.json byte for byte.
type configDocument struct {
	Name      string    `bson:"_id"`
	Config    string    `bson:"config"`
	Glyphs    int       `bson:"glyphs"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(Collection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*config.Config, error) {
	if err := errors.ValidateFontName(name); err != nil {
		return nil, err
	}
	var doc configDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no config stored for %s", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load config %s", name)
	}
	return config.Parse([]byte(doc.Config))
}

func (s *MongoStore) Save(ctx context.Context, name string, cfg *config.Config) error {
	if err := errors.ValidateFontName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := config.Write(&buf, cfg); err != nil {
		return err
	}
	doc := configDocument{
		Name:      name,
		Config:    buf.String(),
		Glyphs:    len(cfg.Glyphs),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save config %s", name)
	}
	return nil
}

// Delete removes the config stored for name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete config %s", name)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
