package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI          string
	Database     string
	Collection   string
	MaxRevisions int
}

// MongoStore keeps documents in one collection and revisions in a second
// collection named <collection>_revisions.
type MongoStore struct {
	client       *mongo.Client
	docs         *mongo.Collection
	revisions    *mongo.Collection
	maxRevisions int
	now          func() time.Time
}

type mongoDocument struct {
	Name    string    `bson:"_id"`
	Data    string    `bson:"data"`
	Hash    string    `bson:"hash"`
	SavedAt time.Time `bson:"saved_at"`
}

type mongoRevision struct {
	ID      string    `bson:"_id"`
	Name    string    `bson:"name"`
	Hash    string    `bson:"hash"`
	Size    int       `bson:"size"`
	SavedAt time.Time `bson:"saved_at"`
}

// NewMongoStore connects to MongoDB and creates the revision index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "expedition"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}
	if cfg.MaxRevisions <= 0 {
		cfg.MaxRevisions = DefaultMaxRevisions
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, storageError(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, storageError(err, "ping mongodb")
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:       client,
		docs:         db.Collection(cfg.Collection),
		revisions:    db.Collection(cfg.Collection + "_revisions"),
		maxRevisions: cfg.MaxRevisions,
		now:          time.Now,
	}
	_, err = s.revisions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}, {Key: "saved_at", Value: -1}},
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, storageError(err, "create revision index")
	}
	return s, nil
}

func (s *MongoStore) Backend() string { return "mongo" }

func (s *MongoStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	var doc mongoDocument
	err := s.docs.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "load %s", name)
	}
	return []byte(doc.Data), nil
}

func (s *MongoStore) Save(ctx context.Context, name string, data []byte) (Revision, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Revision{}, err
	}
	rev := NewRevision(name, data, s.now())

	doc := mongoDocument{Name: name, Data: string(data), Hash: rev.Hash, SavedAt: rev.SavedAt}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.docs.ReplaceOne(ctx, bson.M{"_id": name}, doc, opts); err != nil {
		return Revision{}, storageError(err, "save %s", name)
	}

	_, err := s.revisions.InsertOne(ctx, mongoRevision{
		ID:      rev.ID.String(),
		Name:    rev.Name,
		Hash:    rev.Hash,
		Size:    rev.Size,
		SavedAt: rev.SavedAt,
	})
	if err != nil {
		return Revision{}, storageError(err, "record revision of %s", name)
	}
	if err := s.trim(ctx, name); err != nil {
		return Revision{}, err
	}
	return rev, nil
}

// trim drops revisions of name beyond the newest maxRevisions.
func (s *MongoStore) trim(ctx context.Context, name string) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "saved_at", Value: -1}}).
		SetSkip(int64(s.maxRevisions)).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.revisions.Find(ctx, bson.M{"name": name}, opts)
	if err != nil {
		return storageError(err, "find old revisions of %s", name)
	}
	var stale []mongoRevision
	if err := cur.All(ctx, &stale); err != nil {
		return storageError(err, "read old revisions of %s", name)
	}
	if len(stale) == 0 {
		return nil
	}
	ids := make([]string, len(stale))
	for i, r := range stale {
		ids[i] = r.ID
	}
	if _, err := s.revisions.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return storageError(err, "trim revisions of %s", name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	if _, err := s.docs.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return storageError(err, "delete %s", name)
	}
	if _, err := s.revisions.DeleteMany(ctx, bson.M{"name": name}); err != nil {
		return storageError(err, "delete revisions of %s", name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	cur, err := s.docs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageError(err, "list documents")
	}
	var docs []mongoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageError(err, "list documents")
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

func (s *MongoStore) History(ctx context.Context, name string) ([]Revision, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: -1}})
	cur, err := s.revisions.Find(ctx, bson.M{"name": name}, opts)
	if err != nil {
		return nil, storageError(err, "history of %s", name)
	}
	var raw []mongoRevision
	if err := cur.All(ctx, &raw); err != nil {
		return nil, storageError(err, "history of %s", name)
	}
	revs := make([]Revision, 0, len(raw))
	for _, r := range raw {
		rev := Revision{Name: r.Name, Hash: r.Hash, Size: r.Size, SavedAt: r.SavedAt.UTC()}
		if err := rev.ID.UnmarshalText([]byte(r.ID)); err != nil {
			return nil, storageError(err, "parse revision id %q", r.ID)
		}
		revs = append(revs, rev)
	}
	return revs, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
