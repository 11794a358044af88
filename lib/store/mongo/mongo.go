// Package mongo implements the store interface for MongoDB. Each entity kind is a collection of the "jbx" database
// and each entity a document whose _id is the entity key. A changeset is committed in a multi-document
// transaction, which requires the server to run as a replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tarancss/jbx/lib/store"
)

// Database is the name of the database holding the entity collections.
const Database = "jbx"

// Mongo implements a connection to a MongoDB database.
type Mongo struct {
	c *mgo.Client
}

// New returns a Mongo client connection to the specified MongoDB database uri.
func New(uri string) (*Mongo, error) {
	// get a client
	c, err := mgo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongo DB in %s: %w", uri, err)
	}
	// connect client
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:gomnd // 5 seconds timeout
	defer cancel()

	if err = c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to mongo DB: %w", err)
	}

	return &Mongo{c: c}, nil
}

// Close will close a database connection. Must be called at termination time.
func (m *Mongo) Close() error {
	return m.c.Disconnect(context.Background())
}

func (m *Mongo) col(kind store.Kind) *mgo.Collection {
	return m.c.Database(Database).Collection(string(kind))
}

// Load decodes the entity of the given kind and key into v.
func (m *Mongo) Load(ctx context.Context, kind store.Kind, key string, v interface{}) error {
	var d bson.D

	err := m.col(kind).FindOne(ctx, bson.M{"_id": key}).Decode(&d)
	if errors.Is(err, mgo.ErrNoDocuments) {
		return store.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("cannot load %s %s: %w", kind, key, err)
	}

	b, err := bson.MarshalExtJSON(d, false, false)
	if err != nil {
		return fmt.Errorf("cannot convert %s %s: %w", kind, key, err)
	}

	return store.Decode(b, v)
}

// Commit replaces (or inserts) every document of the changeset inside one transaction.
func (m *Mongo) Commit(ctx context.Context, cs *store.Changeset) error {
	if cs == nil || cs.Len() == 0 {
		return store.ErrEmptyCommit
	}

	docs := make([]bson.D, 0, cs.Len())

	for _, w := range cs.Writes() {
		d, err := toDoc(w)
		if err != nil {
			return err
		}

		docs = append(docs, d)
	}

	sess, err := m.c.StartSession()
	if err != nil {
		return fmt.Errorf("cannot start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mgo.SessionContext) (interface{}, error) {
		for i, w := range cs.Writes() {
			if _, err := m.col(w.Kind).ReplaceOne(sc, bson.M{"_id": w.Key}, docs[i],
				options.Replace().SetUpsert(true)); err != nil {
				return nil, fmt.Errorf("cannot upsert %s %s: %w", w.Kind, w.Key, err)
			}
		}

		return nil, nil
	})

	return err
}

// toDoc converts an entity into a bson document with the entity key as _id.
func toDoc(w store.Write) (bson.D, error) {
	b, err := store.Encode(w.Doc)
	if err != nil {
		return nil, err
	}

	var d bson.D
	if err = bson.UnmarshalExtJSON(b, false, &d); err != nil {
		return nil, fmt.Errorf("cannot convert %s %s: %w", w.Kind, w.Key, err)
	}

	return append(bson.D{{Key: "_id", Value: w.Key}}, d...), nil
}

// Drop deletes every entity collection.
func (m *Mongo) Drop(ctx context.Context) error {
	return m.c.Database(Database).Drop(ctx)
}
