// Package mongostore implements the catalog on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

var _ catalog.Store = (*Store)(nil)

// Store is the MongoDB catalog backend. Mediums and items live in their own
// collections; items reference their medium by id.
//
// Cascade deletes run in a transaction on replica sets and sharded clusters.
// A standalone server has no transactions, so there a failed cascade can
// leave the medium behind with its items removed.
type Store struct {
	client  *mongo.Client
	mediums *mongo.Collection
	items   *mongo.Collection

	// transactions reports whether the deployment supports multi-document
	// transactions.
	transactions bool

	// Now stamps createdAt and updatedAt. Replaced in tests.
	Now func() time.Time
}

// Open connects to uri and prepares the collections of database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:  client,
		mediums: db.Collection("mediums"),
		items:   db.Collection("items"),
		Now:     time.Now,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	var reply helloReply
	err = db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply)
	if err != nil {
		// Servers before 4.4.2 only know the legacy name.
		err = db.RunCommand(ctx, bson.D{{Key: "isMaster", Value: 1}}).Decode(&reply)
	}
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("reading mongo topology: %w", err)
	}
	s.transactions = reply.transactional()
	return s, nil
}

// helloReply holds the fields of the hello command that describe the topology.
type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// transactional reports whether the server is a replica set member or a
// mongos router. Standalone servers reject transactions.
func (h helloReply) transactional() bool {
	return h.SetName != "" || h.Msg == "isdbgrid"
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "medium", Value: 1}}, Options: options.Index().SetName("medium_idx")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_idx")},
	})
	if err != nil {
		return fmt.Errorf("creating item indexes: %w", err)
	}
	_, err = s.mediums.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("created_idx"),
	})
	if err != nil {
		return fmt.Errorf("creating medium indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// stamp returns the current time truncated to BSON date precision.
func (s *Store) stamp() time.Time {
	return time.UnixMilli(s.Now().UnixMilli())
}

// Stored documents carry a folded copy of their text fields. Cover images are
// set later as the image and imageMime keys.
type mediumDoc struct {
	model.Medium `bson:",inline"`
	Fold         map[string]string `bson:"fold"`
}

type itemDoc struct {
	model.Item `bson:",inline"`
	Fold       map[string]string `bson:"fold"`
}

func mediumFold(m *model.Medium) map[string]string {
	return map[string]string{
		"title":       query.Fold(m.Title),
		"description": query.Fold(m.Description),
	}
}

func itemFold(it *model.Item) map[string]string {
	return map[string]string{
		"title":       query.Fold(it.Title),
		"creator":     query.Fold(it.Creator),
		"description": query.Fold(it.Description),
	}
}

// recordProjection leaves out the stored image and the folded copies.
var recordProjection = bson.D{{Key: "image", Value: 0}, {Key: "fold", Value: 0}}

func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.NotFound(what)
	}
	return fmt.Errorf("getting %s: %w", what, err)
}
