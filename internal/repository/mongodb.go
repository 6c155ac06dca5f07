package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	stockCollection      = "stock_items"
	withdrawalCollection = "withdrawals"
	logsCollection       = "logs"

	logsTTLIndex     = "timestamp_ttl"
	healthPingBudget = 2 * time.Second
)

// MongoOptions tunes the client connection pool.
type MongoOptions struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	Compressors            []string
}

// DefaultMongoOptions returns the pool settings the service runs with.
func DefaultMongoOptions() MongoOptions {
	return MongoOptions{
		MaxPoolSize:            50,
		MinPoolSize:            5,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		Compressors:            []string{"zstd", "snappy", "zlib"},
	}
}

func (o MongoOptions) client(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(o.MaxPoolSize).
		SetMinPoolSize(o.MinPoolSize).
		SetMaxConnIdleTime(o.MaxConnIdleTime).
		SetConnectTimeout(o.ConnectTimeout).
		SetServerSelectionTimeout(o.ServerSelectionTimeout).
		SetSocketTimeout(o.SocketTimeout).
		SetCompressors(o.Compressors).
		SetRetryWrites(true).
		SetRetryReads(true)
}

// MongoDB holds the client and the collections of the scaffold database.
type MongoDB struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Stock       *mongo.Collection
	Withdrawals *mongo.Collection
	Logs        *mongo.Collection
}

// collectionIndexes lists the secondary indexes each collection needs.
// Stock and withdrawal reads are always tenant scoped.
func (m *MongoDB) collectionIndexes() map[*mongo.Collection][]mongo.IndexModel {
	return map[*mongo.Collection][]mongo.IndexModel{
		m.Stock: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "category", Value: 1}}},
		},
		m.Withdrawals: {
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		m.Logs: {
			{Keys: bson.D{{Key: "request_id", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}
}

// NewMongoDB connects with the default options.
func NewMongoDB(ctx context.Context, uri, database string) (*MongoDB, error) {
	return ConnectMongoDB(ctx, uri, database, DefaultMongoOptions())
}

// ConnectMongoDB connects, verifies the server answers and ensures the
// indexes exist.
func ConnectMongoDB(ctx context.Context, uri, database string, opts MongoOptions) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts.client(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	m := &MongoDB{
		Client:      client,
		Database:    db,
		Stock:       db.Collection(stockCollection),
		Withdrawals: db.Collection(withdrawalCollection),
		Logs:        db.Collection(logsCollection),
	}
	for coll, models := range m.collectionIndexes() {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("create %s indexes: %w", coll.Name(), err)
		}
	}
	return m, nil
}

// SetLogsTTL makes log entries expire ttl after their timestamp. An existing
// TTL index with another expiry is replaced. A non-positive ttl removes it.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttl time.Duration) error {
	indexes := m.Logs.Indexes()

	specs, err := indexes.ListSpecifications(ctx)
	if err != nil {
		return fmt.Errorf("list log indexes: %w", err)
	}

	seconds := int32(ttl / time.Second)
	for _, spec := range specs {
		if spec.Name != logsTTLIndex {
			continue
		}
		if spec.ExpireAfterSeconds != nil && *spec.ExpireAfterSeconds == seconds && seconds > 0 {
			return nil
		}
		if _, err := indexes.DropOne(ctx, logsTTLIndex); err != nil {
			return fmt.Errorf("drop log ttl index: %w", err)
		}
	}
	if seconds <= 0 {
		return nil
	}

	_, err = indexes.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetName(logsTTLIndex).SetExpireAfterSeconds(seconds),
	})
	if err != nil {
		return fmt.Errorf("create log ttl index: %w", err)
	}
	return nil
}

// Ping checks the primary answers within a short budget.
func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthPingBudget)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
