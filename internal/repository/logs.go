package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/scaffold-service/internal/domain/model"
)

// Query page sizes.
const (
	DefaultLogQueryLimit = 100
	MaxLogQueryLimit     = 1000
)

// LogsRepository stores request and audit entries in the logs collection.
type LogsRepository struct {
	collection *mongo.Collection
}

func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs}
}

// Create inserts one entry, assigning its ID and timestamp when unset.
func (r *LogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	entry.Stamp()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany inserts a batch unordered, so one bad entry does not stop the rest.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		entry.Stamp()
		docs = append(docs, entry)
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Query returns matching entries, newest first. The page size defaults to
// DefaultLogQueryLimit and is capped at MaxLogQueryLimit.
func (r *LogsRepository) Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	find := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(pageSize(opts.Limit)))
	if opts.Skip > 0 {
		find.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, logFilter(opts), find)
	if err != nil {
		return nil, err
	}
	entries := []model.LogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns how many entries match, ignoring paging.
func (r *LogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(opts))
}

func pageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLogQueryLimit
	case limit > MaxLogQueryLimit:
		return MaxLogQueryLimit
	default:
		return limit
	}
}

// logFilter matches exact fields, a case-insensitive path substring and a
// closed time range.
func logFilter(opts model.LogQueryOptions) bson.D {
	filter := bson.D{}
	for _, f := range []struct {
		key, value string
	}{
		{"tenant_id", opts.TenantID},
		{"user_id", opts.UserID},
		{"action_type", opts.ActionType},
		{"request_id", opts.RequestID},
		{"level", opts.Level},
		{"method", opts.Method},
	} {
		if f.value != "" {
			filter = append(filter, bson.E{Key: f.key, Value: f.value})
		}
	}

	if opts.Path != "" {
		filter = append(filter, bson.E{Key: "path", Value: primitive.Regex{Pattern: regexp.QuoteMeta(opts.Path), Options: "i"}})
	}

	window := bson.D{}
	if opts.StartTime != nil {
		window = append(window, bson.E{Key: "$gte", Value: *opts.StartTime})
	}
	if opts.EndTime != nil {
		window = append(window, bson.E{Key: "$lte", Value: *opts.EndTime})
	}
	if len(window) > 0 {
		filter = append(filter, bson.E{Key: "timestamp", Value: window})
	}
	return filter
}
