package service

import (
	"context"
	"errors"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/repository"
)

// ErrInvalidLogQuery is returned for a time window that ends before it starts.
var ErrInvalidLogQuery = errors.New("log query window ends before it starts")

// LoggingService persists request and audit log entries.
type LoggingService interface {
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

type loggingService struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService returns a LoggingService backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &loggingService{repo: repo}
}

// CreateLog stamps the entry before storing it so the caller sees its ID.
func (s *loggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	entry.Stamp()
	return s.repo.Create(ctx, entry)
}

// CreateLogs skips nil entries and stores the rest in one batch.
func (s *loggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	batch := make([]*model.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		entry.Stamp()
		batch = append(batch, entry)
	}
	if len(batch) == 0 {
		return nil
	}
	return s.repo.CreateMany(ctx, batch)
}

func (s *loggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	if err := validateLogQuery(opts); err != nil {
		return nil, err
	}
	return s.repo.Query(ctx, opts)
}

func (s *loggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	if err := validateLogQuery(opts); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, opts)
}

func validateLogQuery(opts model.LogQueryOptions) error {
	if opts.InvertedWindow() {
		return ErrInvalidLogQuery
	}
	return nil
}
