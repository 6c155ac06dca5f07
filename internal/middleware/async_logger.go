package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/logger"
	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/service"
)

// AsyncLoggerConfig tunes the background log writer.
type AsyncLoggerConfig struct {
	// BufferSize bounds the queue; entries beyond it are dropped.
	BufferSize int
	// BatchSize is the most entries written in one CreateLogs call.
	BatchSize int
	// FlushInterval caps how long an entry waits for its batch to fill.
	FlushInterval time.Duration
	// WriteTimeout bounds each CreateLogs call.
	WriteTimeout time.Duration
}

// DefaultAsyncLoggerConfig returns the settings the service runs with.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    1000,
		BatchSize:     100,
		FlushInterval: 500 * time.Millisecond,
		WriteTimeout:  5 * time.Second,
	}
}

// AsyncLoggerStats is a snapshot of the writer's counters.
type AsyncLoggerStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
	Batches  int64
}

// AsyncLogger queues log entries and writes them in batches from a single
// goroutine, so request handling never waits on the log store.
type AsyncLogger struct {
	sink    service.LoggingService
	cfg     AsyncLoggerConfig
	entries chan *model.LogEntry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
	batches  atomic.Int64
}

// NewAsyncLogger starts a writer over sink. It returns nil for a nil sink.
func NewAsyncLogger(sink service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if sink == nil {
		return nil
	}
	def := DefaultAsyncLoggerConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	al := &AsyncLogger{
		sink:    sink,
		cfg:     cfg,
		entries: make(chan *model.LogEntry, cfg.BufferSize),
		done:    make(chan struct{}),
	}
	go al.run()
	return al
}

// Log queues entry. It reports false when the queue is full or the writer
// has stopped; the entry is then dropped.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	al.mu.RLock()
	defer al.mu.RUnlock()

	if al.closed {
		al.drop()
		return false
	}
	select {
	case al.entries <- entry:
		al.enqueued.Add(1)
		return true
	default:
		al.drop()
		return false
	}
}

func (al *AsyncLogger) drop() {
	al.dropped.Add(1)
	metrics.RecordAuditEntries(metrics.AuditDropped, 1)
}

func (al *AsyncLogger) run() {
	defer close(al.done)

	ticker := time.NewTicker(al.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*model.LogEntry, 0, al.cfg.BatchSize)
	for {
		select {
		case entry, ok := <-al.entries:
			if !ok {
				al.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= al.cfg.BatchSize {
				al.flush(batch)
				batch = make([]*model.LogEntry, 0, al.cfg.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				al.flush(batch)
				batch = make([]*model.LogEntry, 0, al.cfg.BatchSize)
			}
		}
	}
}

func (al *AsyncLogger) flush(batch []*model.LogEntry) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), al.cfg.WriteTimeout)
	defer cancel()

	al.batches.Add(1)
	if err := al.sink.CreateLogs(ctx, batch); err != nil {
		al.failed.Add(int64(len(batch)))
		metrics.RecordAuditEntries(metrics.AuditFailed, len(batch))
		logger.Logger().Warn().Err(err).Int("entries", len(batch)).Msg("Failed to write log batch")
		return
	}
	al.written.Add(int64(len(batch)))
	metrics.RecordAuditEntries(metrics.AuditWritten, len(batch))
}

// Stop refuses new entries, writes what is queued and waits for the writer
// to finish. Later calls return immediately.
func (al *AsyncLogger) Stop() {
	al.mu.Lock()
	if !al.closed {
		al.closed = true
		close(al.entries)
	}
	al.mu.Unlock()
	<-al.done
}

// Stats returns the writer's counters.
func (al *AsyncLogger) Stats() AsyncLoggerStats {
	return AsyncLoggerStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
		Batches:  al.batches.Load(),
	}
}

var (
	globalAsyncLogger   *AsyncLogger
	globalAsyncLoggerMu sync.RWMutex
)

// InitAsyncLogger starts the process-wide writer, stopping any previous one.
func InitAsyncLogger(sink service.LoggingService, cfg AsyncLoggerConfig) {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
	}
	globalAsyncLogger = NewAsyncLogger(sink, cfg)
}

// GetAsyncLogger returns the process-wide writer, or nil.
func GetAsyncLogger() *AsyncLogger {
	globalAsyncLoggerMu.RLock()
	defer globalAsyncLoggerMu.RUnlock()
	return globalAsyncLogger
}

// StopAsyncLogger drains and removes the process-wide writer.
func StopAsyncLogger() {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
		globalAsyncLogger = nil
	}
}
