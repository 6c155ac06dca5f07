//go:build integration

// Package testutil runs the MongoDB replica set that integration tests use.
// Each test package starts one container from TestMain and gives every test
// its own database on it.
package testutil

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

const (
	mongoImage = "mongo:7.0"
	// Stock withdrawals use multi-document transactions, which need a
	// replica set.
	replicaSetName = "rs0"
	maxDBNameLen   = 48
)

// MongoDB is a running MongoDB container.
type MongoDB struct {
	container *mongodb.MongoDBContainer
	URI       string
}

// StartMongoDB starts a single-node replica set.
func StartMongoDB(ctx context.Context) (*MongoDB, error) {
	container, err := mongodb.Run(ctx, mongoImage, mongodb.WithReplicaSet(replicaSetName))
	if err != nil {
		return nil, fmt.Errorf("start mongodb container: %w", err)
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container, testcontainers.StopContext(ctx))
		return nil, fmt.Errorf("mongodb connection string: %w", err)
	}
	return &MongoDB{container: container, URI: uri}, nil
}

// Terminate stops the container.
func (m *MongoDB) Terminate(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return testcontainers.TerminateContainer(m.container, testcontainers.StopContext(ctx))
}

var (
	sharedMu sync.RWMutex
	shared   *MongoDB
	dbSeq    atomic.Int64
)

// RunWithMongoDB starts the package container, runs the tests and stops the
// container. Use it from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithMongoDB(m))
//	}
func RunWithMongoDB(m *testing.M) int {
	ctx := context.Background()

	db, err := StartMongoDB(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testutil: %v\n", err)
		return 1
	}
	sharedMu.Lock()
	shared = db
	sharedMu.Unlock()

	code := m.Run()

	if err := db.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "testutil: terminate mongodb container: %v\n", err)
	}
	return code
}

// MongoURI returns the URI of the package container.
func MongoURI(t testing.TB) string {
	t.Helper()
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if shared == nil {
		t.Fatal("testutil: no MongoDB container, call RunWithMongoDB from TestMain")
	}
	return shared.URI
}

var unsafeDBChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// DatabaseName derives a database name unique within the process from the
// test name.
func DatabaseName(t testing.TB) string {
	name := unsafeDBChars.ReplaceAllString(t.Name(), "_")
	if len(name) > maxDBNameLen {
		name = name[:maxDBNameLen]
	}
	return fmt.Sprintf("%s_%d", name, dbSeq.Add(1))
}
