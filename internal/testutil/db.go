package testutil

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoURI is used when PORTFOLIO_TEST_MONGO_URI is unset.
const DefaultMongoURI = "mongodb://localhost:27017"

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		uri := strings.TrimSpace(os.Getenv("PORTFOLIO_TEST_MONGO_URI"))
		if uri == "" {
			uri = DefaultMongoURI
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, options.Client().
			ApplyURI(uri).
			SetServerSelectionTimeout(2*time.Second))
		if err != nil {
			clientErr = err
			return
		}
		if err := c.Ping(ctx, nil); err != nil {
			_ = c.Disconnect(context.Background())
			clientErr = err
			return
		}
		client = c
	})
	return client, clientErr
}

// SetupTestDB returns a fresh, uniquely named database that is dropped when
// the test finishes. The test is skipped when MongoDB is unreachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB test in -short mode")
	}

	c, err := sharedClient()
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	db := c.Database("portfolio_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
	})
	return db
}

// TestContext returns a context bounded for a single test step.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
