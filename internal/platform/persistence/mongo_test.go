package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/payments-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestNewMongoDB_InvalidURI(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	db, err := NewMongoDB(context.Background(), logger, &config.MongoDBConfig{
		URI:      "not-a-mongo-uri",
		Database: "payments",
		Timeout:  time.Second,
	})
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "report store: failed to connect to MongoDB")
}

func TestMongoDB_DatabaseAndClose(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	// Connect does not dial, so no server is needed until the first operation
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)

	mdb := &MongoDB{logger: logger, client: client, database: client.Database("payments")}
	assert.Equal(t, "payments", mdb.Database().Name())
	assert.NoError(t, mdb.Close(context.Background()))
}

func TestMongoDB_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	index := mongo.IndexModel{Keys: bson.D{{Key: "run_id", Value: 1}}}

	mt.Run("Created", func(mt *mtest.T) {
		mdb := &MongoDB{logger: logger, client: mt.Client, database: mt.DB, timeout: time.Second}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, mdb.EnsureIndexes(context.Background(), "batch_reports", index))
	})

	mt.Run("NothingToCreate", func(mt *mtest.T) {
		mdb := &MongoDB{logger: logger, client: mt.Client, database: mt.DB}

		assert.NoError(mt, mdb.EnsureIndexes(context.Background(), "batch_reports"))
	})

	mt.Run("ServerError", func(mt *mtest.T) {
		mdb := &MongoDB{logger: logger, client: mt.Client, database: mt.DB}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 85, Name: "IndexOptionsConflict", Message: "index exists with different options",
		}))

		err := mdb.EnsureIndexes(context.Background(), "batch_reports", index)
		assert.ErrorContains(mt, err, "report store: failed to create indexes on batch_reports")
	})
}
