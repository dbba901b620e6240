package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestIndexes(t *testing.T) {
	reports := ReportIndexes()
	require.Len(t, reports, 2)
	assert.Equal(t, bson.D{{Key: "run_id", Value: 1}}, reports[0].Keys)
	require.NotNil(t, reports[0].Options.Unique)
	assert.True(t, *reports[0].Options.Unique)
	assert.Equal(t, bson.D{{Key: "started_at", Value: -1}}, reports[1].Keys)
	assert.Nil(t, reports[1].Options.Unique)

	snapshots := SnapshotIndexes()
	require.Len(t, snapshots, 1)
	assert.Equal(t, bson.D{{Key: "client", Value: 1}}, snapshots[0].Keys)
	require.NotNil(t, snapshots[0].Options.Unique)
	assert.True(t, *snapshots[0].Options.Unique)
}
