package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func TestFileGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	gateway, err := NewFileGateway(t.TempDir())
	require.NoError(t, err)

	records := []record{{ID: "a", Value: 1}, {ID: "b", Value: 2}}
	require.NoError(t, gateway.SaveCollection(ctx, CollectionAccounts, records))

	var got []record
	require.NoError(t, gateway.LoadCollection(ctx, CollectionAccounts, &got))
	assert.Equal(t, records, got)
}

func TestFileGatewayMissingCollectionIsEmpty(t *testing.T) {
	gateway, err := NewFileGateway(t.TempDir())
	require.NoError(t, err)

	var got []record
	require.NoError(t, gateway.LoadCollection(context.Background(), CollectionUsers, &got))
	assert.Nil(t, got)
}

func TestFileGatewayOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gateway, err := NewFileGateway(dir)
	require.NoError(t, err)

	require.NoError(t, gateway.SaveCollection(ctx, CollectionUsers, []record{{ID: "a", Value: 1}}))
	require.NoError(t, gateway.SaveCollection(ctx, CollectionUsers, []record{{ID: "b", Value: 2}}))

	var got []record
	require.NoError(t, gateway.LoadCollection(ctx, CollectionUsers, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	// The rename pattern must not leave temp files behind.
	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileGatewayCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileGateway(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMemoryGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryGateway()

	require.NoError(t, gateway.SaveCollection(ctx, CollectionTransactions, []record{{ID: "t1", Value: 10}}))

	var got []record
	require.NoError(t, gateway.LoadCollection(ctx, CollectionTransactions, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)

	var other []record
	require.NoError(t, gateway.LoadCollection(ctx, CollectionUsers, &other))
	assert.Nil(t, other)
}
