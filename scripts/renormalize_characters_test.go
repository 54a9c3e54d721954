package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
)

func TestRenormalizeRewritesOnlyStaleRows(t *testing.T) {
	ctx := context.Background()
	_, client, cleanup := testutils.CreateTestRedis(t)
	defer cleanup()

	repo, err := character.NewRedis(&character.RedisConfig{Client: client})
	require.NoError(t, err)

	clean := testutils.CreateTestCharacter("clean-1")
	_, err = repo.Upsert(ctx, character.UpsertInput{
		Record: testutils.CreateTestRecord(clean, testutils.TestUserID, time.Time{}),
	})
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, character.UpsertInput{Record: &character.Record{
		ID:         "legacy-1",
		UserID:     testutils.TestUserID,
		PublicCode: "old0-0000-0001",
		Name:       "Old Timer",
		Data:       json.RawMessage(`{"name":"Old Timer","race":"dwarf","currentHp":"12.7","level":99}`),
	}})
	require.NoError(t, err)

	stale, checked, err := findStale(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 2, checked)
	require.Len(t, stale, 1)

	fixed := stale[0]
	assert.Equal(t, "legacy-1", fixed.ID)
	assert.Equal(t, "OLD000000001", fixed.PublicCode)

	assert.Equal(t, 1, rewrite(ctx, repo, stale))

	got, err := repo.Get(ctx, character.GetInput{ID: "legacy-1"})
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(got.Record.Data, &doc))
	assert.Equal(t, "Dwarf", doc["race"])
	assert.EqualValues(t, 12, doc["currentHp"])
	assert.EqualValues(t, 20, doc["level"])
	assert.Equal(t, "legacy-1", doc["id"])

	stale, _, err = findStale(ctx, repo)
	require.NoError(t, err)
	assert.Empty(t, stale, "a second pass finds nothing")
}

func TestSameDocument(t *testing.T) {
	assert.True(t, sameDocument([]byte(`{"a": 1}`), []byte(`{"a":1}`)))
	assert.False(t, sameDocument([]byte(`{"a":1}`), []byte(`{"a":2}`)))
	assert.False(t, sameDocument([]byte(`not json`), []byte(`{}`)))
}
