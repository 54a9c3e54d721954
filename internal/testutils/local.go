package testutils

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local"
)

// CreateTestLocalRepo opens an in-memory local store that is closed when
// the test ends
func CreateTestLocalRepo(t *testing.T) local.Repository {
	repo, err := local.NewSQLite(context.Background(), &local.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err, "failed to open local store")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// SeedLocal writes a library and character list into a local store
func SeedLocal(t *testing.T, repo local.Repository, lib *sheet.Library, characters []*sheet.Character) {
	if lib == nil {
		lib = sheet.NewLibrary()
	}
	blobs := map[string]any{
		local.KeySpells:     lib.Spells,
		local.KeyWeapons:    lib.Weapons,
		local.KeyArmor:      lib.Armor,
		local.KeyPassives:   lib.Passives,
		local.KeyCharacters: characters,
	}
	for key, value := range blobs {
		data, err := json.Marshal(value)
		require.NoError(t, err)
		_, err = repo.Put(context.Background(), local.PutInput{Key: key, Value: data})
		require.NoError(t, err, "failed to seed %s", key)
	}
}
