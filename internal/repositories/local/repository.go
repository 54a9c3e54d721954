// Package local provides the on-device blob store. Each collection (library
// spells, weapons, armor, passives and the character list) lives under its
// own key as one JSON array.
package local

import "context"

// Collection keys
const (
	KeySpells     = "rpgsheet.spells"
	KeyWeapons    = "rpgsheet.weapons"
	KeyArmor      = "rpgsheet.armor"
	KeyPassives   = "rpgsheet.passives"
	KeyCharacters = "rpgsheet.characters"
)

// Keys lists every collection key
var Keys = []string{KeySpells, KeyWeapons, KeyArmor, KeyPassives, KeyCharacters}

// Repository defines the local blob store
type Repository interface {
	// Get reads the blob under a key. A missing key is not an error; it
	// returns a nil Value.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put replaces the blob under a key
	// Returns errors.InvalidArgument for an empty key
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Close releases the underlying database
	Close() error
}

// GetInput defines the input for reading a blob
type GetInput struct {
	Key string
}

// GetOutput defines the output for reading a blob
type GetOutput struct {
	Value []byte
}

// PutInput defines the input for writing a blob
type PutInput struct {
	Key   string
	Value []byte
}

// PutOutput defines the output for writing a blob
type PutOutput struct{}
