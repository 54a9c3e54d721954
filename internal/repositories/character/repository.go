// Package character provides the remote store for character records
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/rpg-sheet/internal/repositories/character Repository,Subscription

import (
	"context"
	"encoding/json"
	"time"
)

// Record is one remote character row. Data is the full normalized character
// document and is opaque to the store.
type Record struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	PublicCode string          `json:"public_code"`
	Name       string          `json:"name"`
	Data       json.RawMessage `json:"data"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Repository defines the remote character store
type Repository interface {
	// List returns the rows owned by a user, newest updated_at first
	// Returns errors.InvalidArgument for an empty user ID
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// ListAll returns every row, in no particular order
	// Returns errors.Internal for storage failures
	ListAll(ctx context.Context, input ListAllInput) (*ListAllOutput, error)

	// Get retrieves a row by ID
	// Returns errors.NotFound if the row doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Upsert inserts or replaces a row keyed by ID and stamps updated_at.
	// Subscribers are notified when the data document changed.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.PermissionDenied if the row belongs to another user
	// Returns errors.AlreadyExists if another row holds the public code
	Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error)

	// Delete removes a row owned by the user
	// Returns errors.NotFound if no such row is owned by the user
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// FindByPublicCode looks a row up by its public code
	// Returns errors.NotFound if no row holds the code
	FindByPublicCode(ctx context.Context, input FindByPublicCodeInput) (*FindByPublicCodeOutput, error)

	// Subscribe delivers every later data change of a row until closed
	Subscribe(ctx context.Context, input SubscribeInput) (*SubscribeOutput, error)
}

// Subscription is a live feed of a row's changes. Updates is closed once the
// subscription is closed.
type Subscription interface {
	Updates() <-chan *Record
	Close() error
}

// ListInput defines the input for listing a user's rows
type ListInput struct {
	UserID string
}

// ListOutput defines the output for listing a user's rows
type ListOutput struct {
	Records []*Record
}

// ListAllInput defines the input for listing every row
type ListAllInput struct{}

// ListAllOutput defines the output for listing every row
type ListAllOutput struct {
	Records []*Record
}

// GetInput defines the input for getting a row
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a row
type GetOutput struct {
	Record *Record
}

// UpsertInput defines the input for upserting a row. UpdatedAt is ignored.
type UpsertInput struct {
	Record *Record
}

// UpsertOutput defines the output for upserting a row
type UpsertOutput struct {
	Record *Record
	// Changed is true when the data document differs from the stored one
	Changed bool
}

// DeleteInput defines the input for deleting a row
type DeleteInput struct {
	ID     string
	UserID string
}

// DeleteOutput defines the output for deleting a row
type DeleteOutput struct{}

// FindByPublicCodeInput defines the input for a public code lookup
type FindByPublicCodeInput struct {
	Code string
}

// FindByPublicCodeOutput defines the output for a public code lookup
type FindByPublicCodeOutput struct {
	Record *Record
}

// SubscribeInput defines the input for subscribing to a row
type SubscribeInput struct {
	ID string
}

// SubscribeOutput defines the output for subscribing to a row
type SubscribeOutput struct {
	Subscription Subscription
}
