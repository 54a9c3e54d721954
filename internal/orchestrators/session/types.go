package session

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session Service

// Service defines the session orchestrator interface
type Service interface {
	// Library
	GetLibrary(ctx context.Context, input *GetLibraryInput) (*GetLibraryOutput, error)
	UpsertLibraryItem(ctx context.Context, input *UpsertLibraryItemInput) (*UpsertLibraryItemOutput, error)
	DeleteLibraryItem(ctx context.Context, input *DeleteLibraryItemInput) (*DeleteLibraryItemOutput, error)

	// Characters
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UpdateProfileOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// Play
	GetSheet(ctx context.Context, input *GetSheetInput) (*GetSheetOutput, error)
	Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error)
	RollDamage(ctx context.Context, input *RollDamageInput) (*RollDamageOutput, error)

	// Account and sync
	SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error)
	SignOut(ctx context.Context) error
	Sync(ctx context.Context) (*SyncOutput, error)
	Flush(ctx context.Context) error
	Status() Status

	// Party
	LookupCode(ctx context.Context, input *LookupCodeInput) (*LookupCodeOutput, error)
	LookupParty(ctx context.Context, input *LookupPartyInput) (*LookupPartyOutput, error)
	Watch(ctx context.Context, input *WatchInput) (*WatchOutput, error)
}

// LibraryKind names one library collection
type LibraryKind string

// Library kinds
const (
	KindSpell   LibraryKind = "spell"
	KindWeapon  LibraryKind = "weapon"
	KindArmor   LibraryKind = "armor"
	KindPassive LibraryKind = "passive"
)

// LibraryKinds lists every kind
var LibraryKinds = []LibraryKind{KindSpell, KindWeapon, KindArmor, KindPassive}

// GetLibraryInput filters the library. An empty query matches everything.
type GetLibraryInput struct {
	Query string
}

// GetLibraryOutput holds the sorted, filtered library
type GetLibraryOutput struct {
	Library *sheet.Library
}

// UpsertLibraryItemInput carries a raw item document. A document without an
// id creates a new item.
type UpsertLibraryItemInput struct {
	Kind LibraryKind
	Item json.RawMessage
}

// UpsertLibraryItemOutput returns the normalized item
type UpsertLibraryItemOutput struct {
	ID   string
	Item any
}

// DeleteLibraryItemInput names the item to delete
type DeleteLibraryItemInput struct {
	Kind LibraryKind
	ID   string
}

// DeleteLibraryItemOutput is empty
type DeleteLibraryItemOutput struct{}

// CreateCharacterInput carries the creation choices
type CreateCharacterInput struct {
	Draft sheet.Draft
}

// CreateCharacterOutput returns the new character
type CreateCharacterOutput struct {
	Character *sheet.Character
}

// ListCharactersInput filters the character list
type ListCharactersInput struct {
	Query string
}

// ListCharactersOutput holds the characters in list order
type ListCharactersOutput struct {
	Characters []*sheet.Character
}

// GetCharacterInput names a character
type GetCharacterInput struct {
	ID string
}

// GetCharacterOutput returns the character
type GetCharacterOutput struct {
	Character *sheet.Character
}

// UpdateProfileInput carries a partial profile edit
type UpdateProfileInput struct {
	ID      string
	Profile sheet.Profile
}

// UpdateProfileOutput returns the updated character
type UpdateProfileOutput struct {
	Character *sheet.Character
}

// DeleteCharacterInput names the character to delete
type DeleteCharacterInput struct {
	ID string
}

// DeleteCharacterOutput is empty
type DeleteCharacterOutput struct{}

// GetSheetInput names a character
type GetSheetInput struct {
	ID string
}

// GetSheetOutput returns the derived sheet
type GetSheetOutput struct {
	Sheet *engine.Sheet
}

// ApplyInput applies one mutation to a character
type ApplyInput struct {
	CharacterID string
	Mutation    Mutation
}

// ApplyOutput reports the character after the mutation. Applied is false
// when the mutation was refused; nothing is persisted then.
type ApplyOutput struct {
	Character *sheet.Character
	Applied   bool
}

// RollDamageInput names a spell or weapon whose damage text is rolled
type RollDamageInput struct {
	Kind   LibraryKind
	ItemID string
}

// RollDamageOutput is the roll result
type RollDamageOutput struct {
	Item   string
	Result *engine.RollDamageOutput
}

// SignInInput sets the session user
type SignInInput struct {
	UserID string
}

// SignInOutput reports what the initial sync moved
type SignInOutput struct {
	Pulled int
	Pushed int
}

// SyncOutput reports how many characters were queued for upload
type SyncOutput struct {
	Queued int
}

// Status is the session's account and sync state
type Status struct {
	UserID        string
	RemoteEnabled bool
	// Message describes the last remote failure, empty when the last sync
	// succeeded
	Message string
}

// LookupCodeInput is a public code
type LookupCodeInput struct {
	Code string
}

// LookupCodeOutput is the public view of the character holding the code
type LookupCodeOutput struct {
	Vitals sheet.PublicVitals
}

// SlotState is the lookup state of one party slot
type SlotState string

// Slot states
const (
	SlotEmpty    SlotState = "empty"
	SlotLoading  SlotState = "loading"
	SlotFound    SlotState = "found"
	SlotNotFound SlotState = "not_found"
	SlotError    SlotState = "error"
)

// PartySlot is the lookup result for one roster position
type PartySlot struct {
	Code    string              `json:"code"`
	State   SlotState           `json:"state"`
	Message string              `json:"message,omitempty"`
	Vitals  *sheet.PublicVitals `json:"vitals,omitempty"`
}

// LookupPartyInput looks up the roster codes of a character. OnSlot, when
// set, is called as each slot changes state, from multiple goroutines.
type LookupPartyInput struct {
	CharacterID string
	OnSlot      func(index int, slot PartySlot)
}

// LookupPartyOutput holds the final state of every slot
type LookupPartyOutput struct {
	Slots [sheet.PartySize]PartySlot
}

// WatchInput names the character to view live by public code
type WatchInput struct {
	Code string
}

// WatchOutput returns the live view. Watching again or closing the session
// closes it.
type WatchOutput struct {
	View *LiveView
}
