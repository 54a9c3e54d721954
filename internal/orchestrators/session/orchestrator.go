// Package session implements the session orchestrator. A session owns the
// library and the character list, persists every change to the local store
// before returning, and mirrors characters to the remote store in the
// background when a user is signed in.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local"
)

// DefaultSyncTimeout bounds each background remote call
const DefaultSyncTimeout = 10 * time.Second

// Config holds the dependencies for the session orchestrator
type Config struct {
	LocalRepo local.Repository
	// RemoteRepo is optional; without it every remote operation is a no-op
	RemoteRepo characterrepo.Repository
	Engine     engine.Engine
	// Normalizer is optional and defaults to random ids and codes
	Normalizer *sheet.Normalizer
	// UserID signs the session in without the initial pull
	UserID      string
	SyncTimeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.LocalRepo == nil {
		vb.RequiredField("LocalRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.SyncTimeout < 0 {
		vb.Field("SyncTimeout", "must not be negative")
	}

	return vb.Build()
}

// Orchestrator implements Service
type Orchestrator struct {
	localRepo   local.Repository
	remoteRepo  characterrepo.Repository
	engine      engine.Engine
	normalizer  *sheet.Normalizer
	syncTimeout time.Duration

	mu         sync.Mutex
	library    *sheet.Library
	characters []*sheet.Character
	userID     string
	statusMsg  string
	view       *LiveView

	lanes   map[string]*remoteLane
	pending sync.WaitGroup
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// New creates a session and loads the library and characters from the local
// store. Missing or unreadable collections load as empty.
func New(ctx context.Context, cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	n := cfg.Normalizer
	if n == nil {
		n = sheet.NewNormalizer(nil, nil)
	}
	timeout := cfg.SyncTimeout
	if timeout == 0 {
		timeout = DefaultSyncTimeout
	}

	o := &Orchestrator{
		localRepo:   cfg.LocalRepo,
		remoteRepo:  cfg.RemoteRepo,
		engine:      cfg.Engine,
		normalizer:  n,
		syncTimeout: timeout,
		userID:      cfg.UserID,
	}
	if err := o.load(ctx); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "session loaded",
		"spells", len(o.library.Spells),
		"weapons", len(o.library.Weapons),
		"armor", len(o.library.Armor),
		"passives", len(o.library.Passives),
		"characters", len(o.characters))

	return o, nil
}

func (o *Orchestrator) read(ctx context.Context, key string) ([]byte, error) {
	out, err := o.localRepo.Get(ctx, local.GetInput{Key: key})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", key)
	}
	return out.Value, nil
}

func (o *Orchestrator) load(ctx context.Context) error {
	blobs := make(map[string][]byte, len(local.Keys))
	for _, key := range local.Keys {
		value, err := o.read(ctx, key)
		if err != nil {
			return err
		}
		blobs[key] = value
	}

	o.library = &sheet.Library{
		Spells:   o.normalizer.ParseSpells(blobs[local.KeySpells]),
		Weapons:  o.normalizer.ParseWeapons(blobs[local.KeyWeapons]),
		Armor:    o.normalizer.ParseArmor(blobs[local.KeyArmor]),
		Passives: o.normalizer.ParsePassives(blobs[local.KeyPassives]),
	}
	o.characters = o.normalizer.ParseCharacters(blobs[local.KeyCharacters])
	return nil
}

// write stores one collection. Callers hold o.mu.
func (o *Orchestrator) write(ctx context.Context, key string, collection any) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", key)
	}
	if _, err := o.localRepo.Put(ctx, local.PutInput{Key: key, Value: data}); err != nil {
		return errors.Wrapf(err, "failed to save %s", key)
	}
	return nil
}

// Close waits for background syncs and tears down the live view
func (o *Orchestrator) Close(ctx context.Context) error {
	o.mu.Lock()
	view := o.view
	o.view = nil
	o.mu.Unlock()

	if view != nil {
		view.Close()
	}
	return o.Flush(ctx)
}

func (o *Orchestrator) indexOf(id string) int {
	for i, c := range o.characters {
		if c.ID == id {
			return i
		}
	}
	return -1
}
