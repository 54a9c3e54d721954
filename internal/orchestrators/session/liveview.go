package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
)

// LiveView follows another character by public code. Each remote change
// replaces the snapshot whole; changes older than the held snapshot are
// ignored. Nothing is delivered once Close returns.
type LiveView struct {
	id         string
	code       string
	normalizer *sheet.Normalizer
	sub        characterrepo.Subscription

	mu        sync.Mutex
	current   *sheet.Character
	updatedAt time.Time

	updates  chan *sheet.Character
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// Watch opens a live view of the character holding a code. Any previous
// view of this session is closed.
func (o *Orchestrator) Watch(ctx context.Context, input *WatchInput) (*WatchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	code := sheet.NormalizeCode(input.Code)
	if code == "" {
		return nil, errors.InvalidArgument("code is required")
	}
	if o.remoteRepo == nil {
		return nil, errors.Unavailable("remote store is not configured")
	}

	found, err := o.remoteRepo.FindByPublicCode(ctx, characterrepo.FindByPublicCodeInput{Code: code})
	if err != nil {
		return nil, err
	}
	rec := found.Record

	subscribed, err := o.remoteRepo.Subscribe(ctx, characterrepo.SubscribeInput{ID: rec.ID})
	if err != nil {
		return nil, err
	}

	// re-read so a change between lookup and subscribe is not lost
	if latest, err := o.remoteRepo.Get(ctx, characterrepo.GetInput{ID: rec.ID}); err == nil {
		if latest.Record.UpdatedAt.After(rec.UpdatedAt) {
			rec = latest.Record
		}
	}

	view := &LiveView{
		id:         rec.ID,
		code:       code,
		normalizer: o.normalizer,
		sub:        subscribed.Subscription,
		current:    o.normalizer.Character(rec.Data),
		updatedAt:  rec.UpdatedAt,
		updates:    make(chan *sheet.Character, 1),
		done:       make(chan struct{}),
		finished:   make(chan struct{}),
	}
	// the view outlives the caller's ctx; Close ends it
	go view.run(context.WithoutCancel(ctx))

	o.mu.Lock()
	previous := o.view
	o.view = view
	o.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	slog.InfoContext(ctx, "watching character",
		"character_id", rec.ID,
		"public_code", code)

	return &WatchOutput{View: view}, nil
}

// Code is the watched public code
func (v *LiveView) Code() string {
	return v.code
}

// Current returns the latest snapshot
func (v *LiveView) Current() *sheet.Character {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current.Clone()
}

// Updates delivers each accepted snapshot. Only the newest undelivered
// snapshot is kept. The channel is closed when the view closes.
func (v *LiveView) Updates() <-chan *sheet.Character {
	return v.updates
}

// Close tears down the subscription and waits for delivery to stop
func (v *LiveView) Close() {
	v.once.Do(func() {
		close(v.done)
		if err := v.sub.Close(); err != nil {
			slog.Warn("failed to close character subscription",
				"character_id", v.id,
				"error", err.Error())
		}
	})
	<-v.finished
}

func (v *LiveView) run(ctx context.Context) {
	defer close(v.finished)
	defer v.teardown()

	feed := v.sub.Updates()
	for {
		select {
		case <-v.done:
			return
		case rec, ok := <-feed:
			if !ok {
				slog.DebugContext(ctx, "character subscription ended",
					"character_id", v.id)
				return
			}
			if snapshot := v.accept(rec); snapshot != nil {
				v.deliver(snapshot)
			}
		}
	}
}

// teardown closes updates. After Close the undelivered snapshot is dropped;
// when the feed ended on its own it stays readable.
func (v *LiveView) teardown() {
	select {
	case <-v.done:
		select {
		case <-v.updates:
		default:
		}
	default:
	}
	close(v.updates)
}

// accept swaps in a newer snapshot and returns it, or nil for a stale one
func (v *LiveView) accept(rec *characterrepo.Record) *sheet.Character {
	if rec == nil {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if rec.UpdatedAt.Before(v.updatedAt) {
		slog.Debug("ignoring stale character update",
			"character_id", v.id,
			"updated_at", rec.UpdatedAt)
		return nil
	}
	v.current = v.normalizer.Character(rec.Data)
	v.updatedAt = rec.UpdatedAt
	return v.current.Clone()
}

func (v *LiveView) deliver(snapshot *sheet.Character) {
	for {
		select {
		case <-v.done:
			return
		case v.updates <- snapshot:
			return
		default:
		}
		// drop the undelivered older snapshot
		select {
		case <-v.updates:
		default:
		}
	}
}
