package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local"
)

// ToRecord builds the remote row for a character
func ToRecord(c *sheet.Character, userID string) (*characterrepo.Record, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode character %s", c.ID)
	}
	return &characterrepo.Record{
		ID:         c.ID,
		UserID:     userID,
		PublicCode: c.PublicCode,
		Name:       c.Name,
		Data:       data,
	}, nil
}

// SignIn sets the session user, replaces local characters with the user's
// remote rows by id and uploads characters that exist only locally
func (o *Orchestrator) SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.InvalidArgument("user id is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.userID = userID
	o.statusMsg = ""

	if o.remoteRepo == nil {
		slog.InfoContext(ctx, "signed in without a remote store", "user_id", userID)
		return &SignInOutput{}, nil
	}

	listed, err := o.remoteRepo.List(ctx, characterrepo.ListInput{UserID: userID})
	if err != nil {
		o.setStatus(ctx, "Sign-in sync failed", err)
		return &SignInOutput{}, nil
	}

	// remote rows arrive newest first; rows unknown locally keep that order
	// ahead of the existing list
	pulled := make([]*sheet.Character, 0, len(listed.Records))
	for _, rec := range listed.Records {
		c := o.normalizer.Character(rec.Data)
		c.ID = rec.ID
		pulled = append(pulled, c)
	}

	list := make([]*sheet.Character, 0, len(pulled)+len(o.characters))
	byID := make(map[string]*sheet.Character, len(pulled))
	for _, c := range pulled {
		byID[c.ID] = c
	}
	for _, c := range pulled {
		if o.indexOf(c.ID) < 0 {
			list = append(list, c)
		}
	}
	var localOnly []*sheet.Character
	for _, c := range o.characters {
		if remote, ok := byID[c.ID]; ok {
			list = append(list, remote)
			continue
		}
		list = append(list, c)
		localOnly = append(localOnly, c)
	}

	if err := o.write(ctx, local.KeyCharacters, list); err != nil {
		return nil, err
	}
	o.characters = list

	for _, c := range localOnly {
		o.queueUpsert(ctx, c)
	}

	slog.InfoContext(ctx, "signed in",
		"user_id", userID,
		"pulled", len(pulled),
		"pushed", len(localOnly))

	return &SignInOutput{Pulled: len(pulled), Pushed: len(localOnly)}, nil
}

// SignOut clears the session user. Local data is kept.
func (o *Orchestrator) SignOut(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	slog.InfoContext(ctx, "signed out", "user_id", o.userID)
	o.userID = ""
	o.statusMsg = ""
	return nil
}

// Sync queues an upload of every local character
func (o *Orchestrator) Sync(ctx context.Context) (*SyncOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.remoteReady() {
		return &SyncOutput{}, nil
	}
	for _, c := range o.characters {
		o.queueUpsert(ctx, c)
	}
	return &SyncOutput{Queued: len(o.characters)}, nil
}

// Flush waits for queued remote calls to finish or ctx to end
func (o *Orchestrator) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "flush interrupted")
	}
}

// Status reports the session user and the last remote failure
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Status{
		UserID:        o.userID,
		RemoteEnabled: o.remoteRepo != nil,
		Message:       o.statusMsg,
	}
}

// remoteReady reports whether remote writes apply. Callers hold o.mu.
func (o *Orchestrator) remoteReady() bool {
	return o.remoteRepo != nil && o.userID != ""
}

// setStatus records a remote failure. Callers hold o.mu.
func (o *Orchestrator) setStatus(ctx context.Context, what string, err error) {
	o.statusMsg = fmt.Sprintf("%s: %s", what, errors.GetMessage(err))
	slog.WarnContext(ctx, "remote sync failed",
		"what", what,
		"user_id", o.userID,
		"error", err.Error())
}

// queueUpsert uploads a character in the background. The local copy is
// already committed and a failure only sets the status message. Callers
// hold o.mu.
func (o *Orchestrator) queueUpsert(ctx context.Context, c *sheet.Character) {
	if !o.remoteReady() {
		return
	}
	rec, err := ToRecord(c, o.userID)
	if err != nil {
		o.setStatus(ctx, "Sync failed", err)
		return
	}

	o.enqueue(ctx, c.ID, func(ctx context.Context) (string, error) {
		_, err := o.remoteRepo.Upsert(ctx, characterrepo.UpsertInput{Record: rec})
		return "Sync failed", err
	})
}

// queueDelete removes a row in the background. Callers hold o.mu.
func (o *Orchestrator) queueDelete(ctx context.Context, id string) {
	if !o.remoteReady() {
		return
	}
	userID := o.userID

	o.enqueue(ctx, id, func(ctx context.Context) (string, error) {
		_, err := o.remoteRepo.Delete(ctx, characterrepo.DeleteInput{ID: id, UserID: userID})
		if errors.IsNotFound(err) {
			return "", nil
		}
		return "Delete failed", err
	})
}

// remoteCall runs one remote write and names the failure for the status
// message
type remoteCall func(ctx context.Context) (string, error)

// remoteLane runs the remote writes of one character in order. A queued call
// that has not started yet is replaced by a newer one, so the row always
// ends at the latest local state.
type remoteLane struct {
	next remoteCall
}

// enqueue schedules call on the character's lane. Callers hold o.mu.
func (o *Orchestrator) enqueue(ctx context.Context, id string, call remoteCall) {
	if lane, ok := o.lanes[id]; ok {
		lane.next = call
		return
	}
	if o.lanes == nil {
		o.lanes = make(map[string]*remoteLane)
	}
	lane := &remoteLane{next: call}
	o.lanes[id] = lane

	o.pending.Add(1)
	go o.drain(context.WithoutCancel(ctx), id, lane)
}

func (o *Orchestrator) drain(ctx context.Context, id string, lane *remoteLane) {
	defer o.pending.Done()

	for {
		o.mu.Lock()
		call := lane.next
		lane.next = nil
		if call == nil {
			delete(o.lanes, id)
			o.mu.Unlock()
			return
		}
		o.mu.Unlock()

		callCtx, cancel := context.WithTimeout(ctx, o.syncTimeout)
		what, err := call(callCtx)
		cancel()

		o.mu.Lock()
		if err != nil {
			o.setStatus(ctx, what, err)
		} else {
			o.statusMsg = ""
		}
		o.mu.Unlock()
	}
}
