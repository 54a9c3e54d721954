package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-sheet/internal/repositories/character/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/mocks"
)

func newWatchSession(t *testing.T, remote character.Repository) *session.Orchestrator {
	t.Helper()
	eng, err := engine.New(&engine.Config{})
	require.NoError(t, err)
	o, err := session.New(context.Background(), &session.Config{
		LocalRepo:  testutils.CreateTestLocalRepo(t),
		RemoteRepo: remote,
		Engine:     eng,
	})
	require.NoError(t, err)
	return o
}

func receive(t *testing.T, updates <-chan *sheet.Character) *sheet.Character {
	t.Helper()
	select {
	case c, ok := <-updates:
		require.True(t, ok, "updates closed")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
		return nil
	}
}

func TestWatchFollowsRemoteChanges(t *testing.T) {
	ctx := context.Background()
	_, client, cleanup := testutils.CreateTestRedis(t)
	defer cleanup()

	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	remote, err := character.NewRedis(&character.RedisConfig{
		Client: client,
		Clock:  clock.Func(func() time.Time { return now }),
	})
	require.NoError(t, err)

	ally := builders.NewCharacterBuilder().
		WithID("ally-1").
		WithPublicCode("FEED00000001").
		WithName("Orla").
		WithHP(50, 80).
		Build()
	_, err = remote.Upsert(ctx, character.UpsertInput{Record: testutils.CreateTestRecord(ally, otherPlayerID, now)})
	require.NoError(t, err)

	o := newWatchSession(t, remote)
	defer func() { _ = o.Close(ctx) }()

	out, err := o.Watch(ctx, &session.WatchInput{Code: "feed00000001"})
	require.NoError(t, err)
	view := out.View
	assert.Equal(t, "FEED00000001", view.Code())
	assert.Equal(t, 50, view.Current().CurrentHP)

	now = now.Add(time.Minute)
	hurt := ally.Clone()
	hurt.CurrentHP = 20
	_, err = remote.Upsert(ctx, character.UpsertInput{Record: testutils.CreateTestRecord(hurt, otherPlayerID, now)})
	require.NoError(t, err)

	got := receive(t, view.Updates())
	assert.Equal(t, 20, got.CurrentHP)
	assert.Equal(t, 20, view.Current().CurrentHP)

	view.Close()
	_, open := <-view.Updates()
	assert.False(t, open, "updates are closed after Close")
}

func TestWatchIgnoresStaleUpdates(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := charactermock.NewMockRepository(ctrl)

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	ally := builders.NewCharacterBuilder().WithID("ally-1").WithPublicCode("ALLY00000001").Build()
	held := testutils.CreateTestRecord(ally, otherPlayerID, base)

	feed := make(chan *character.Record, 3)
	mocks.ExpectFindByPublicCode(remote, ally.PublicCode, held, nil)
	mocks.ExpectSubscribe(ctrl, remote, ally.ID, feed)
	remote.EXPECT().
		Get(gomock.Any(), character.GetInput{ID: ally.ID}).
		Return(&character.GetOutput{Record: held}, nil)

	o := newWatchSession(t, remote)
	defer func() { _ = o.Close(ctx) }()

	out, err := o.Watch(ctx, &session.WatchInput{Code: ally.PublicCode})
	require.NoError(t, err)

	stale := ally.Clone()
	stale.CurrentHP = 1
	fresh := ally.Clone()
	fresh.CurrentHP = 2

	feed <- testutils.CreateTestRecord(stale, otherPlayerID, base.Add(-time.Minute))
	feed <- testutils.CreateTestRecord(fresh, otherPlayerID, base.Add(time.Minute))

	got := receive(t, out.View.Updates())
	assert.Equal(t, 2, got.CurrentHP, "the older snapshot is skipped")
	assert.Equal(t, 2, out.View.Current().CurrentHP)
}

func TestWatchAgainClosesPreviousView(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := charactermock.NewMockRepository(ctrl)

	first := builders.NewCharacterBuilder().WithID("first").WithPublicCode("FIRST0000001").Build()
	second := builders.NewCharacterBuilder().WithID("second").WithPublicCode("SECOND000001").Build()
	for _, c := range []*sheet.Character{first, second} {
		rec := testutils.CreateTestRecord(c, otherPlayerID, time.Now())
		mocks.ExpectFindByPublicCode(remote, c.PublicCode, rec, nil)
		mocks.ExpectSubscribe(ctrl, remote, c.ID, make(chan *character.Record))
		remote.EXPECT().
			Get(gomock.Any(), character.GetInput{ID: c.ID}).
			Return(&character.GetOutput{Record: rec}, nil)
	}

	o := newWatchSession(t, remote)

	out1, err := o.Watch(ctx, &session.WatchInput{Code: first.PublicCode})
	require.NoError(t, err)
	out2, err := o.Watch(ctx, &session.WatchInput{Code: second.PublicCode})
	require.NoError(t, err)

	_, open := <-out1.View.Updates()
	assert.False(t, open, "the first view is torn down")

	require.NoError(t, o.Close(ctx))
	_, open = <-out2.View.Updates()
	assert.False(t, open, "closing the session tears down the active view")
}

func TestWatchErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := charactermock.NewMockRepository(ctrl)
	o := newWatchSession(t, remote)

	_, err := o.Watch(ctx, &session.WatchInput{Code: "  "})
	assert.True(t, errors.IsInvalidArgument(err))

	mocks.ExpectFindByPublicCode(remote, "MISSING", nil, errors.NotFound("no such code"))
	_, err = o.Watch(ctx, &session.WatchInput{Code: "missing"})
	assert.True(t, errors.IsNotFound(err))

	offline := newWatchSession(t, nil)
	_, err = offline.Watch(ctx, &session.WatchInput{Code: "ABC"})
	assert.True(t, errors.IsUnavailable(err))
}

func TestCloseDropsUndeliveredSnapshot(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	remote := charactermock.NewMockRepository(ctrl)

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	ally := builders.NewCharacterBuilder().WithID("ally-1").WithPublicCode("ALLY00000001").WithHP(40, 40).Build()
	held := testutils.CreateTestRecord(ally, otherPlayerID, base)

	feed := make(chan *character.Record, 1)
	mocks.ExpectFindByPublicCode(remote, ally.PublicCode, held, nil)
	mocks.ExpectSubscribe(ctrl, remote, ally.ID, feed)
	remote.EXPECT().
		Get(gomock.Any(), character.GetInput{ID: ally.ID}).
		Return(&character.GetOutput{Record: held}, nil)

	o := newWatchSession(t, remote)
	defer func() { _ = o.Close(ctx) }()

	out, err := o.Watch(ctx, &session.WatchInput{Code: ally.PublicCode})
	require.NoError(t, err)
	view := out.View

	hurt := ally.Clone()
	hurt.CurrentHP = 5
	feed <- testutils.CreateTestRecord(hurt, otherPlayerID, base.Add(time.Minute))
	require.Eventually(t, func() bool { return view.Current().CurrentHP == 5 }, 2*time.Second, 5*time.Millisecond)

	view.Close()

	received := 0
	for range view.Updates() {
		received++
	}
	assert.Zero(t, received, "nothing arrives after Close returns")
}

func TestViewOutlivesWatchContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := charactermock.NewMockRepository(ctrl)

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	ally := builders.NewCharacterBuilder().WithID("ally-1").WithPublicCode("ALLY00000001").WithHP(40, 40).Build()
	held := testutils.CreateTestRecord(ally, otherPlayerID, base)

	feed := make(chan *character.Record, 1)
	mocks.ExpectFindByPublicCode(remote, ally.PublicCode, held, nil)
	mocks.ExpectSubscribe(ctrl, remote, ally.ID, feed)
	remote.EXPECT().
		Get(gomock.Any(), character.GetInput{ID: ally.ID}).
		Return(&character.GetOutput{Record: held}, nil)

	o := newWatchSession(t, remote)
	defer func() { _ = o.Close(context.Background()) }()

	reqCtx, cancel := context.WithCancel(context.Background())
	out, err := o.Watch(reqCtx, &session.WatchInput{Code: ally.PublicCode})
	require.NoError(t, err)
	cancel()

	hurt := ally.Clone()
	hurt.CurrentHP = 7
	feed <- testutils.CreateTestRecord(hurt, otherPlayerID, base.Add(time.Minute))

	got := receive(t, out.View.Updates())
	assert.Equal(t, 7, got.CurrentHP)
}
