package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	enginemock "github.com/KirkDiggler/rpg-sheet/internal/engine/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
)

func newEngineSession(t *testing.T, eng engine.Engine) *session.Orchestrator {
	repo := testutils.CreateTestLocalRepo(t)
	hero := builders.NewCharacterBuilder().WithID("char-hero").WithName("Hero").Build()
	testutils.SeedLocal(t, repo, testutils.CreateTestLibrary(), []*sheet.Character{hero})

	o, err := session.New(context.Background(), &session.Config{LocalRepo: repo, Engine: eng})
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close(context.Background()) })
	return o
}

func TestGetSheetKeepsEngineErrorCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := enginemock.NewMockEngine(ctrl)
	o := newEngineSession(t, eng)

	eng.EXPECT().
		CalculateSheet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *engine.CalculateSheetInput) (*engine.CalculateSheetOutput, error) {
			assert.Equal(t, "char-hero", in.Character.ID)
			assert.Len(t, in.Library.Spells, 3)
			return nil, errors.Internal("table lookup failed")
		})

	_, err := o.GetSheet(context.Background(), &session.GetSheetInput{ID: "char-hero"})
	require.Error(t, err)
	assert.True(t, errors.IsInternal(err))
	assert.Contains(t, err.Error(), "char-hero")
}

func TestRollDamagePassesLibraryText(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := enginemock.NewMockEngine(ctrl)
	o := newEngineSession(t, eng)

	eng.EXPECT().
		RollDamage(gomock.Any(), &engine.RollDamageInput{Damage: "1d10+2"}).
		Return(&engine.RollDamageOutput{Total: 9, Description: "1d10+2"}, nil)

	out, err := o.RollDamage(context.Background(), &session.RollDamageInput{
		Kind:   session.KindWeapon,
		ItemID: "weapon-axe",
	})
	require.NoError(t, err)
	assert.Equal(t, "Battle Axe", out.Item)
	assert.Equal(t, 9, out.Result.Total)
}

func TestRollDamageUnknownItemSkipsEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	o := newEngineSession(t, enginemock.NewMockEngine(ctrl))

	_, err := o.RollDamage(context.Background(), &session.RollDamageInput{
		Kind:   session.KindSpell,
		ItemID: "spell-missing",
	})
	assert.True(t, errors.IsNotFound(err))
}
