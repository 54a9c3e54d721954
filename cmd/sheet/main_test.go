package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// sheetCLI runs the command tree against one SQLite file
type sheetCLI struct {
	t  *testing.T
	db string
}

func newSheetCLI(t *testing.T) *sheetCLI {
	t.Setenv("RPGSHEET_REDIS_ADDR", "")
	t.Setenv("RPGSHEET_USER_ID", "")
	return &sheetCLI{t: t, db: filepath.Join(t.TempDir(), "sheet.db")}
}

func (c *sheetCLI) run(args ...string) (string, error) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{
		"--db", c.db,
		"--env-file", filepath.Join(c.t.TempDir(), "none.env"),
		"--log-level", "error",
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *sheetCLI) mustRun(args ...string) string {
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func TestCharacterLifecycle(t *testing.T) {
	cli := newSheetCLI(t)

	created := cli.mustRun("character", "create", "--name", "Mira", "--race", "elf")
	id := gjson.Get(created, "id").String()
	require.NotEmpty(t, id)
	assert.Equal(t, "Elf", gjson.Get(created, "race").String())
	assert.Equal(t, int64(140), gjson.Get(created, "maxMp").Int())

	list := cli.mustRun("character", "list")
	assert.Contains(t, list, "Mira")

	sheetJSON := cli.mustRun("character", "show", id)
	assert.Equal(t, int64(13), gjson.Get(sheetJSON, "armorClass").Int())

	edited := cli.mustRun("character", "edit", id, "--notes", "owes the guild")
	assert.Equal(t, "owes the guild", gjson.Get(edited, "notes").String())
	assert.Equal(t, "Mira", gjson.Get(edited, "name").String(), "unset flags leave fields alone")

	assert.Contains(t, cli.mustRun("character", "delete", id), "deleted")
	assert.NotContains(t, cli.mustRun("character", "list"), "Mira")
}

func TestPlayAgainstLibrary(t *testing.T) {
	cli := newSheetCLI(t)

	spell := cli.mustRun("spell", "add", `{"id":"spell-ember","name":"Ember","mpTier":"Low","damage":"1d6"}`)
	assert.Equal(t, int64(25), gjson.Get(spell, "mpCost").Int())
	assert.Contains(t, cli.mustRun("spell", "list"), "Ember")

	id := gjson.Get(cli.mustRun("character", "create", "--name", "Bram"), "id").String()

	out := cli.mustRun("play", "cast", id, "spell-ember")
	assert.Contains(t, out, "applied")
	assert.Contains(t, out, "MP 75/100")

	out = cli.mustRun("play", "cast", id, "spell-missing")
	assert.Contains(t, out, "refused")

	assert.Contains(t, cli.mustRun("play", "hp", id, "--", "-30"), "HP 70/100")
	assert.Contains(t, cli.mustRun("play", "hp", id, "full"), "HP 100/100")
	assert.Contains(t, cli.mustRun("play", "mp", id, "10"), "MP 10/100")

	out = cli.mustRun("play", "restore", id, "gold")
	assert.Contains(t, out, "refused", "an empty bank cannot pay")

	cli.mustRun("play", "bank", id, "personal", "gold", "2")
	out = cli.mustRun("play", "restore", id, "silver")
	assert.Contains(t, out, "refused", "an empty coin is never swapped for another")
	assert.Contains(t, out, "MP 10/100")
	assert.Contains(t, cli.mustRun("play", "restore", id, "gold"), "MP 100/100")

	cli.mustRun("play", "mp", id, "0")
	out = cli.mustRun("play", "restore", id)
	assert.Contains(t, out, "restore mp: applied")
	assert.Contains(t, out, "MP 100/100")
}

func TestPlayArgumentErrors(t *testing.T) {
	cli := newSheetCLI(t)

	testCases := [][]string{
		{"play", "hp", "x", "lots"},
		{"play", "equip", "x", "ring", "item"},
		{"play", "restore", "x", "platinum"},
		{"play", "bank", "x", "guild", "gold", "1"},
		{"party", "set", "x", "9", "--name", "Too Far"},
	}
	for _, args := range testCases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := cli.run(args...)
			assert.True(t, errors.IsInvalidArgument(err), "got %v", err)
		})
	}

	_, err := cli.run("play", "rest", "nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestRemoteCommandsNeedConfiguration(t *testing.T) {
	cli := newSheetCLI(t)

	_, err := cli.run("sync")
	assert.True(t, errors.IsFailedPrecondition(err))

	_, err = cli.run("watch", "ABCD")
	assert.True(t, errors.IsUnavailable(err))
}

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		in   string
		want amount
	}{
		{in: "12", want: amount{value: 12}},
		{in: "+3", want: amount{value: 3, relative: true}},
		{in: "-7", want: amount{value: -7, relative: true}},
		{in: "FULL", want: amount{full: true}},
		{in: " 2.5 ", want: amount{value: 2.5}},
	}
	for _, tc := range testCases {
		got, err := parseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"lots", "NaN", "+Inf"} {
		_, err := parseAmount(bad)
		assert.True(t, errors.IsInvalidArgument(err), bad)
	}
}
