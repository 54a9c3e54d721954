package local_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local"
)

type SQLiteRepositoryTestSuite struct {
	suite.Suite
	path string
	repo local.Repository
	ctx  context.Context
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "sheet.db")
	s.repo = s.open()
}

func (s *SQLiteRepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func (s *SQLiteRepositoryTestSuite) open() local.Repository {
	repo, err := local.NewSQLite(s.ctx, &local.SQLiteConfig{
		Path:  s.path,
		Clock: clock.Func(func() time.Time { return time.Unix(1700000000, 0) }),
	})
	s.Require().NoError(err)
	return repo
}

func (s *SQLiteRepositoryTestSuite) TestConfigValidation() {
	_, err := local.NewSQLite(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = local.NewSQLite(s.ctx, &local.SQLiteConfig{Path: "  "})
	s.True(errors.IsInvalidArgument(err))
}

func (s *SQLiteRepositoryTestSuite) TestMissingKeyIsEmpty() {
	out, err := s.repo.Get(s.ctx, local.GetInput{Key: local.KeySpells})
	s.Require().NoError(err)
	s.Nil(out.Value)
}

func (s *SQLiteRepositoryTestSuite) TestPutReplaces() {
	_, err := s.repo.Put(s.ctx, local.PutInput{Key: local.KeyWeapons, Value: []byte(`[{"id":"a"}]`)})
	s.Require().NoError(err)
	_, err = s.repo.Put(s.ctx, local.PutInput{Key: local.KeyWeapons, Value: []byte(`[{"id":"b"}]`)})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, local.GetInput{Key: local.KeyWeapons})
	s.Require().NoError(err)
	s.Equal(`[{"id":"b"}]`, string(out.Value))

	other, err := s.repo.Get(s.ctx, local.GetInput{Key: local.KeyArmor})
	s.Require().NoError(err)
	s.Nil(other.Value)
}

func (s *SQLiteRepositoryTestSuite) TestEmptyKeyRejected() {
	_, err := s.repo.Put(s.ctx, local.PutInput{Value: []byte(`[]`)})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Get(s.ctx, local.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *SQLiteRepositoryTestSuite) TestSurvivesReopen() {
	for _, key := range local.Keys {
		_, err := s.repo.Put(s.ctx, local.PutInput{Key: key, Value: []byte(`["` + key + `"]`)})
		s.Require().NoError(err)
	}
	s.Require().NoError(s.repo.Close())

	// migrations run again on open and must be a no-op
	s.repo = s.open()
	for _, key := range local.Keys {
		out, err := s.repo.Get(s.ctx, local.GetInput{Key: key})
		s.Require().NoError(err)
		s.Equal(`["`+key+`"]`, string(out.Value))
	}
}

func (s *SQLiteRepositoryTestSuite) TestClosedStoreFails() {
	s.Require().NoError(s.repo.Close())

	_, err := s.repo.Get(s.ctx, local.GetInput{Key: local.KeySpells})
	s.Error(err)

	s.repo = s.open()
}

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	repo, err := local.NewSQLite(ctx, &local.SQLiteConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = repo.Close() }()

	if _, err := repo.Put(ctx, local.PutInput{Key: local.KeyCharacters, Value: []byte(`[]`)}); err != nil {
		t.Fatalf("put: %v", err)
	}
	out, err := repo.Get(ctx, local.GetInput{Key: local.KeyCharacters})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out.Value) != "[]" {
		t.Fatalf("value = %q, want []", out.Value)
	}
}
