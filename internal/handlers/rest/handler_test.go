package rest_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/handlers/rest"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
	sessionmock "github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockSession *sessionmock.MockService
	router      *gin.Engine
	hero        *sheet.Character
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSession = sessionmock.NewMockService(s.ctrl)

	handler, err := rest.NewHandler(&rest.HandlerConfig{Session: s.mockSession})
	s.Require().NoError(err)
	s.router = handler.Router()
	s.hero = testutils.CreateTestCharacter("char-1")
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// mutation matches an apply call on id by mutation name
func mutation(id, name string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		input, ok := x.(*session.ApplyInput)
		return ok && input.CharacterID == id && input.Mutation.Name == name
	})
}

func (s *HandlerTestSuite) expectApply(name string, applied bool) {
	s.mockSession.EXPECT().
		Apply(gomock.Any(), mutation("char-1", name)).
		Return(&session.ApplyOutput{Character: s.hero, Applied: applied}, nil)
}

func (s *HandlerTestSuite) TestNewHandlerRequiresSession() {
	_, err := rest.NewHandler(&rest.HandlerConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = rest.NewHandler(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestHealth() {
	s.mockSession.EXPECT().Status().Return(session.Status{
		UserID:        testutils.TestUserID,
		RemoteEnabled: true,
		Message:       "Sync failed: boom",
	})

	w := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	s.Equal("ok", body.Get("status").String())
	s.True(body.Get("remoteEnabled").Bool())
	s.Equal("Sync failed: boom", body.Get("syncMessage").String())
	s.NotEmpty(w.Header().Get(rest.RequestIDHeader))
}

func (s *HandlerTestSuite) TestRequestIDIsEchoed() {
	s.mockSession.EXPECT().Status().Return(session.Status{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(rest.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal("req-42", w.Header().Get(rest.RequestIDHeader))
}

func (s *HandlerTestSuite) TestPublicVitals() {
	s.mockSession.EXPECT().
		LookupCode(gomock.Any(), &session.LookupCodeInput{Code: "abcd-1234"}).
		Return(&session.LookupCodeOutput{Vitals: s.hero.Vitals()}, nil)

	w := s.do(http.MethodGet, "/v1/public/abcd-1234", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	s.Equal(testutils.TestCharacterName, body.Get("name").String())
	s.Equal(int64(s.hero.MaxHP), body.Get("maxHp").Int())
	s.False(body.Get("personalBank").Exists(), "only the public subset is shared")
}

func (s *HandlerTestSuite) TestErrorsMapToStatus() {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: errors.NotFound("no character holds that code"), status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "unavailable", err: errors.Unavailable("remote store is not configured"), status: http.StatusServiceUnavailable, code: "UNAVAILABLE"},
		{name: "invalid", err: errors.InvalidArgument("code is required"), status: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockSession.EXPECT().LookupCode(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			w := s.do(http.MethodGet, "/v1/public/X", "")
			s.Equal(tc.status, w.Code)
			body := gjson.Parse(w.Body.String())
			s.Equal(tc.code, body.Get("code").String())
			s.Equal(errors.GetMessage(tc.err), body.Get("message").String())
		})
	}
}

func (s *HandlerTestSuite) TestListCharacters() {
	s.mockSession.EXPECT().
		ListCharacters(gomock.Any(), &session.ListCharactersInput{Query: "thor"}).
		Return(&session.ListCharactersOutput{Characters: []*sheet.Character{s.hero}}, nil)

	w := s.do(http.MethodGet, "/v1/characters?q=thor", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("char-1", gjson.Get(w.Body.String(), "characters.0.id").String())
}

func (s *HandlerTestSuite) TestListCharactersEmptyIsArray() {
	s.mockSession.EXPECT().
		ListCharacters(gomock.Any(), gomock.Any()).
		Return(&session.ListCharactersOutput{}, nil)

	w := s.do(http.MethodGet, "/v1/characters", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(gjson.Get(w.Body.String(), "characters").IsArray())
}

func (s *HandlerTestSuite) TestGetSheet() {
	s.mockSession.EXPECT().
		GetSheet(gomock.Any(), &session.GetSheetInput{ID: "char-1"}).
		Return(&session.GetSheetOutput{Sheet: &engine.Sheet{Character: s.hero, ArmorClass: 17, ProficiencyBonus: 2}}, nil)

	w := s.do(http.MethodGet, "/v1/characters/char-1/sheet", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := gjson.Parse(w.Body.String())
	s.Equal(int64(17), body.Get("armorClass").Int())
	s.Equal(int64(2), body.Get("proficiencyBonus").Int())
}

func (s *HandlerTestSuite) TestPlayActions() {
	testCases := []struct {
		name     string
		path     string
		body     string
		mutation string
	}{
		{name: "cast", path: "cast", body: `{"spellId":"spell-ember"}`, mutation: "cast spell-ember"},
		{name: "adjust hp", path: "vitals", body: `{"stat":"hp","adjust":-5}`, mutation: "hp -5"},
		{name: "set mp", path: "vitals", body: `{"stat":"mp","set":40}`, mutation: "mp = 40"},
		{name: "heal", path: "vitals", body: `{"stat":"hp","full":true}`, mutation: "heal full"},
		{name: "rest", path: "vitals", body: `{"stat":"rest"}`, mutation: "rest"},
		{name: "restore mp", path: "restore-mp", body: `{"coin":"Gold"}`, mutation: "restore mp with gold"},
		{name: "restore mp any coin", path: "restore-mp", body: `{}`, mutation: "restore mp"},
		{name: "equip", path: "equip", body: `{"slot":"armor","itemId":"armor-chain"}`, mutation: "equip armor armor-chain"},
		{name: "unequip", path: "unequip", body: `{"slot":"weapon"}`, mutation: "unequip weapon"},
		{name: "set bank", path: "bank", body: `{"bank":"party","coin":"gold","set":12}`, mutation: "party gold = 12"},
		{name: "bump bank", path: "bank", body: `{"bank":"personal","coin":"silver","adjust":3}`, mutation: "personal silver +3"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.expectApply(tc.mutation, true)

			w := s.do(http.MethodPost, "/v1/characters/char-1/"+tc.path, tc.body)
			s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
			body := gjson.Parse(w.Body.String())
			s.True(body.Get("applied").Bool())
			s.Equal("char-1", body.Get("character.id").String())
		})
	}
}

func (s *HandlerTestSuite) TestRefusedActionIsNotAnError() {
	s.expectApply("cast spell-rime", false)

	w := s.do(http.MethodPost, "/v1/characters/char-1/cast", `{"spellId":"spell-rime"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.False(gjson.Get(w.Body.String(), "applied").Bool())
}

func (s *HandlerTestSuite) TestUnknownCharacter() {
	s.mockSession.EXPECT().
		Apply(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("character not found"))

	w := s.do(http.MethodPost, "/v1/characters/nope/vitals", `{"stat":"rest"}`)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestBadRequests() {
	testCases := []struct {
		name string
		path string
		body string
	}{
		{name: "malformed json", path: "cast", body: `{"spellId":`},
		{name: "missing spell", path: "cast", body: `{}`},
		{name: "unknown stat", path: "vitals", body: `{"stat":"xp","set":1}`},
		{name: "no vitals op", path: "vitals", body: `{"stat":"hp"}`},
		{name: "unknown coin", path: "restore-mp", body: `{"coin":"platinum"}`},
		{name: "unknown slot", path: "equip", body: `{"slot":"ring","itemId":"x"}`},
		{name: "unknown bank", path: "bank", body: `{"bank":"guild","coin":"gold","set":1}`},
		{name: "no bank op", path: "bank", body: `{"bank":"party","coin":"gold"}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// the strict mock fails on any session call
			w := s.do(http.MethodPost, "/v1/characters/char-1/"+tc.path, tc.body)
			s.Equal(http.StatusBadRequest, w.Code, w.Body.String())
			s.Equal("INVALID_ARGUMENT", gjson.Get(w.Body.String(), "code").String())
		})
	}
}

func TestRestoreMPRefusesEmptyCoin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	repo := testutils.CreateTestLocalRepo(t)
	hero := builders.NewCharacterBuilder().
		WithID("char-1").
		WithMP(10, 200).
		WithPersonalBank(sheet.Bank{Bronze: 2}).
		Build()
	testutils.SeedLocal(t, repo, testutils.CreateTestLibrary(), []*sheet.Character{hero})

	eng, err := engine.New(&engine.Config{})
	require.NoError(t, err)
	s, err := session.New(ctx, &session.Config{LocalRepo: repo, Engine: eng})
	require.NoError(t, err)
	defer func() { _ = s.Close(ctx) }()

	handler, err := rest.NewHandler(&rest.HandlerConfig{Session: s})
	require.NoError(t, err)
	router := handler.Router()

	post := func(body string) gjson.Result {
		req := httptest.NewRequest(http.MethodPost, "/v1/characters/char-1/restore-mp", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return gjson.Parse(w.Body.String())
	}

	body := post(`{"coin":"silver"}`)
	assert.False(t, body.Get("applied").Bool())
	assert.Equal(t, int64(10), body.Get("character.currentMp").Int())
	assert.Equal(t, int64(2), body.Get("character.personalBank.bronze").Int())
	assert.Equal(t, int64(0), body.Get("character.personalBank.silver").Int())

	body = post(`{}`)
	assert.True(t, body.Get("applied").Bool())
	assert.Equal(t, int64(200), body.Get("character.currentMp").Int())
	assert.Equal(t, int64(1), body.Get("character.personalBank.bronze").Int())
}
