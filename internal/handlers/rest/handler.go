// Package rest serves the session over HTTP with gin. Refused play actions
// answer 200 with applied=false; errors map to their HTTP status.
package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	Session session.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if c.Session == nil {
		return errors.InvalidArgument("session service is required")
	}
	return nil
}

// Handler implements the HTTP routes
type Handler struct {
	session session.Service
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Handler{session: cfg.Session}, nil
}

// Router builds the gin engine with every route registered
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger())
	h.Register(r)
	return r
}

// Register adds the routes to r
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	v1 := r.Group("/v1")
	v1.GET("/public/:code", h.PublicVitals)

	chars := v1.Group("/characters")
	chars.GET("", h.ListCharacters)
	chars.GET("/:id/sheet", h.GetSheet)
	chars.POST("/:id/cast", h.Cast)
	chars.POST("/:id/vitals", h.Vitals)
	chars.POST("/:id/restore-mp", h.RestoreMP)
	chars.POST("/:id/equip", h.Equip)
	chars.POST("/:id/unequip", h.Unequip)
	chars.POST("/:id/bank", h.Bank)
}

// HealthResponse reports liveness and sync state
type HealthResponse struct {
	Status        string `json:"status"`
	UserID        string `json:"userId,omitempty"`
	RemoteEnabled bool   `json:"remoteEnabled"`
	SyncMessage   string `json:"syncMessage,omitempty"`
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	status := h.session.Status()
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		UserID:        status.UserID,
		RemoteEnabled: status.RemoteEnabled,
		SyncMessage:   status.Message,
	})
}

// PublicVitals handles GET /v1/public/:code
func (h *Handler) PublicVitals(c *gin.Context) {
	out, err := h.session.LookupCode(c.Request.Context(), &session.LookupCodeInput{Code: c.Param("code")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Vitals)
}

// ListCharacters handles GET /v1/characters?q=
func (h *Handler) ListCharacters(c *gin.Context) {
	out, err := h.session.ListCharacters(c.Request.Context(), &session.ListCharactersInput{Query: c.Query("q")})
	if err != nil {
		writeError(c, err)
		return
	}
	characters := out.Characters
	if characters == nil {
		characters = []*sheet.Character{}
	}
	c.JSON(http.StatusOK, gin.H{"characters": characters})
}

// GetSheet handles GET /v1/characters/:id/sheet
func (h *Handler) GetSheet(c *gin.Context) {
	out, err := h.session.GetSheet(c.Request.Context(), &session.GetSheetInput{ID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out.Sheet)
}

// ApplyResponse is the result of every play action
type ApplyResponse struct {
	Applied   bool             `json:"applied"`
	Character *sheet.Character `json:"character"`
}

func (h *Handler) apply(c *gin.Context, mutation session.Mutation) {
	out, err := h.session.Apply(c.Request.Context(), &session.ApplyInput{
		CharacterID: c.Param("id"),
		Mutation:    mutation,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ApplyResponse{Applied: out.Applied, Character: out.Character})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, errors.InvalidArgumentf("invalid request body: %v", err))
		return false
	}
	return true
}

// CastRequest names the spell to cast
type CastRequest struct {
	SpellID string `json:"spellId"`
}

// Cast handles POST /v1/characters/:id/cast
func (h *Handler) Cast(c *gin.Context) {
	var req CastRequest
	if !bind(c, &req) {
		return
	}
	if req.SpellID == "" {
		writeError(c, errors.InvalidArgument("spellId is required"))
		return
	}
	h.apply(c, session.CastSpell(req.SpellID))
}

// VitalsRequest changes HP or MP. Exactly one of Set, Adjust or Full is
// used; "rest" refills both pools.
type VitalsRequest struct {
	Stat   string `json:"stat"`
	Set    *int   `json:"set,omitempty"`
	Adjust *int   `json:"adjust,omitempty"`
	Full   bool   `json:"full,omitempty"`
}

// Vitals handles POST /v1/characters/:id/vitals
func (h *Handler) Vitals(c *gin.Context) {
	var req VitalsRequest
	if !bind(c, &req) {
		return
	}
	mutation, err := vitalsMutation(req)
	if err != nil {
		writeError(c, err)
		return
	}
	h.apply(c, mutation)
}

func vitalsMutation(req VitalsRequest) (session.Mutation, error) {
	switch req.Stat {
	case "rest":
		return session.Rest(), nil
	case "hp":
		switch {
		case req.Full:
			return session.HealFull(), nil
		case req.Set != nil:
			return session.SetHP(*req.Set), nil
		case req.Adjust != nil:
			return session.AdjustHP(*req.Adjust), nil
		}
	case "mp":
		switch {
		case req.Full:
			return session.RestoreFull(), nil
		case req.Set != nil:
			return session.SetMP(*req.Set), nil
		case req.Adjust != nil:
			return session.AdjustMP(*req.Adjust), nil
		}
	default:
		return session.Mutation{}, errors.InvalidArgument("stat must be one of: hp, mp, rest")
	}
	return session.Mutation{}, errors.InvalidArgument("one of set, adjust or full is required")
}

// RestoreMPRequest names the coin to spend. An empty coin spends the first
// coin with a balance.
type RestoreMPRequest struct {
	Coin string `json:"coin"`
}

// RestoreMP handles POST /v1/characters/:id/restore-mp
func (h *Handler) RestoreMP(c *gin.Context) {
	var req RestoreMPRequest
	if !bind(c, &req) {
		return
	}
	var coin sheet.Coin
	if strings.TrimSpace(req.Coin) != "" {
		parsed, ok := sheet.ParseCoin(req.Coin)
		if !ok {
			writeError(c, errors.InvalidArgumentf("unknown coin %q", req.Coin))
			return
		}
		coin = parsed
	}
	h.apply(c, session.RestoreMPWithCoin(coin))
}

// EquipRequest names a slot and, for equip, the item
type EquipRequest struct {
	Slot   string `json:"slot"`
	ItemID string `json:"itemId"`
}

// Equip handles POST /v1/characters/:id/equip
func (h *Handler) Equip(c *gin.Context) {
	var req EquipRequest
	if !bind(c, &req) {
		return
	}
	slot, ok := sheet.ParseSlot(req.Slot)
	if !ok {
		writeError(c, errors.InvalidArgumentf("unknown slot %q", req.Slot))
		return
	}
	h.apply(c, session.Equip(slot, req.ItemID))
}

// Unequip handles POST /v1/characters/:id/unequip
func (h *Handler) Unequip(c *gin.Context) {
	var req EquipRequest
	if !bind(c, &req) {
		return
	}
	slot, ok := sheet.ParseSlot(req.Slot)
	if !ok {
		writeError(c, errors.InvalidArgumentf("unknown slot %q", req.Slot))
		return
	}
	h.apply(c, session.Unequip(slot))
}

// BankRequest sets or adjusts one coin count
type BankRequest struct {
	Bank   string   `json:"bank"`
	Coin   string   `json:"coin"`
	Set    *float64 `json:"set,omitempty"`
	Adjust *float64 `json:"adjust,omitempty"`
}

// Bank handles POST /v1/characters/:id/bank
func (h *Handler) Bank(c *gin.Context) {
	var req BankRequest
	if !bind(c, &req) {
		return
	}
	key, ok := sheet.ParseBankKey(req.Bank)
	if !ok {
		writeError(c, errors.InvalidArgumentf("unknown bank %q", req.Bank))
		return
	}
	coin, ok := sheet.ParseCoin(req.Coin)
	if !ok {
		writeError(c, errors.InvalidArgumentf("unknown coin %q", req.Coin))
		return
	}

	switch {
	case req.Set != nil:
		h.apply(c, session.SetBank(key, coin, *req.Set))
	case req.Adjust != nil:
		h.apply(c, session.BumpBank(key, coin, *req.Adjust))
	default:
		writeError(c, errors.InvalidArgument("one of set or adjust is required"))
	}
}
