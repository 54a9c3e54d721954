// Package idgen provides ID and public code generation
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen Generator

// PublicCodeBytes is the amount of entropy in a public code. Hex encoding
// doubles it to PublicCodeLength characters.
const (
	PublicCodeBytes  = 6
	PublicCodeLength = PublicCodeBytes * 2
)

// Generator generates identifiers
type Generator interface {
	Generate() string
}

// UUIDGenerator generates random UUIDs, falling back to a timestamped base-36
// id when the random source is unavailable
type UUIDGenerator struct {
	fallback Generator
}

// NewUUID creates a new UUID generator
func NewUUID() *UUIDGenerator {
	return &UUIDGenerator{fallback: NewFallback()}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return g.fallback.Generate()
	}
	return id.String()
}

// FallbackGenerator produces "<random base36><timestamp base36>" ids.
// Uniqueness is best effort.
type FallbackGenerator struct {
	random io.Reader
	now    func() time.Time
}

// NewFallback creates a fallback generator reading crypto/rand
func NewFallback() *FallbackGenerator {
	return &FallbackGenerator{random: rand.Reader, now: time.Now}
}

// Generate creates a new base-36 id
func (g *FallbackGenerator) Generate() string {
	var random string
	n, err := rand.Int(g.random, big.NewInt(1<<62))
	if err == nil {
		random = strconv.FormatInt(n.Int64(), 36)
	} else {
		// crypto source unavailable; the timestamp alone still orders ids
		random = strconv.FormatInt(g.now().UnixNano()%(1<<31), 36)
	}
	return random + strconv.FormatInt(g.now().UnixMilli(), 36)
}

// PublicCodeGenerator generates 12 character uppercase hex codes from
// crypto/rand. No uniqueness check happens here.
type PublicCodeGenerator struct {
	random io.Reader
}

// NewPublicCode creates a public code generator
func NewPublicCode() *PublicCodeGenerator {
	return &PublicCodeGenerator{random: rand.Reader}
}

// Generate creates a new public code
func (g *PublicCodeGenerator) Generate() string {
	buf := make([]byte, PublicCodeBytes)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		// crypto/rand.Read should never fail on a properly configured system
		// If it does, it indicates a catastrophic system failure
		panic(fmt.Sprintf("crypto/rand.Read failed: %v", err))
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s%d", g.prefix, n)
	}
	return strconv.FormatUint(n, 10)
}
