package sheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// parseObject returns the raw document as an object result. Invalid JSON and
// non-object payloads read as an empty object.
func parseObject(raw []byte) gjson.Result {
	if !gjson.ValidBytes(raw) {
		return gjson.Parse("{}")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return gjson.Parse("{}")
	}
	return doc
}

// enumKey folds case and separators so "very high", "Very-High" and
// "VERYHIGH" compare equal
func enumKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// str coerces a scalar to a trimmed string. Objects, arrays and null read as
// empty. Invalid UTF-8 becomes U+FFFD, the same text encoding/json writes
// back.
func str(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(strings.ToValidUTF8(v.Str, "\uFFFD"))
	case gjson.Number:
		return strings.TrimSpace(v.Raw)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	}
	return ""
}

// number coerces a scalar to a finite float. ok is false when there is no
// usable value.
func number(v gjson.Result) (float64, bool) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// clampInt floors f and clamps it to [lo, hi]
func clampInt(f float64, lo, hi int) int {
	f = math.Floor(f)
	if f < float64(lo) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(f)
}

// intField reads a bounded integer, using fallback when absent or unusable
func intField(v gjson.Result, fallback, lo, hi int) int {
	f, ok := number(v)
	if !ok {
		f = float64(fallback)
	}
	return clampInt(f, lo, hi)
}

// flag reads a boolean leniently: true, a nonzero number, or a string
// strconv.ParseBool accepts as true
func flag(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case gjson.String:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
		return err == nil && b
	}
	return false
}

// idList reads an array of ids as a trimmed, de-duplicated list in first
// occurrence order. Never nil.
func idList(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	seen := make(map[string]bool)
	for _, item := range v.Array() {
		id := str(item)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// fixedStrings reads an array into exactly PartySize slots, truncating or
// padding with empty strings
func fixedStrings(v gjson.Result, conv func(string) string) [PartySize]string {
	var out [PartySize]string
	if !v.IsArray() {
		return out
	}
	for i, item := range v.Array() {
		if i >= PartySize {
			break
		}
		out[i] = conv(str(item))
	}
	return out
}

func identity(s string) string { return s }

// NormalizeCode uppercases a party member code and keeps only [A-Z0-9], up to
// MaxPartyCodeLength characters
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if b.Len() >= MaxPartyCodeLength {
			break
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchMPTier(s string) MPTier {
	key := enumKey(s)
	for _, t := range MPTiers {
		if enumKey(string(t)) == key {
			return t
		}
	}
	return MPTierNone
}

func matchRank(s string) Rank {
	key := enumKey(s)
	for _, r := range Ranks {
		if enumKey(string(r)) == key {
			return r
		}
	}
	return RankBronze
}

// matchAbility accepts the short key or the full ability name
func matchAbility(s string) (Ability, bool) {
	key := enumKey(s)
	for _, a := range AllAbilities {
		if string(a) == key || abilityNames[a] == key {
			return a, true
		}
	}
	return "", false
}

var abilityNames = map[Ability]string{
	AbilityStr: "strength",
	AbilityDex: "dexterity",
	AbilityCon: "constitution",
	AbilityInt: "intelligence",
	AbilityWis: "wisdom",
	AbilityCha: "charisma",
}
