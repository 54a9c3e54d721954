package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Limits on rollable damage text
const (
	MaxDamageDice = 100
	MaxDamageDie  = 1000
)

var damageNotationRegex = regexp.MustCompile(`^(\d*)d(\d+)\s*(?:([+-])\s*(\d+))?`)

// ParseDamage reads the leading dice expression of a damage text such as
// "2d6+3 fire" or "d8". Text without one is not rollable.
func ParseDamage(damage string) (DamageExpression, error) {
	matches := damageNotationRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(damage)))
	if matches == nil {
		return DamageExpression{}, errors.InvalidArgumentf("damage %q has no dice expression", damage)
	}

	count := 1
	if matches[1] != "" {
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			return DamageExpression{}, errors.InvalidArgumentf("invalid dice count in damage: %s", damage)
		}
		count = n
	}
	size, err := strconv.Atoi(matches[2])
	if err != nil {
		return DamageExpression{}, errors.InvalidArgumentf("invalid die size in damage: %s", damage)
	}
	if count <= 0 || size <= 0 || count > MaxDamageDice || size > MaxDamageDie {
		return DamageExpression{}, errors.InvalidArgumentf("dice count and size out of range: %s", damage)
	}

	modifier := 0
	if matches[4] != "" {
		modifier, err = strconv.Atoi(matches[4])
		if err != nil {
			return DamageExpression{}, errors.InvalidArgumentf("invalid damage modifier: %s", damage)
		}
		if matches[3] == "-" {
			modifier = -modifier
		}
	}

	return DamageExpression{Count: count, Size: size, Modifier: modifier}, nil
}

// Roll rolls the expression with the toolkit roller. The total never drops
// below zero.
func (e DamageExpression) Roll() (total int, description string, err error) {
	roll, err := dice.NewRoll(e.Count, e.Size)
	if err != nil {
		return 0, "", errors.Wrapf(err, "failed to create dice roll")
	}

	total = int(roll.GetValue()) + e.Modifier
	if total < 0 {
		total = 0
	}
	description = roll.GetDescription()
	switch {
	case e.Modifier > 0:
		description += "+" + strconv.Itoa(e.Modifier)
	case e.Modifier < 0:
		description += strconv.Itoa(e.Modifier)
	}
	return total, description, nil
}

// String formats the expression as NdM+K
func (e DamageExpression) String() string {
	s := strconv.Itoa(e.Count) + "d" + strconv.Itoa(e.Size)
	switch {
	case e.Modifier > 0:
		s += "+" + strconv.Itoa(e.Modifier)
	case e.Modifier < 0:
		s += strconv.Itoa(e.Modifier)
	}
	return s
}
