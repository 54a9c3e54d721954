package sheet

import "encoding/json"

// Draft carries the choices made when creating a character. Zero MaxHP or
// MaxMP means "use the race preset".
type Draft struct {
	Name               string           `json:"name"`
	Race               string           `json:"race"`
	Subtype            string           `json:"subtype,omitempty"`
	Rank               string           `json:"rank,omitempty"`
	Level              int              `json:"level,omitempty"`
	MaxHP              int              `json:"maxHp,omitempty"`
	MaxMP              int              `json:"maxMp,omitempty"`
	Abilities          *Abilities       `json:"abilitiesBase,omitempty"`
	SkillProficiencies map[Skill]bool   `json:"skillProficiencies,omitempty"`
	SaveProficiencies  map[Ability]bool `json:"saveProficiencies,omitempty"`
}

// NewCharacter builds a fresh character from a draft: new id and public
// code, full vitals, nothing equipped or known, empty banks.
func (n *Normalizer) NewCharacter(d Draft) *Character {
	data, err := json.Marshal(d)
	if err != nil {
		data = nil
	}
	// a draft carries no id or code, so both are minted here
	return n.Character(data)
}

// NewCharacter builds a fresh character with the default generators
func NewCharacter(d Draft) *Character {
	return defaultNormalizer.NewCharacter(d)
}

// Profile is a partial profile edit. Nil fields are left unchanged.
type Profile struct {
	Name             *string `json:"name,omitempty"`
	Race             *string `json:"race,omitempty"`
	Subtype          *string `json:"subtype,omitempty"`
	Rank             *string `json:"rank,omitempty"`
	Level            *int    `json:"level,omitempty"`
	MaxHP            *int    `json:"maxHp,omitempty"`
	MaxMP            *int    `json:"maxMp,omitempty"`
	PartyName        *string `json:"partyName,omitempty"`
	MissionDirective *string `json:"missionDirective,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// ApplyProfile returns a normalized copy with the profile edits applied.
// Lowering a maximum pulls the current value down with it.
func (n *Normalizer) ApplyProfile(c *Character, p Profile) *Character {
	out := c.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Race != nil {
		out.Race = *p.Race
	}
	if p.Subtype != nil {
		out.Subtype = *p.Subtype
	}
	if p.Rank != nil {
		out.Rank = Rank(*p.Rank)
	}
	if p.Level != nil {
		out.Level = *p.Level
	}
	if p.MaxHP != nil {
		out.MaxHP = *p.MaxHP
	}
	if p.MaxMP != nil {
		out.MaxMP = *p.MaxMP
	}
	if p.PartyName != nil {
		out.PartyName = *p.PartyName
	}
	if p.MissionDirective != nil {
		out.MissionDirective = *p.MissionDirective
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	return n.Renormalize(out)
}
