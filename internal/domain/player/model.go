package player

import "fmt"

// Player is a roster entry read from a game's match info. Players are
// recorded for scouting and always belong to exactly one team.
type Player struct {
	ID           string
	ExternalID   string
	TeamID       string
	FirstName    string
	LastName     string
	JerseyNumber *int
	// LicenseSuffix holds the last digits of the federation license number.
	LicenseSuffix string
	Active        bool
}

func (p Player) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.ExternalID == "" {
		return fmt.Errorf("player external id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.FullName() == "" {
		return fmt.Errorf("player name is required")
	}
	if p.JerseyNumber != nil && *p.JerseyNumber < 0 {
		return fmt.Errorf("player jersey number must not be negative")
	}

	return nil
}
