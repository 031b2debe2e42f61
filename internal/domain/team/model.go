package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindOwn      Kind = "own"
	KindOpponent Kind = "opponent"
)

// ErrExternalIDTaken is returned by stores when a second team would carry
// an external id that is already assigned.
var ErrExternalIDTaken = errors.New("team external id already assigned")

// ErrOwnTeamExists is returned by stores when a second own team would share
// name, age category and season with an existing one.
var ErrOwnTeamExists = errors.New("own team already exists")

// Team is a squad playing in a league. An own team without ExternalID was
// created locally and is not yet linked to the federation's record.
type Team struct {
	ID          string
	ExternalID  string
	ClubID      string
	Name        string
	AgeCategory string
	Season      string
	Kind        Kind
	LeagueID    string
	LeagueName  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Team) IsOwn() bool {
	return t.Kind == KindOwn
}

// SameOwnIdentity reports whether both teams are own teams that collide on
// the own-team key. Names compare case-insensitively.
func (t Team) SameOwnIdentity(other Team) bool {
	return t.IsOwn() && other.IsOwn() &&
		strings.EqualFold(strings.TrimSpace(t.Name), strings.TrimSpace(other.Name)) &&
		t.AgeCategory == other.AgeCategory &&
		t.Season == other.Season
}

func (t Team) IsLinked() bool {
	return t.ExternalID != ""
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Kind != KindOwn && t.Kind != KindOpponent {
		return fmt.Errorf("team kind %q is invalid", t.Kind)
	}

	return nil
}
