package game

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
)

// Game is one fixture of a league. Both team references point to existing
// teams; both may be own teams when two squads of the coach's club meet.
type Game struct {
	ID           string
	ExternalID   string
	LeagueID     string
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamName string
	AwayTeamName string
	Matchday     int
	Number       int
	Date         string
	Time         string
	Status       Status
	HomeScore    *int
	AwayScore    *int
	IsHomeGame   bool
	VenueID      string
	Referees     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Involves reports whether teamID plays in this game.
func (g Game) Involves(teamID string) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.LeagueID == "" {
		return fmt.Errorf("game league id is required")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game team ids are required")
	}

	return nil
}
