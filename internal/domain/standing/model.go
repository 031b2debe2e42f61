package standing

import "time"

// Standing represents a league table row for one team, keyed by league and
// the federation's team id.
type Standing struct {
	LeagueID       string
	ExternalTeamID string
	TeamID         string
	Rank           int
	Games          int
	Wins           int
	Losses         int
	Points         int
	ScoredPoints   int
	ConcededPoints int
	PointsDiff     int
	HomeWins       int
	HomeLosses     int
	AwayWins       int
	AwayLosses     int
	UpdatedAt      time.Time
}
