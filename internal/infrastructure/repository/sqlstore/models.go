package sqlstore

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID           string       `db:"id"`
	ExternalID   string       `db:"external_id"`
	Name         string       `db:"name"`
	Season       string       `db:"season"`
	AgeCategory  string       `db:"age_category"`
	LastSyncedAt sql.NullTime `db:"last_synced_at"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

type clubTableModel struct {
	ID            string         `db:"id"`
	ExternalID    sql.NullString `db:"external_id"`
	Name          string         `db:"name"`
	ShortName     string         `db:"short_name"`
	FederationIDs string         `db:"federation_ids"`
	IsOwn         bool           `db:"is_own"`
}

type teamTableModel struct {
	ID          string         `db:"id"`
	ExternalID  sql.NullString `db:"external_id"`
	ClubID      string         `db:"club_id"`
	Name        string         `db:"name"`
	AgeCategory string         `db:"age_category"`
	Season      string         `db:"season"`
	Kind        string         `db:"kind"`
	LeagueID    string         `db:"league_id"`
	LeagueName  string         `db:"league_name"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type gameTableModel struct {
	ID           string         `db:"id"`
	ExternalID   sql.NullString `db:"external_id"`
	LeagueID     string         `db:"league_id"`
	HomeTeamID   string         `db:"home_team_id"`
	AwayTeamID   string         `db:"away_team_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamName string         `db:"away_team_name"`
	Matchday     int            `db:"matchday"`
	Number       int            `db:"number"`
	Date         string         `db:"game_date"`
	Time         string         `db:"game_time"`
	Status       string         `db:"status"`
	HomeScore    sql.NullInt64  `db:"home_score"`
	AwayScore    sql.NullInt64  `db:"away_score"`
	IsHomeGame   bool           `db:"is_home_game"`
	VenueID      string         `db:"venue_id"`
	Referees     string         `db:"referees"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type standingTableModel struct {
	LeagueID       string    `db:"league_id"`
	ExternalTeamID string    `db:"external_team_id"`
	TeamID         string    `db:"team_id"`
	Rank           int       `db:"rank"`
	Games          int       `db:"games"`
	Wins           int       `db:"wins"`
	Losses         int       `db:"losses"`
	Points         int       `db:"points"`
	ScoredPoints   int       `db:"scored_points"`
	ConcededPoints int       `db:"conceded_points"`
	PointsDiff     int       `db:"points_diff"`
	HomeWins       int       `db:"home_wins"`
	HomeLosses     int       `db:"home_losses"`
	AwayWins       int       `db:"away_wins"`
	AwayLosses     int       `db:"away_losses"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type venueTableModel struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Street     string `db:"street"`
	PostalCode string `db:"postal_code"`
	City       string `db:"city"`
}

type playerTableModel struct {
	ID            string        `db:"id"`
	ExternalID    string        `db:"external_id"`
	TeamID        string        `db:"team_id"`
	FirstName     string        `db:"first_name"`
	LastName      string        `db:"last_name"`
	JerseyNumber  sql.NullInt64 `db:"jersey_number"`
	LicenseSuffix string        `db:"license_suffix"`
	IsActive      bool          `db:"is_active"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}
