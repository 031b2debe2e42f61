package usecase

import "context"

// LeagueDataProvider reads league data from the federation service.
type LeagueDataProvider interface {
	FetchStandings(ctx context.Context, externalLeagueID string) (ExternalStandings, error)
	FetchSchedule(ctx context.Context, externalLeagueID string) ([]ExternalGameEntry, error)
	FetchGameDetail(ctx context.Context, externalGameID string) (ExternalGameDetail, error)
}

type ExternalStandings struct {
	League ExternalLeagueMeta
	Teams  []ExternalTeamEntry
}

type ExternalLeagueMeta struct {
	ExternalID string
	Name       string
}

type ExternalTeamEntry struct {
	ExternalTeamID string
	Name           string
	ExternalClubID string
	ClubName       string
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
}

type ExternalGameEntry struct {
	ExternalGameID     string
	Matchday           int
	Number             int
	Date               string
	Time               string
	HomeExternalTeamID string
	AwayExternalTeamID string
	HomeTeamName       string
	AwayTeamName       string
	HomeScore          *int
	AwayScore          *int
	VenueName          string
	Cancelled          bool
}

type ExternalGameDetail struct {
	ExternalGameID  string
	VenueName       string
	VenueStreet     string
	VenuePostalCode string
	VenueCity       string
	HomeScore       *int
	AwayScore       *int
	Referees        []string
	HomeRoster      ExternalRoster
	AwayRoster      ExternalRoster
}

// ExternalRoster lists the players one team reported for a game.
type ExternalRoster struct {
	ExternalTeamID string
	Players        []ExternalPlayer
}

type ExternalPlayer struct {
	ExternalPlayerID string
	FirstName        string
	LastName         string
	JerseyNumber     *int
	LicenseSuffix    string
}

type ExternalLeagueListing struct {
	ExternalID     string
	Name           string
	AgeGroupName   string
	Gender         string
	FederationID   int
	FederationName string
	DistrictName   string
	SeasonName     string
}
