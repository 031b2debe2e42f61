package httpapi

import (
	"time"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/catalog"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/game"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/league"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/player"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/standing"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/team"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

type createOwnTeamRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	ClubID      string `json:"club_id" validate:"omitempty,max=64"`
	AgeCategory string `json:"age_category" validate:"required,max=16"`
	Season      string `json:"season" validate:"omitempty,max=16"`
}

type mergeTeamsRequest struct {
	AuthoritativeTeamID string `json:"authoritative_team_id" validate:"required"`
	DuplicateTeamID     string `json:"duplicate_team_id" validate:"required,nefield=AuthoritativeTeamID"`
}

type leagueDTO struct {
	ID           string     `json:"id"`
	ExternalID   string     `json:"external_id"`
	Name         string     `json:"name"`
	Season       string     `json:"season"`
	AgeCategory  string     `json:"age_category"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ID:           l.ID,
		ExternalID:   l.ExternalID,
		Name:         l.Name,
		Season:       l.Season,
		AgeCategory:  l.AgeCategory,
		LastSyncedAt: l.LastSyncedAt,
	}
}

type teamDTO struct {
	ID          string `json:"id"`
	ExternalID  string `json:"external_id,omitempty"`
	ClubID      string `json:"club_id,omitempty"`
	Name        string `json:"name"`
	AgeCategory string `json:"age_category"`
	Season      string `json:"season"`
	Kind        string `json:"kind"`
	LeagueID    string `json:"league_id,omitempty"`
	LeagueName  string `json:"league_name,omitempty"`
	Linked      bool   `json:"linked"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:          t.ID,
		ExternalID:  t.ExternalID,
		ClubID:      t.ClubID,
		Name:        t.Name,
		AgeCategory: t.AgeCategory,
		Season:      t.Season,
		Kind:        string(t.Kind),
		LeagueID:    t.LeagueID,
		LeagueName:  t.LeagueName,
		Linked:      t.IsLinked(),
	}
}

type playerDTO struct {
	ID           string `json:"id"`
	ExternalID   string `json:"external_id"`
	TeamID       string `json:"team_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	JerseyNumber *int   `json:"jersey_number,omitempty"`
	Active       bool   `json:"active"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:           p.ID,
		ExternalID:   p.ExternalID,
		TeamID:       p.TeamID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		JerseyNumber: p.JerseyNumber,
		Active:       p.Active,
	}
}

type gameDTO struct {
	ID           string   `json:"id"`
	ExternalID   string   `json:"external_id,omitempty"`
	LeagueID     string   `json:"league_id"`
	HomeTeamID   string   `json:"home_team_id"`
	AwayTeamID   string   `json:"away_team_id"`
	HomeTeamName string   `json:"home_team_name"`
	AwayTeamName string   `json:"away_team_name"`
	Matchday     int      `json:"matchday"`
	Number       int      `json:"number"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Status       string   `json:"status"`
	HomeScore    *int     `json:"home_score,omitempty"`
	AwayScore    *int     `json:"away_score,omitempty"`
	IsHomeGame   bool     `json:"is_home_game"`
	VenueID      string   `json:"venue_id,omitempty"`
	Referees     []string `json:"referees,omitempty"`
}

func gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:           g.ID,
		ExternalID:   g.ExternalID,
		LeagueID:     g.LeagueID,
		HomeTeamID:   g.HomeTeamID,
		AwayTeamID:   g.AwayTeamID,
		HomeTeamName: g.HomeTeamName,
		AwayTeamName: g.AwayTeamName,
		Matchday:     g.Matchday,
		Number:       g.Number,
		Date:         g.Date,
		Time:         g.Time,
		Status:       string(g.Status),
		HomeScore:    g.HomeScore,
		AwayScore:    g.AwayScore,
		IsHomeGame:   g.IsHomeGame,
		VenueID:      g.VenueID,
		Referees:     g.Referees,
	}
}

type standingDTO struct {
	TeamID         string `json:"team_id"`
	ExternalTeamID string `json:"external_team_id"`
	Rank           int    `json:"rank"`
	Games          int    `json:"games"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	Points         int    `json:"points"`
	ScoredPoints   int    `json:"scored_points"`
	ConcededPoints int    `json:"conceded_points"`
	PointsDiff     int    `json:"points_diff"`
}

func standingToDTO(s standing.Standing) standingDTO {
	return standingDTO{
		TeamID:         s.TeamID,
		ExternalTeamID: s.ExternalTeamID,
		Rank:           s.Rank,
		Games:          s.Games,
		Wins:           s.Wins,
		Losses:         s.Losses,
		Points:         s.Points,
		ScoredPoints:   s.ScoredPoints,
		ConcededPoints: s.ConcededPoints,
		PointsDiff:     s.PointsDiff,
	}
}

type syncReportDTO struct {
	League         leagueDTO             `json:"league"`
	TeamsCreated   int                   `json:"teams_created"`
	TeamsLinked    int                   `json:"teams_linked"`
	TeamsUpdated   int                   `json:"teams_updated"`
	StandingsRows  int                   `json:"standings_rows"`
	ScheduleSynced bool                  `json:"schedule_synced"`
	GamesCreated   int                   `json:"games_created"`
	GamesUpdated   int                   `json:"games_updated"`
	Skipped        []usecase.SkippedGame `json:"skipped"`
	DetailsFetched int                   `json:"details_fetched"`
	DetailsFailed  int                   `json:"details_failed"`
	PlayersSynced  int                   `json:"players_synced"`
}

func syncReportToDTO(r usecase.SyncReport) syncReportDTO {
	skipped := r.Skipped
	if skipped == nil {
		skipped = []usecase.SkippedGame{}
	}
	return syncReportDTO{
		League:         leagueToDTO(r.League),
		TeamsCreated:   r.TeamsCreated,
		TeamsLinked:    r.TeamsLinked,
		TeamsUpdated:   r.TeamsUpdated,
		StandingsRows:  r.StandingsRows,
		ScheduleSynced: r.ScheduleSynced,
		GamesCreated:   r.GamesCreated,
		GamesUpdated:   r.GamesUpdated,
		Skipped:        skipped,
		DetailsFetched: r.DetailsFetched,
		DetailsFailed:  r.DetailsFailed,
		PlayersSynced:  r.PlayersSynced,
	}
}

type catalogEntryDTO struct {
	ClubID             string `json:"club_id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	FederationIDs      []int  `json:"federation_ids"`
	TeamCount          int    `json:"team_count"`
}

func catalogEntryToDTO(e catalog.IndexEntry) catalogEntryDTO {
	return catalogEntryDTO{
		ClubID:             e.ClubID,
		Name:               e.Name,
		RegistrationNumber: e.RegistrationNumber,
		FederationIDs:      e.FederationIDs,
		TeamCount:          e.TeamCount,
	}
}

type catalogTeamDTO struct {
	PermanentID string                `json:"permanent_id"`
	Name        string                `json:"name"`
	ShortName   string                `json:"short_name,omitempty"`
	AgeCategory string                `json:"age_category,omitempty"`
	Gender      string                `json:"gender,omitempty"`
	Leagues     []catalogLeagueRefDTO `json:"leagues"`
}

type catalogLeagueRefDTO struct {
	LeagueID   string `json:"league_id"`
	LeagueName string `json:"league_name"`
	SeasonName string `json:"season_name,omitempty"`
	AgeGroup   string `json:"age_group,omitempty"`
}

func catalogTeamToDTO(t catalog.Team) catalogTeamDTO {
	leagues := make([]catalogLeagueRefDTO, 0, len(t.Leagues))
	for _, l := range t.Leagues {
		leagues = append(leagues, catalogLeagueRefDTO{
			LeagueID:   l.LeagueID,
			LeagueName: l.LeagueName,
			SeasonName: l.SeasonName,
			AgeGroup:   l.AgeGroupName,
		})
	}
	return catalogTeamDTO{
		PermanentID: t.PermanentID,
		Name:        t.Name,
		ShortName:   t.ShortName,
		AgeCategory: t.AgeCategory,
		Gender:      t.Gender,
		Leagues:     leagues,
	}
}

type catalogClubDTO struct {
	ClubID             string           `json:"club_id"`
	Name               string           `json:"name"`
	RegistrationNumber string           `json:"registration_number,omitempty"`
	FederationIDs      []int            `json:"federation_ids"`
	Teams              []catalogTeamDTO `json:"teams"`
}

func catalogClubToDTO(c catalog.Club) catalogClubDTO {
	teams := make([]catalogTeamDTO, 0, len(c.Teams))
	for _, t := range c.Teams {
		teams = append(teams, catalogTeamToDTO(t))
	}
	return catalogClubDTO{
		ClubID:             c.ClubID,
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		FederationIDs:      c.FederationIDs,
		Teams:              teams,
	}
}

type leagueListingDTO struct {
	ExternalID     string `json:"external_id"`
	Name           string `json:"name"`
	AgeGroup       string `json:"age_group,omitempty"`
	Gender         string `json:"gender,omitempty"`
	FederationID   int    `json:"federation_id,omitempty"`
	FederationName string `json:"federation_name,omitempty"`
	District       string `json:"district,omitempty"`
	Season         string `json:"season,omitempty"`
}

type leagueListingPageDTO struct {
	Items     []leagueListingDTO `json:"items"`
	StartAt   int                `json:"start_at"`
	NextStart *int               `json:"next_start,omitempty"`
}

func listingPageToDTO(p usecase.LeagueListingPage) leagueListingPageDTO {
	items := make([]leagueListingDTO, 0, len(p.Items))
	for _, l := range p.Items {
		items = append(items, leagueListingDTO{
			ExternalID:     l.ExternalID,
			Name:           l.Name,
			AgeGroup:       l.AgeGroupName,
			Gender:         l.Gender,
			FederationID:   l.FederationID,
			FederationName: l.FederationName,
			District:       l.DistrictName,
			Season:         l.SeasonName,
		})
	}

	out := leagueListingPageDTO{Items: items, StartAt: p.StartAt}
	if p.HasMore {
		next := p.NextStartAt()
		out.NextStart = &next
	}
	return out
}
