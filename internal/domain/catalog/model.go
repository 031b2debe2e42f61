package catalog

import (
	"context"
	"strings"
	"time"
)

// Index is the lightweight listing of every club in the reference catalog.
// Full club records live in partitions referenced by IndexEntry.DetailFile.
type Index struct {
	GeneratedAt   time.Time
	TotalClubs    int
	TotalChunks   int
	ChunkSize     int
	FederationIDs []int
	Entries       []IndexEntry
}

type IndexEntry struct {
	ClubID             string
	Name               string
	RegistrationNumber string
	FederationIDs      []int
	TeamCount          int
	DetailFile         string
}

// InFederation reports whether the club is registered with federationID.
func (e IndexEntry) InFederation(federationID int) bool {
	for _, id := range e.FederationIDs {
		if id == federationID {
			return true
		}
	}
	return false
}

// MatchesName reports whether the lowercased query is a substring of the
// club name. An empty query matches every entry.
func (e IndexEntry) MatchesName(lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), lowerQuery)
}

type Partition struct {
	ID    int
	Clubs []Club
}

type Club struct {
	ClubID             string
	Name               string
	RegistrationNumber string
	FederationIDs      []int
	Teams              []Team
}

type Team struct {
	PermanentID string
	Name        string
	ShortName   string
	AgeCategory string
	Gender      string
	Leagues     []LeagueRef
}

// LeagueRef is a season-specific league participation of a catalog team.
type LeagueRef struct {
	TeamCompetitionID string
	SeasonID          int
	SeasonName        string
	LeagueID          string
	LeagueName        string
	AgeGroupName      string
	Gender            string
}

// Source reads the generated catalog files.
type Source interface {
	LoadIndex(ctx context.Context) (Index, error)
	LoadPartition(ctx context.Context, detailFile string) (Partition, error)
}
