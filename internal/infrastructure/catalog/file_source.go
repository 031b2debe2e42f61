package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/domain/catalog"
)

const (
	MetadataFile    = "clubs-metadata.json"
	DefaultChunkDir = "chunks"
)

// FileSource reads the generated club catalog: one metadata index plus
// fixed-size chunk files holding the full club records.
type FileSource struct {
	fsys     fs.FS
	chunkDir string
}

var _ catalog.Source = (*FileSource)(nil)

func NewFileSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys, chunkDir: DefaultChunkDir}
}

// flexID accepts ids encoded as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*f = flexID(data)
	return nil
}

type metadataFile struct {
	Metadata struct {
		TotalClubs  int    `json:"totalClubs"`
		ChunksCount int    `json:"chunksCount"`
		ChunkSize   int    `json:"chunkSize"`
		GeneratedAt string `json:"generatedAt"`
	} `json:"metadata"`
	Index map[string]struct {
		ChunkIndex int `json:"chunkIndex"`
	} `json:"index"`
	Chunks []struct {
		ChunkIndex int    `json:"chunkIndex"`
		File       string `json:"file"`
	} `json:"chunks"`
	Clubs []struct {
		ID            flexID `json:"id"`
		Name          string `json:"name"`
		ClubNumber    string `json:"vereinsnummer"`
		FederationIDs []int  `json:"verbandIds"`
		TeamCount     int    `json:"teamCount"`
	} `json:"clubs"`
}

type chunkFile struct {
	Metadata struct {
		ChunkIndex int `json:"chunkIndex"`
	} `json:"metadata"`
	Clubs []chunkClub `json:"clubs"`
}

type chunkClub struct {
	ClubID        flexID      `json:"clubId"`
	Name          string      `json:"vereinsname"`
	ClubNumber    string      `json:"vereinsnummer"`
	FederationIDs []int       `json:"verbaende"`
	Teams         []chunkTeam `json:"teams"`
}

type chunkTeam struct {
	PermanentID flexID `json:"teamPermanentId"`
	Name        string `json:"teamname"`
	ShortName   string `json:"teamnameSmall"`
	AgeGroup    string `json:"teamAkj"`
	Gender      string `json:"teamGender"`
	Seasons     []struct {
		SeasonID   int    `json:"seasonId"`
		SeasonName string `json:"seasonName"`
		Leagues    []struct {
			TeamCompetitionID flexID `json:"teamCompetitionId"`
			LeagueID          flexID `json:"ligaId"`
			LeagueName        string `json:"liganame"`
			AgeGroupName      string `json:"akName"`
			Gender            string `json:"geschlecht"`
		} `json:"ligen"`
	} `json:"seasons"`
}

func (s *FileSource) LoadIndex(ctx context.Context) (catalog.Index, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Index{}, err
	}

	raw, err := fs.ReadFile(s.fsys, MetadataFile)
	if err != nil {
		return catalog.Index{}, fmt.Errorf("read catalog index: %w", err)
	}
	var meta metadataFile
	if err := sonic.Unmarshal(raw, &meta); err != nil {
		return catalog.Index{}, fmt.Errorf("decode catalog index: %w", err)
	}

	chunkFiles := make(map[int]string, len(meta.Chunks))
	for _, c := range meta.Chunks {
		chunkFiles[c.ChunkIndex] = c.File
	}

	federations := make(map[int]struct{})
	entries := make([]catalog.IndexEntry, 0, len(meta.Clubs))
	for _, c := range meta.Clubs {
		clubID := string(c.ID)
		if clubID == "" {
			continue
		}
		detailFile := ""
		if pointer, ok := meta.Index[clubID]; ok {
			file := chunkFiles[pointer.ChunkIndex]
			if file == "" {
				file = fmt.Sprintf("clubs-chunk-%d.json", pointer.ChunkIndex)
			}
			detailFile = path.Join(s.chunkDir, file)
		}
		for _, id := range c.FederationIDs {
			federations[id] = struct{}{}
		}
		entries = append(entries, catalog.IndexEntry{
			ClubID:             clubID,
			Name:               c.Name,
			RegistrationNumber: c.ClubNumber,
			FederationIDs:      append([]int(nil), c.FederationIDs...),
			TeamCount:          c.TeamCount,
			DetailFile:         detailFile,
		})
	}

	federationIDs := make([]int, 0, len(federations))
	for id := range federations {
		federationIDs = append(federationIDs, id)
	}
	sort.Ints(federationIDs)

	var generatedAt time.Time
	if meta.Metadata.GeneratedAt != "" {
		if ts, err := time.Parse(time.RFC3339, meta.Metadata.GeneratedAt); err == nil {
			generatedAt = ts
		}
	}

	return catalog.Index{
		GeneratedAt:   generatedAt,
		TotalClubs:    meta.Metadata.TotalClubs,
		TotalChunks:   meta.Metadata.ChunksCount,
		ChunkSize:     meta.Metadata.ChunkSize,
		FederationIDs: federationIDs,
		Entries:       entries,
	}, nil
}

func (s *FileSource) LoadPartition(ctx context.Context, detailFile string) (catalog.Partition, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Partition{}, err
	}
	if !fs.ValidPath(detailFile) {
		return catalog.Partition{}, fmt.Errorf("invalid catalog partition path %q", detailFile)
	}

	raw, err := fs.ReadFile(s.fsys, detailFile)
	if err != nil {
		return catalog.Partition{}, fmt.Errorf("read catalog partition %s: %w", detailFile, err)
	}
	var chunk chunkFile
	if err := sonic.Unmarshal(raw, &chunk); err != nil {
		return catalog.Partition{}, fmt.Errorf("decode catalog partition %s: %w", detailFile, err)
	}

	clubs := make([]catalog.Club, 0, len(chunk.Clubs))
	for _, c := range chunk.Clubs {
		if c.ClubID == "" {
			continue
		}
		clubs = append(clubs, mapChunkClub(c))
	}
	return catalog.Partition{ID: chunk.Metadata.ChunkIndex, Clubs: clubs}, nil
}

func mapChunkClub(c chunkClub) catalog.Club {
	teams := make([]catalog.Team, 0, len(c.Teams))
	for _, t := range c.Teams {
		item := catalog.Team{
			PermanentID: string(t.PermanentID),
			Name:        t.Name,
			ShortName:   t.ShortName,
			AgeCategory: t.AgeGroup,
			Gender:      t.Gender,
			Leagues:     []catalog.LeagueRef{},
		}
		for _, season := range t.Seasons {
			for _, l := range season.Leagues {
				item.Leagues = append(item.Leagues, catalog.LeagueRef{
					TeamCompetitionID: string(l.TeamCompetitionID),
					SeasonID:          season.SeasonID,
					SeasonName:        season.SeasonName,
					LeagueID:          string(l.LeagueID),
					LeagueName:        l.LeagueName,
					AgeGroupName:      l.AgeGroupName,
					Gender:            l.Gender,
				})
			}
		}
		teams = append(teams, item)
	}

	return catalog.Club{
		ClubID:             string(c.ClubID),
		Name:               c.Name,
		RegistrationNumber: c.ClubNumber,
		FederationIDs:      append([]int(nil), c.FederationIDs...),
		Teams:              teams,
	}
}
