package dbb

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

// ErrMalformedEnvelope is returned when a payload is not a JSON object or
// the envelope reports a failure status.
var ErrMalformedEnvelope = crerr.New("malformed dbb envelope")

var (
	resultRegex     = regexp.MustCompile(`^\s*(\d+)\s*:\s*(\d+)\s*$`)
	postalCityRegex = regexp.MustCompile(`^(\d{5})\s+(.+)$`)
)

// decodeEnvelope unwraps {status, message, data}. Payloads without a data
// member are treated as bare data objects.
func decodeEnvelope(raw []byte) (map[string]any, error) {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, crerr.Wrapf(ErrMalformedEnvelope, "decode json: %v", err)
	}
	root, ok := decoded.(map[string]any)
	if !ok {
		return nil, crerr.Wrapf(ErrMalformedEnvelope, "expected object, got %T", decoded)
	}

	if status := getString(root, "status"); status != "" && !isSuccessStatus(status) {
		return nil, crerr.Wrapf(ErrMalformedEnvelope, "status=%s message=%s", status, getString(root, "message"))
	}

	rawData, hasData := root["data"]
	if !hasData {
		return root, nil
	}
	if rawData == nil {
		return map[string]any{}, nil
	}
	data, ok := rawData.(map[string]any)
	if !ok {
		return nil, crerr.Wrapf(ErrMalformedEnvelope, "expected data object, got %T", rawData)
	}
	return data, nil
}

func isSuccessStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "0", "200", "ok", "success":
		return true
	default:
		return false
	}
}

// MapStandings maps a league table payload. Both the flat shape (teams[] with
// platzierung, gewonnen, ...) and the nested shape (entries[] with team{...})
// are accepted; entries without a team name are dropped.
func MapStandings(raw []byte) (usecase.ExternalStandings, error) {
	data, err := decodeEnvelope(raw)
	if err != nil {
		return usecase.ExternalStandings{}, err
	}

	ligaData := getMap(data, "ligaData")
	out := usecase.ExternalStandings{
		League: usecase.ExternalLeagueMeta{
			ExternalID: firstNonEmpty(getID(data, "ligaId"), getID(ligaData, "ligaId")),
			Name:       firstNonEmpty(getString(data, "liganame"), getString(ligaData, "liganame")),
		},
	}

	rows := getSlice(data, "teams")
	if len(rows) == 0 {
		rows = getSlice(getMap(data, "tabelle"), "entries")
	}
	if len(rows) == 0 {
		rows = getSlice(data, "entries")
	}

	out.Teams = make([]usecase.ExternalTeamEntry, 0, len(rows))
	for _, item := range rows {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry, ok := mapStandingRow(row)
		if !ok {
			continue
		}
		out.Teams = append(out.Teams, entry)
	}

	return out, nil
}

func mapStandingRow(row map[string]any) (usecase.ExternalTeamEntry, bool) {
	var entry usecase.ExternalTeamEntry
	if team := getMap(row, "team"); team != nil {
		entry = usecase.ExternalTeamEntry{
			ExternalTeamID: firstNonEmpty(getID(team, "seasonTeamId"), getID(team, "teamPermanentId")),
			Name:           getString(team, "teamname"),
			ExternalClubID: getID(team, "clubId"),
			ClubName:       getString(team, "clubName"),
			Rank:           getIntAny(row, "rang", "position"),
			Games:          getIntAny(row, "anzspiele", "games"),
			Wins:           getIntAny(row, "s", "wins"),
			Losses:         getIntAny(row, "n", "losses"),
			Points:         getIntAny(row, "anzGewinnpunkte", "points"),
			ScoredPoints:   getIntAny(row, "koerbe", "scoredPoints"),
			ConcededPoints: getIntAny(row, "gegenKoerbe", "concededPoints"),
			PointsDiff:     getIntAny(row, "korbdiff", "pointsDifference"),
			HomeWins:       getInt(row, "siegeHeim"),
			HomeLosses:     getInt(row, "niederlagenHeim"),
			AwayWins:       getInt(row, "siegeAuswaerts"),
			AwayLosses:     getInt(row, "niederlagenAuswaerts"),
		}
	} else {
		entry = usecase.ExternalTeamEntry{
			ExternalTeamID: getID(row, "teamId"),
			Name:           firstNonEmpty(getString(row, "teamname"), getString(row, "teamName")),
			ExternalClubID: getID(row, "clubId"),
			ClubName:       getString(row, "clubName"),
			Rank:           getIntAny(row, "platzierung", "position"),
			Games:          getIntAny(row, "spiele", "games"),
			Wins:           getIntAny(row, "gewonnen", "wins"),
			Losses:         getIntAny(row, "verloren", "losses"),
			Points:         getIntAny(row, "punkte", "points"),
			ScoredPoints:   getIntAny(row, "korbpunkteGemacht", "scoredPoints"),
			ConcededPoints: getIntAny(row, "korbpunkteGegen", "concededPoints"),
			PointsDiff:     getIntAny(row, "differenz", "pointsDifference"),
			HomeWins:       getInt(row, "siegeHeim"),
			HomeLosses:     getInt(row, "niederlagenHeim"),
			AwayWins:       getInt(row, "siegeAuswaerts"),
			AwayLosses:     getInt(row, "niederlagenAuswaerts"),
		}
	}

	if entry.Name == "" {
		return usecase.ExternalTeamEntry{}, false
	}
	if entry.ExternalClubID == "" {
		entry.ExternalClubID = entry.ExternalTeamID
	}
	if isDegenerateClubName(entry.ClubName, entry.Name) {
		entry.ClubName = DeriveClubName(entry.Name)
	}
	return entry, true
}

// MapSchedule maps a league schedule payload (spielplan[] or matches[]).
// Entries without a game id cannot be matched on re-sync and are dropped.
func MapSchedule(raw []byte) ([]usecase.ExternalGameEntry, error) {
	data, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	rows := getSlice(data, "spielplan")
	if len(rows) == 0 {
		rows = getSlice(data, "matches")
	}
	if len(rows) == 0 {
		rows = getSlice(data, "games")
	}

	out := make([]usecase.ExternalGameEntry, 0, len(rows))
	for _, item := range rows {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := mapScheduleRow(row)
		if entry.ExternalGameID == "" {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func mapScheduleRow(row map[string]any) usecase.ExternalGameEntry {
	home := getMap(row, "homeTeam")
	guest := getMap(row, "guestTeam")

	entry := usecase.ExternalGameEntry{
		ExternalGameID:     firstNonEmpty(getID(row, "spielid"), getID(row, "matchId")),
		Matchday:           getIntAny(row, "tag", "matchDay"),
		Number:             getIntAny(row, "nr", "matchNo"),
		Date:               normalizeDate(firstNonEmpty(getString(row, "datum"), getString(row, "kickoffDate"))),
		Time:               normalizeTime(firstNonEmpty(getString(row, "uhrzeit"), getString(row, "kickoffTime"))),
		HomeExternalTeamID: firstNonEmpty(getID(row, "heimteamid"), getID(home, "seasonTeamId")),
		AwayExternalTeamID: firstNonEmpty(getID(row, "gastteamid"), getID(guest, "seasonTeamId")),
		HomeTeamName:       firstNonEmpty(getString(row, "heimteamname"), getString(home, "teamname")),
		AwayTeamName:       firstNonEmpty(getString(row, "gastteamname"), getString(guest, "teamname")),
		VenueName:          venueName(row),
		Cancelled:          getBool(row, "verzicht") || getBool(row, "abgesagt"),
	}

	if home, away, ok := parseResult(firstNonEmpty(getString(row, "result"), getString(row, "ergebnis"))); ok {
		entry.HomeScore, entry.AwayScore = &home, &away
	} else if home, hasHome := getOptionalInt(row, "heimTore"); hasHome {
		if away, hasAway := getOptionalInt(row, "gastTore"); hasAway {
			entry.HomeScore, entry.AwayScore = &home, &away
		}
	}

	return entry
}

func venueName(row map[string]any) string {
	for _, key := range []string{"halle", "venue", "spielfeld"} {
		switch v := row[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case map[string]any:
			if name := firstNonEmpty(getString(v, "bezeichnung"), getString(v, "name")); name != "" {
				return name
			}
		}
	}
	return ""
}

// MapGameDetail maps a single game's matchInfo payload.
func MapGameDetail(externalGameID string, raw []byte) (usecase.ExternalGameDetail, error) {
	data, err := decodeEnvelope(raw)
	if err != nil {
		return usecase.ExternalGameDetail{}, err
	}

	out := usecase.ExternalGameDetail{ExternalGameID: externalGameID}
	out.VenueName, out.VenueStreet, out.VenuePostalCode, out.VenueCity = splitVenueAddress(getString(data, "ort"))

	if home, ok := getOptionalInt(data, "heimErgebnis"); ok {
		if away, ok := getOptionalInt(data, "gastErgebnis"); ok {
			out.HomeScore, out.AwayScore = &home, &away
		}
	}

	for _, key := range []string{"schiedsrichter1", "schiedsrichter2", "schiedsrichter3"} {
		if name := getString(data, key); name != "" {
			out.Referees = append(out.Referees, name)
		}
	}
	out.HomeRoster = mapRoster(getMap(data, "homeTeam"))
	out.AwayRoster = mapRoster(getMap(data, "awayTeam"))
	return out, nil
}

// mapRoster reads the team id and player list of one side of a match info
// payload. Players without an id are dropped.
func mapRoster(side map[string]any) usecase.ExternalRoster {
	out := usecase.ExternalRoster{
		ExternalTeamID: firstNonEmpty(getID(side, "teamPermanentId"), getID(side, "teamId")),
	}
	for _, item := range getSlice(side, "players") {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		playerID := getID(row, "playerId")
		if playerID == "" {
			continue
		}
		p := usecase.ExternalPlayer{
			ExternalPlayerID: playerID,
			FirstName:        getString(row, "firstName"),
			LastName:         getString(row, "lastName"),
			LicenseSuffix:    getString(row, "tnaNumber"),
		}
		if jersey, ok := getOptionalInt(row, "jerseyNumber"); ok && jersey >= 0 {
			p.JerseyNumber = &jersey
		}
		out.Players = append(out.Players, p)
	}
	return out
}

// splitVenueAddress splits "Halle, Straße 1, 92318 Neumarkt" into its parts.
func splitVenueAddress(raw string) (name, street, postalCode, city string) {
	parts := strings.Split(raw, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i == 0 {
			name = part
			continue
		}
		if m := postalCityRegex.FindStringSubmatch(part); m != nil {
			postalCode, city = m[1], strings.TrimSpace(m[2])
			continue
		}
		if street == "" {
			street = part
		}
	}
	return name, street, postalCode, city
}

// MapLeagueListing maps one page of the country-wide league listing and
// reports whether more pages follow.
func MapLeagueListing(raw []byte) ([]usecase.ExternalLeagueListing, bool, error) {
	data, err := decodeEnvelope(raw)
	if err != nil {
		return nil, false, err
	}

	listing := getMap(data, "ligaListe")
	rows := getSlice(listing, "ligen")
	out := make([]usecase.ExternalLeagueListing, 0, len(rows))
	for _, item := range rows {
		row, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := getID(row, "ligaId")
		if id == "" {
			continue
		}
		out = append(out, usecase.ExternalLeagueListing{
			ExternalID:     id,
			Name:           getString(row, "liganame"),
			AgeGroupName:   getString(row, "akName"),
			Gender:         getString(row, "geschlecht"),
			FederationID:   getInt(row, "verbandId"),
			FederationName: getString(row, "verbandName"),
			DistrictName:   getString(row, "bezirkName"),
			SeasonName:     getString(row, "seasonName"),
		})
	}
	return out, getBool(listing, "hasMoreData"), nil
}

func parseResult(raw string) (int, int, bool) {
	m := resultRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	home, errHome := strconv.Atoi(m[1])
	away, errAway := strconv.Atoi(m[2])
	if errHome != nil || errAway != nil {
		return 0, 0, false
	}
	return home, away, true
}

// normalizeDate accepts ISO dates and German dd.mm.yyyy dates.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "02.01.2006", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	if len(raw) >= 10 {
		if parsed, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return raw
}

func normalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("15:04")
		}
	}
	return raw
}

func getMap(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	v, _ := src[key].(map[string]any)
	return v
}

func getSlice(src map[string]any, key string) []any {
	if src == nil {
		return nil
	}
	v, _ := src[key].([]any)
	return v
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch v := src[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// getID reads a numeric or string id and returns it in decimal form. Zero
// and negative ids are treated as absent.
func getID(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch v := src[key].(type) {
	case float64:
		if v <= 0 {
			return ""
		}
		return strconv.FormatInt(int64(v), 10)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == "0" {
			return ""
		}
		return trimmed
	default:
		return ""
	}
}

func getInt(src map[string]any, key string) int {
	v, _ := getOptionalInt(src, key)
	return v
}

func getIntAny(src map[string]any, keys ...string) int {
	for _, key := range keys {
		if v, ok := getOptionalInt(src, key); ok {
			return v
		}
	}
	return 0
}

func getOptionalInt(src map[string]any, key string) (int, bool) {
	if src == nil {
		return 0, false
	}
	switch v := src[key].(type) {
	case float64:
		return int(v), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func getBool(src map[string]any, key string) bool {
	if src == nil {
		return false
	}
	switch v := src[key].(type) {
	case bool:
		return v
	case string:
		parsed, _ := strconv.ParseBool(strings.TrimSpace(v))
		return parsed
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
