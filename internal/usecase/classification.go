package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AgeCategorySeniors covers adult competitions (Herren, Damen, Senioren).
const AgeCategorySeniors = "Senioren"

var (
	ageCategoryRegex = regexp.MustCompile(`\bU(\d{1,2})\b`)
	seniorsRegex     = regexp.MustCompile(`(?i)\b(Herren|Damen|Senioren)\b`)
	seasonRegex      = regexp.MustCompile(`(\d{4})[/-](\d{2,4})`)
)

var validAgeCategories = map[string]struct{}{
	"U7": {}, "U8": {}, "U9": {}, "U10": {}, "U11": {}, "U12": {}, "U13": {}, "U14": {},
	"U15": {}, "U16": {}, "U17": {}, "U18": {}, "U19": {}, "U20": {}, "U21": {}, "U23": {},
}

// AgeCategoryFromName extracts a youth age group or the seniors category
// from a league or team name.
func AgeCategoryFromName(name string) (string, bool) {
	if m := ageCategoryRegex.FindStringSubmatch(name); m != nil {
		candidate := "U" + m[1]
		if _, ok := validAgeCategories[candidate]; ok {
			return candidate, true
		}
	}
	if seniorsRegex.MatchString(name) {
		return AgeCategorySeniors, true
	}
	return "", false
}

// LeagueAgeCategory never fails; unknown league names count as seniors.
func LeagueAgeCategory(leagueName string) string {
	if category, ok := AgeCategoryFromName(leagueName); ok {
		return category
	}
	return AgeCategorySeniors
}

// TeamAgeCategory prefers the team's own name because a squad may play up
// in an older league.
func TeamAgeCategory(teamName, leagueCategory string) string {
	if category, ok := AgeCategoryFromName(teamName); ok {
		return category
	}
	return leagueCategory
}

// NormalizeAgeCategory validates user input such as "u10" or "Damen".
func NormalizeAgeCategory(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if upper := strings.ToUpper(trimmed); upper != "" {
		if _, ok := validAgeCategories[upper]; ok {
			return upper, nil
		}
	}
	if seniorsRegex.MatchString(trimmed) {
		return AgeCategorySeniors, nil
	}
	return "", fmt.Errorf("%w: unknown age category %q", ErrInvalidInput, raw)
}

// SeasonFromName reads an explicit season such as "2024/25" or "2024-2025"
// from a league name and returns it as "2024/2025".
func SeasonFromName(name string) (string, bool) {
	m := seasonRegex.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	season, err := NormalizeSeason(m[1] + "/" + m[2])
	if err != nil {
		return "", false
	}
	return season, true
}

// CurrentSeason returns the season running at now. Seasons start in August.
func CurrentSeason(now time.Time) string {
	start := now.Year()
	if now.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%d/%d", start, start+1)
}

// NormalizeSeason accepts "2025/26", "2025-2026" and "2025/2026".
func NormalizeSeason(raw string) (string, error) {
	m := seasonRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", fmt.Errorf("%w: season %q must look like 2025/2026", ErrInvalidInput, raw)
	}

	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if len(m[2]) == 2 {
		end += start / 100 * 100
		if end < start {
			end += 100
		}
	}
	if end != start+1 {
		return "", fmt.Errorf("%w: season %q must span two consecutive years", ErrInvalidInput, raw)
	}
	return fmt.Sprintf("%d/%d", start, end), nil
}
