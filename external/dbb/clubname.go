package dbb

import (
	"regexp"
	"strings"
)

// Team-name suffixes that distinguish squads of the same club. Stripping them
// is a best-effort guess at the club name and is not guaranteed to be right.
var clubNameSuffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s+[1-9]\d*$`),     // "TSV Neumarkt 2"
	regexp.MustCompile(`\s+[IVX]+$`),       // "TSV Neumarkt II"
	regexp.MustCompile(`\s+\d+\.$`),        // "TSV Neumarkt 2."
	regexp.MustCompile(`\s+[A-Z]$`),        // "TSV Neumarkt B"
	regexp.MustCompile(`\s+U\d{1,2}$`),     // "TSV Neumarkt U12"
	regexp.MustCompile(`\s+[mwMW]\d*$`),    // "TSV Neumarkt w2"
	regexp.MustCompile(`(?i)\s+mixed$`),    // "TSV Neumarkt mixed"
	regexp.MustCompile(`\s+\([^)]*\)$`),    // "TSV Neumarkt (Bezirk)"
}

// DeriveClubName guesses a club name from a team name. Known squad suffixes
// are stripped repeatedly; when none match, the first word is used.
func DeriveClubName(teamName string) string {
	name := strings.Join(strings.Fields(teamName), " ")
	if name == "" {
		return ""
	}

	stripped := name
	for {
		before := stripped
		for _, pattern := range clubNameSuffixPatterns {
			stripped = strings.TrimSpace(pattern.ReplaceAllString(stripped, ""))
		}
		if stripped == before || stripped == "" {
			break
		}
	}
	if stripped == "" {
		return name
	}
	if stripped != name {
		return stripped
	}

	if first, _, ok := strings.Cut(name, " "); ok {
		return first
	}
	return name
}

// isDegenerateClubName reports whether a club name carries no information
// beyond the team name.
func isDegenerateClubName(clubName, teamName string) bool {
	clubName = strings.TrimSpace(clubName)
	return clubName == "" || strings.EqualFold(clubName, strings.TrimSpace(teamName))
}
