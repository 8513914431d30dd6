// Package naming turns raw media filenames into search queries.
//
// Parsing is deterministic: an episode marker is cut out first, then scene
// separators and junk characters are normalized, trailing release tags are
// dropped, and (for episodes only) stray years are removed.
package naming

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"deebee/internal/media"
)

// episodeRule is one season/episode marker shape. Rules are evaluated in
// order by [Parse]; first match wins.
type episodeRule struct {
	Name    string
	Pattern *regexp.Regexp
}

var episodeRules = []episodeRule{
	{"SxxExx", regexp.MustCompile(`(?i)\bS(?P<season>\d{1,3})[ ._-]*E(?P<episode>\d{1,3})\b`)},
	{"NxNN", regexp.MustCompile(`(?i)\b(?P<season>\d{1,3})x(?P<episode>\d{1,3})\b`)},
	{"season-episode", regexp.MustCompile(`(?i)\bseason[ ._-]*(?P<season>\d{1,3})[ ._-]*(?:episode|ep)[ ._-]*(?P<episode>\d{1,3})\b`)},
}

var (
	reTrailingSeps = regexp.MustCompile(`[\s._-]+$`)
	reYear         = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	reResolution   = regexp.MustCompile(`^\d{3,4}p$`)
)

// releaseTags is the trailing vocabulary dropped from queries. Tokens are
// compared lowercased with hyphens removed, so "WEB-DL" matches "webdl".
var releaseTags = map[string]bool{
	"480p": true, "720p": true, "1080p": true, "2160p": true,
	"webdl": true, "webrip": true, "web": true, "hdtv": true, "hdrip": true,
	"bluray": true, "brrip": true, "dvdrip": true, "hdr": true,
	"x264": true, "x265": true, "h264": true, "h265": true, "hevc": true,
	"proper": true, "repack": true, "extended": true, "unrated": true, "remux": true,
	"aac": true, "ac3": true, "dts": true, "ddp": true, "atmos": true,
}

// Parse extracts a search query and optional episode number from a file
// stem (the filename without its extension). An empty Query is a valid
// result meaning nothing searchable was left.
func Parse(stem string) media.SearchQuery {
	base := stem
	var episode *media.EpisodeNumber

	for _, rule := range episodeRules {
		m := rule.Pattern.FindStringSubmatchIndex(base)
		if m == nil {
			continue
		}
		season := submatch(base, m, rule.Pattern.SubexpIndex("season"))
		number := submatch(base, m, rule.Pattern.SubexpIndex("episode"))
		episode = &media.EpisodeNumber{Season: season, Episode: number}
		base = base[:m[0]] + base[m[1]:]
		base = reTrailingSeps.ReplaceAllString(base, "")
		break
	}

	query := strings.ReplaceAll(base, ".", " ")
	query = reInvalidChars.ReplaceAllString(query, " ")
	query = collapseSpaces(query)
	query = stripReleaseTags(query)

	if episode != nil {
		query = reYear.ReplaceAllString(query, " ")
		query = collapseSpaces(query)
	}

	return media.SearchQuery{Query: strings.TrimSpace(query), Episode: episode}
}

// ParseFile parses the stem of path.
func ParseFile(path string) media.SearchQuery {
	return Parse(Stem(path))
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func submatch(s string, loc []int, group int) int {
	n, _ := strconv.Atoi(s[loc[2*group]:loc[2*group+1]])
	return n
}

// stripReleaseTags drops whitespace-separated tokens from the end of s
// while they look like release metadata.
func stripReleaseTags(s string) string {
	tokens := strings.Fields(s)
	for len(tokens) > 0 && isReleaseTag(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

func isReleaseTag(token string) bool {
	normalized := strings.ReplaceAll(strings.ToLower(token), "-", "")
	if reResolution.MatchString(normalized) {
		return true
	}
	if rest, ok := strings.CutPrefix(normalized, "ddp"); ok {
		if digits := strings.ReplaceAll(rest, ".", ""); digits != "" && isDigits(digits) {
			return true
		}
	}
	return releaseTags[normalized]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
