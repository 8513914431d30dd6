package provider

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"deebee/internal/httputil"
	"deebee/internal/media"
)

var (
	titleHrefPattern = regexp.MustCompile(`/title/(tt[0-9]+)`)
	leadingYear      = regexp.MustCompile(`^((?:19|20)[0-9]{2})`)
)

// parseFindResults extracts title matches from an IMDb find page.
// Uses DOM parsing instead of regexes on raw HTML.
func parseFindResults(doc *goquery.Document) []media.Metadata {
	var results []media.Metadata
	seen := make(map[string]bool)

	doc.Find("li.find-title-result, li.ipc-metadata-list-summary-item").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.ipc-metadata-list-summary-item__t").First()
		if link.Length() == 0 {
			link = s.Find(`a[href*="/title/tt"]`).First()
		}

		href, _ := link.Attr("href")
		id := extractID(href)
		title := strings.Join(strings.Fields(link.Text()), " ")
		if id == "" || title == "" || seen[id] {
			return
		}
		seen[id] = true

		result := media.Metadata{ID: id, Title: title}

		// First metadata label that starts with a year; series show ranges
		// like "2015–2022".
		s.Find(".ipc-metadata-list-summary-item__li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			if m := leadingYear.FindStringSubmatch(strings.TrimSpace(li.Text())); m != nil {
				result.Year = m[1]
				return false
			}
			return true
		})

		results = append(results, result)
	})

	return results
}

// extractID pulls a validated IMDb title ID out of a result link.
func extractID(href string) string {
	m := titleHrefPattern.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	if err := httputil.ValidateIMDbID(m[1]); err != nil {
		return ""
	}
	return m[1]
}
