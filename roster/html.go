package roster

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/justinjudd/league/models"
)

// RosterFile is the cached page the HTML generator reads from its cache directory
const RosterFile = "roster.html"

// HTML reads team names out of a cached standings page. Every `table.roster` row with a `td.team` cell is a competitor;
// a `data-id` attribute on the row becomes the competitor ID, otherwise one is generated
type HTML struct {
	path  string
	count int
}

// NewHTML creates a generator reading cacheDir/roster.html. A positive count keeps only the first count teams
func NewHTML(cacheDir string, count int) *HTML {
	return &HTML{path: filepath.Join(cacheDir, RosterFile), count: count}
}

func (h *HTML) Generate(ctx context.Context) ([]models.Competitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cached roster: %w", err)
	}
	defer f.Close()

	return parseRoster(f, h.count)
}

func parseRoster(r io.Reader, count int) ([]models.Competitor, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	var out []models.Competitor
	seen := map[string]bool{}
	doc.Find("table.roster tr").EachWithBreak(func(i int, s *goquery.Selection) bool {
		name := strings.TrimSpace(s.Find("td.team").First().Text())
		if name == "" {
			return true
		}
		c := models.NewCompetitor(name)
		if id, ok := s.Attr("data-id"); ok && strings.TrimSpace(id) != "" {
			c.ID = strings.TrimSpace(id)
		}
		if seen[c.ID] {
			return true
		}
		seen[c.ID] = true
		out = append(out, c)
		return count <= 0 || len(out) < count
	})

	if len(out) == 0 {
		return nil, fmt.Errorf("could not find any teams in roster table")
	}
	return out, nil
}
