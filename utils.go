package league

import (
	"bytes"
	"fmt"
	"html/template"
	"reflect"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/tournament"
)

// GenerateLeagueHTML renders every division of a league, top tier first
func GenerateLeagueHTML(l *tournament.League) ([]byte, error) {
	var out []byte
	out = append(out, []byte("<h1>"+template.HTMLEscapeString(l.GetName())+"</h1>")...)

	divisions := l.GetDivisions()
	for i := len(divisions) - 1; i >= 0; i-- {
		h, err := GenerateDivisionHTML(divisions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, h...)
	}
	return out, nil
}

// GenerateDivisionHTML renders a division's conference tables, followed by its promotion brackets once the post-season has started
func GenerateDivisionHTML(d *tournament.Division) ([]byte, error) {
	var out []byte
	out = append(out, []byte(fmt.Sprintf("<h2>%s <small>%s</small></h2>", template.HTMLEscapeString(d.GetName()), d.Phase()))...)

	promoted := map[string]bool{}
	if r := d.GetReport(); r != nil {
		for _, c := range r.Promoted {
			promoted[c.ID] = true
		}
	} else {
		for _, c := range d.GetAutomaticPromotions() {
			promoted[c.ID] = true
		}
	}

	sections := []struct {
		conferences []*tournament.Conference
		playoff     bool
	}{
		{d.GetConferences(), false},
		{d.GetPromotionConferences(), true},
	}
	for _, section := range sections {
		for _, c := range section.conferences {
			t := Table{
				Name:       c.GetName(),
				Rows:       c.Standings(),
				Qualifiers: d.GetQualifiers(),
				Playoff:    section.playoff,
				Promoted:   promoted,
				TopTier:    d.IsTopTier(),
			}
			h, err := t.ToHTML()
			if err != nil {
				return nil, err
			}
			out = append(out, h...)

			f := Fixtures{Name: c.GetName(), Matches: c.GroupStage().Matches(), competitors: c.GetCompetitors()}
			h, err = f.ToHTML()
			if err != nil {
				return nil, err
			}
			out = append(out, h...)
		}
	}

	return out, nil
}

// Table is one conference's standings
type Table struct {
	Name       string
	Rows       []models.StandingsRow
	Qualifiers int
	Playoff    bool
	Promoted   map[string]bool
	TopTier    bool
}

const tableHTML = `
<table class="standings{{if .Playoff}} playoff{{end}}">
<caption>{{.Name}}</caption>
<tr><th>#</th><th>Team</th><th>P</th><th>W</th><th>D</th><th>L</th><th>GF</th><th>GA</th><th>GD</th><th>Pts</th></tr>
{{ range $i, $row := .Rows -}}
    <tr class="{{rowClass $row}}"><td>{{$row.Rank}}</td><td>{{$row.Competitor.Name}}</td><td>{{$row.Played}}</td><td>{{$row.Won}}</td><td>{{$row.Drawn}}</td><td>{{$row.Lost}}</td><td>{{$row.GoalsFor}}</td><td>{{$row.GoalsAgainst}}</td><td>{{signed $row.GoalDiff}}</td><td>{{$row.Points}}</td></tr>
{{ end }}</table>
`

func (t *Table) ToHTML() ([]byte, error) {
	funcMap := template.FuncMap{
		"rowClass": func(row models.StandingsRow) string {
			switch {
			case t.Promoted[row.Competitor.ID]:
				return "promoted"
			case t.TopTier || t.Playoff:
				return ""
			case row.Rank > 1 && row.Rank <= t.Qualifiers:
				return "playoff"
			}
			return ""
		},
		"signed": func(n int) string {
			if n > 0 {
				return fmt.Sprintf("+%d", n)
			}
			return fmt.Sprint(n)
		},
	}
	tmpl, err := template.New("table").Funcs(funcMap).Parse(tableHTML)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, t)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Fixtures is one conference's schedule, grouped by round
type Fixtures struct {
	Name        string
	Matches     []models.Match
	competitors []models.Competitor
}

const fixturesHTML = `
<div class="fixtures">
<h4>{{.Name}}</h4>
{{ range $i, $round := rounds -}}
    <ul class="round">
    {{ range $j, $m := $round -}}
        <li id="{{$m.ID}}" class="match{{if last $j $round}} match-bottom{{end}}{{if played $m}} played{{end}}">{{name $m.HomeID}} <span>{{if played $m}}{{deref $m.HomeScore}} - {{deref $m.AwayScore}}{{else}}v{{end}}</span> {{name $m.AwayID}}</li>
    {{ end -}}</ul>
{{ end }}</div>
`

func (f Fixtures) ToHTML() ([]byte, error) {
	names := map[string]string{}
	for _, c := range f.competitors {
		names[c.ID] = c.Name
	}

	funcMap := template.FuncMap{
		"last": func(x int, a interface{}) bool {
			return x == reflect.ValueOf(a).Len()-1
		},
		"rounds": func() [][]models.Match {
			var rounds [][]models.Match
			for _, m := range f.Matches {
				for len(rounds) < m.Round {
					rounds = append(rounds, nil)
				}
				rounds[m.Round-1] = append(rounds[m.Round-1], m)
			}
			return rounds
		},
		"played": func(m models.Match) bool {
			return models.IsComplete(m)
		},
		"name": func(id string) string {
			if n, ok := names[id]; ok {
				return n
			}
			return id
		},
		"deref": func(p *int) int {
			return *p
		},
	}
	tmpl, err := template.New("fixtures").Funcs(funcMap).Parse(fixturesHTML)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, f)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
