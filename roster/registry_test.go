package roster

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
)

const cachedPage = `<html><body>
<table class="roster">
  <tr><th>Team</th><th>Region</th></tr>
  <tr data-id="t-1"><td class="team">Alpha Squad</td><td>EU</td></tr>
  <tr data-id="t-2"><td class="team"> Bravo Five </td><td>NA</td></tr>
  <tr data-id="t-2"><td class="team">Bravo Duplicate</td><td>NA</td></tr>
  <tr><td class="team">Charlie Club</td><td>OCE</td></tr>
</table>
<table class="other"><tr data-id="x"><td class="team">Not a team</td></tr></table>
</body></html>`

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"html", "synthetic"}, r.Names())

	_, err := r.New("esea-csgo", Options{})
	assert.ErrorIs(t, err, ErrUnknownGenerator)

	assert.Error(t, r.Register("synthetic", func(Options) (Generator, error) { return nil, nil }))
	assert.Error(t, r.Register("nil", nil))
}

type fixedGenerator []models.Competitor

func (f fixedGenerator) Generate(context.Context) ([]models.Competitor, error) {
	return f, nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fixed", func(Options) (Generator, error) {
		return fixedGenerator{{ID: "a", Name: "A"}}, nil
	}))
	assert.Contains(t, r.Names(), "fixed")

	g, err := r.New("fixed", Options{})
	require.NoError(t, err)
	got, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", got[0].Name)
}

func TestSynthetic(t *testing.T) {
	r := NewRegistry()
	g, err := r.New("synthetic", Options{Seed: 3, Count: 200})
	require.NoError(t, err)

	first, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 200)
	again, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, again)

	names := map[string]bool{}
	ids := map[string]bool{}
	for _, c := range first {
		assert.False(t, names[c.Name], "duplicate name %s", c.Name)
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		names[c.Name] = true
		ids[c.ID] = true
	}

	_, err = r.New("synthetic", Options{Count: 0})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RosterFile), []byte(cachedPage), 0o644))

	g, err := NewRegistry().New("html", Options{CacheDir: dir})
	require.NoError(t, err)
	got, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, models.Competitor{ID: "t-1", Name: "Alpha Squad"}, got[0])
	assert.Equal(t, models.Competitor{ID: "t-2", Name: "Bravo Five"}, got[1])
	assert.Equal(t, "Charlie Club", got[2].Name)
	assert.NotEmpty(t, got[2].ID)

	limited, err := NewHTML(dir, 2).Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestHTMLErrors(t *testing.T) {
	_, err := NewHTML(t.TempDir(), 0).Generate(context.Background())
	assert.Error(t, err)

	_, err = parseRoster(strings.NewReader("<table><tr><td>nothing</td></tr></table>"), 0)
	assert.Error(t, err)
}
