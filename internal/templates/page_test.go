package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Page(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestPage_Selects(t *testing.T) {
	html := render(t, PageData{
		HasLeague: true,
		Leagues:   []Option{{Value: "Serie A", Label: "Serie A", Selected: true}},
		Teams:     []Option{{Value: "Inter", Label: "Inter"}},
		Matches:   []Option{{Value: "Inter vs Napoli", Label: "Inter vs Napoli"}},
		Sigma:     6,
		SigmaMin:  3,
		SigmaMax:  15,
	})

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, `<option value="Serie A" selected>Serie A</option></select> <label for="team">`)
	assert.Contains(t, html, `<option value="Inter">Inter</option></select> <label for="match">`)
	assert.Contains(t, html, `min="3" max="15" step="1" value="6"`)
	assert.NotContains(t, html, `class="chart"`)
}

func TestPage_Chart(t *testing.T) {
	html := render(t, PageData{
		Show:        true,
		Heading:     "Inter vs Napoli — Match Momentum (RCI)",
		ChartURL:    "/chart?match=10&sigma=6",
		DownloadURL: "/chart?match=10&sigma=6&download=1",
	})

	assert.Contains(t, html, `<img class="chart" src="/chart?match=10&amp;sigma=6"`)
	assert.Contains(t, html, `<a href="/chart?match=10&amp;sigma=6&amp;download=1" download="match_momentum.png">`)
	assert.Contains(t, html, "<td>⚽</td><td><strong>Goal</strong></td>")
}

func TestPage_UnsafeDownloadURLIsEscaped(t *testing.T) {
	html := render(t, PageData{Show: true, DownloadURL: `/chart?x="><script>`})
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, `href="/chart?x=&#34;&gt;&lt;script&gt;"`)
}

func TestPage_Errors(t *testing.T) {
	html := render(t, PageData{Error: "No matches found for this team.", ChartError: "match 10 not found"})
	assert.Contains(t, html, `<p class="error">No matches found for this team.</p>`)
	assert.Contains(t, html, `<p class="error">match 10 not found</p>`)
	assert.NotContains(t, html, `id="match"`)
}
