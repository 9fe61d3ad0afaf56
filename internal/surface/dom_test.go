package surface

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/render"
)

func engineer() models.JobRecord {
	return models.JobRecord{
		Title:          "Engineer",
		CompanyName:    "Acme",
		LogoURL:        "https://example.com/acme.png",
		EmploymentType: "Full-Time",
		LocationType:   "Remote",
		CreatedAtHuman: "2 days ago",
		TagNames:       []string{"Remote", "Full-Time"},
	}
}

func applied(t *testing.T, v render.View) *goquery.Document {
	t.Helper()
	dom, err := NewDOM()
	require.NoError(t, err)
	require.NoError(t, dom.Apply(v))

	out, err := dom.HTML()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func TestDOM_RendersCards(t *testing.T) {
	doc := applied(t, render.View{Content: render.JobCards([]models.JobRecord{engineer()})})

	cards := doc.Find(".cards .card")
	require.Equal(t, 1, cards.Length())

	src, _ := cards.Find("img").Attr("src")
	assert.Equal(t, "https://example.com/acme.png", src)
	assert.Equal(t, "Acme", cards.Find(".card__company").Text())
	assert.Equal(t, "Engineer", cards.Find(".card__title").Text())

	var meta []string
	cards.Find(".card__data li").Each(func(_ int, s *goquery.Selection) { meta = append(meta, s.Text()) })
	assert.Equal(t, []string{"Full-Time", "Remote", "2 days ago"}, meta)

	tags := cards.Find("button.card__tag")
	require.Equal(t, 2, tags.Length())
	assert.Equal(t, "Remote", tags.First().Text())
	value, _ := tags.First().Attr("value")
	assert.Equal(t, "Remote", value)
	action, _ := tags.First().Closest("form").Attr("action")
	assert.Equal(t, AddFilterPath, action)
}

func TestDOM_MessageReplacesCards(t *testing.T) {
	dom, err := NewDOM()
	require.NoError(t, err)
	require.NoError(t, dom.Apply(render.View{Content: render.JobCards([]models.JobRecord{engineer()})}))
	require.NoError(t, dom.Apply(render.View{Content: render.Message(render.ErrorMessage)}))

	doc := dom.Document()
	assert.Equal(t, 0, doc.Find(".card").Length())
	assert.Equal(t, "An error occurred", doc.Find(".cards p").Text())
}

func TestDOM_FilterPanelVisibility(t *testing.T) {
	visible := applied(t, render.View{
		Chips:              render.FilterChips([]string{"Remote", "Go"}),
		FilterPanelVisible: true,
	})
	assert.False(t, visible.Find("#filters").HasClass("hidden"))

	chips := visible.Find(".filter-list li")
	require.Equal(t, 2, chips.Length())
	assert.Equal(t, "Remote", chips.First().Find("span").Text())
	action, _ := chips.First().Find("form").Attr("action")
	assert.Equal(t, RemoveFilterPath, action)
	assert.Equal(t, 1, chips.First().Find(".btn-remove-filter").Length())

	hidden := applied(t, render.View{})
	assert.True(t, hidden.Find("#filters").HasClass("hidden"))
	assert.Equal(t, 0, hidden.Find(".filter-list li").Length())
}

func TestDOM_EscapesText(t *testing.T) {
	job := engineer()
	job.CompanyName = "<script>alert(1)</script>"

	dom, err := NewDOM()
	require.NoError(t, err)
	require.NoError(t, dom.Apply(render.View{Content: render.JobCards([]models.JobRecord{job})}))

	out, err := dom.HTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestTerminal_PrintsCardsAndFilters(t *testing.T) {
	var sb strings.Builder
	term := NewTerminal(&sb)

	err := term.Apply(render.View{
		Content:            render.JobCards([]models.JobRecord{engineer()}),
		Chips:              render.FilterChips([]string{"Remote"}),
		FilterPanelVisible: true,
	})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Engineer")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "Full-Time")
	assert.Contains(t, out, "Filters:")
	assert.Contains(t, out, "Showing 1 jobs")
}

func TestTerminal_PrintsMessage(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, NewTerminal(&sb).Apply(render.View{Content: render.Message(render.LoadingMessage)}))

	assert.Contains(t, sb.String(), "Loading...")
	assert.NotContains(t, sb.String(), "Filters:")
}

func TestDOM_FormsCarryPage(t *testing.T) {
	dom, err := NewDOM()
	require.NoError(t, err)
	dom.SetPage("page-1")

	view := render.View{
		Content:            render.JobCards([]models.JobRecord{engineer()}),
		Chips:              render.FilterChips([]string{"Remote"}),
		FilterPanelVisible: true,
	}
	require.NoError(t, dom.Apply(view))
	require.NoError(t, dom.Apply(view))

	forms := dom.Document().Find("form")
	require.Equal(t, 4, forms.Length(), "two tags, one chip, clear")
	forms.Each(func(_ int, f *goquery.Selection) {
		inputs := f.Find("input[name=page]")
		require.Equal(t, 1, inputs.Length())
		v, _ := inputs.Attr("value")
		assert.Equal(t, "page-1", v)
	})
}
