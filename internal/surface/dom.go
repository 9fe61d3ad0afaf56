package surface

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fr4nk3nst1ner/jobboard/internal/render"
)

//go:embed page.html
var pageHTML string

const hiddenClass = "hidden"

// DOM holds one parsed copy of the board page and rewrites it in place
type DOM struct {
	doc  *goquery.Document
	page string
}

// NewDOM parses a fresh copy of the page
func NewDOM() (*DOM, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &DOM{doc: doc}, nil
}

// Document exposes the underlying document
func (d *DOM) Document() *goquery.Document {
	return d.doc
}

// SetPage makes every form on the page post id in PageField
func (d *DOM) SetPage(id string) {
	d.page = id
}

// Apply replaces the card area and the chip list and sets the filter panel
// visibility
func (d *DOM) Apply(v render.View) error {
	cards := d.doc.Find(".cards")
	list := d.doc.Find(".filter-list")
	panel := d.doc.Find("#filters")
	if cards.Length() == 0 || list.Length() == 0 || panel.Length() == 0 {
		return fmt.Errorf("page is missing a board container")
	}

	cards.Empty()
	if v.Content.IsMessage() {
		p := element("p", "class", "cards__message")
		p.AppendChild(text(v.Content.Message))
		cards.AppendNodes(p)
	} else {
		for _, c := range v.Content.Cards {
			cards.AppendNodes(cardNode(c))
		}
	}

	list.Empty()
	for _, chip := range v.Chips {
		list.AppendNodes(chipNode(chip))
	}

	if v.FilterPanelVisible {
		panel.RemoveClass(hiddenClass)
	} else {
		panel.AddClass(hiddenClass)
	}

	if d.page != "" {
		forms := d.doc.Find("form")
		forms.Find("input[name=" + PageField + "]").Remove()
		forms.AppendNodes(element("input", "type", "hidden", "name", PageField, "value", d.page))
	}
	return nil
}

// HTML serialises the whole page
func (d *DOM) HTML() (string, error) {
	return d.doc.Html()
}

func cardNode(c render.Card) *html.Node {
	card := element("article", "class", "card")
	card.AppendChild(element("img", "src", c.ImageSrc, "alt", c.Company))

	body := element("div", "class", "card__body")
	company := element("p", "class", "card__company")
	company.AppendChild(text(c.Company))
	title := element("h2", "class", "card__title")
	title.AppendChild(text(c.Title))
	meta := element("ul", "class", "card__data")
	for _, m := range c.Meta {
		li := element("li")
		li.AppendChild(text(m))
		meta.AppendChild(li)
	}
	appendChildren(body, company, title, meta)

	tags := element("ul", "class", "card__tags")
	for _, tag := range c.Tags {
		li := element("li")
		li.AppendChild(actionForm(tag.OnActivate, "card__tag", tag.Text))
		tags.AppendChild(li)
	}

	appendChildren(card, body, tags)
	return card
}

func chipNode(chip render.FilterChip) *html.Node {
	li := element("li")
	span := element("span")
	span.AppendChild(text(chip.Text))
	appendChildren(li, span, actionForm(chip.Remove, "btn-remove-filter", "×"))
	return li
}

// actionForm is a one-button form posting the action to its endpoint
func actionForm(a render.Action, class, label string) *html.Node {
	form := element("form", "method", "post", "action", actionPath(a))
	button := element("button", "class", class, "type", "submit", "name", TagField, "value", a.Tag)
	button.AppendChild(text(label))
	form.AppendChild(button)
	return form
}

func actionPath(a render.Action) string {
	switch a.Kind {
	case render.ActionAddFilter:
		return AddFilterPath
	case render.ActionRemoveFilter:
		return RemoveFilterPath
	default:
		return ClearFiltersPath
	}
}

func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendChildren(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}
