// Package surface applies a render tree to something a user can look at.
package surface

import "github.com/fr4nk3nst1ner/jobboard/internal/render"

// Surface is a live presentation substrate
type Surface interface {
	Apply(v render.View) error
}

// Form endpoints the DOM surface wires its controls to, and the form fields
// they post. PageField identifies the page load a form was posted from.
const (
	AddFilterPath    = "/filters/add"
	RemoveFilterPath = "/filters/remove"
	ClearFiltersPath = "/filters/clear"
	TagField         = "tag"
	PageField        = "page"
)
