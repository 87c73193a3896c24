package viewport

import (
	"fmt"

	"github.com/matzehuels/issuegraph/pkg/diagram"
)

// State is the fit state of a view.
type State int

const (
	// NeedsFit zooms the next render to the bounding box.
	NeedsFit State = iota
	// Stable keeps the user's pan and zoom.
	Stable
	// SuppressedAfterDetailClose skips one fit because a detail panel moved
	// the view.
	SuppressedAfterDetailClose
)

func (s State) String() string {
	switch s {
	case NeedsFit:
		return "needs-fit"
	case Stable:
		return "stable"
	case SuppressedAfterDetailClose:
		return "suppressed-after-detail-close"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{NeedsFit, Stable, SuppressedAfterDetailClose} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown viewport state %q", string(b))
}

// Decision is the outcome of [Controller.Decide].
type Decision struct {
	// Fit is true when the view should zoom to Box.
	Fit bool `json:"fit"`
	// HasBox is false when the diagram had nothing to measure; a fit is
	// then a no-op.
	HasBox bool         `json:"hasBox"`
	Box    diagram.Rect `json:"box"`
}

// Controller tracks the fit state and the visible area of one view.
// It is not safe for concurrent use.
type Controller struct {
	state      State
	visible    diagram.Rect
	hasVisible bool
}

// NewController returns a controller in the NeedsFit state.
func NewController() *Controller {
	return &Controller{state: NeedsFit}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Decide is called after every render. It fits when the state is NeedsFit
// or when componentCount is exactly one, and moves to Stable either way.
func (c *Controller) Decide(d *diagram.Diagram, componentCount int) Decision {
	fit := c.state == NeedsFit || componentCount == 1
	c.state = Stable
	if !fit {
		return Decision{}
	}
	box, ok := BoundingBox(d)
	if ok {
		c.visible, c.hasVisible = box, true
	}
	return Decision{Fit: true, HasBox: ok, Box: box}
}

// NodeClicked records that a click opened a detail panel. Closing it
// triggers a render that must not refit.
func (c *Controller) NodeClicked() {
	if c.state == NeedsFit {
		c.state = SuppressedAfterDetailClose
	}
}

// DragEnded consumes a pending reload: the render it causes keeps the view.
func (c *Controller) DragEnded() {
	if c.state == NeedsFit {
		c.state = Stable
	}
}

// ReloadRequested asks for a fit on the next render, for example after a
// component was created.
func (c *Controller) ReloadRequested() {
	c.state = NeedsFit
}

// SetVisibleArea records the user's current view window.
func (c *Controller) SetVisibleArea(r diagram.Rect) {
	c.visible, c.hasVisible = r, true
}

// VisibleArea returns the last known view window.
func (c *Controller) VisibleArea() (diagram.Rect, bool) {
	return c.visible, c.hasVisible
}
