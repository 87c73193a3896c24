package interaction

import (
	"encoding/json"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/errors"
)

// Source tells user gestures from programmatic graph changes.
type Source string

const (
	SourceUser Source = "user"
	SourceAPI  Source = "API"
)

// EventType is the wire discriminator of an event.
type EventType string

const (
	TypeNodeClick      EventType = "nodeClick"
	TypeNodeDragEnd    EventType = "nodeDragEnd"
	TypeViewportChange EventType = "viewportChange"
	TypeEdgeRetarget   EventType = "edgeRetarget"
	TypeEdgeAdd        EventType = "edgeAdd"
	TypeEdgeDrop       EventType = "edgeDrop"
	TypeEdgeRemove     EventType = "edgeRemove"
)

// Event is one diagram gesture. The set of implementations is closed.
type Event interface {
	Type() EventType
	EventSource() Source
}

// Meta holds the fields every event shares.
type Meta struct {
	Source Source `json:"source"`
}

// EventSource returns the event source. An empty source counts as a user.
func (m Meta) EventSource() Source {
	if m.Source == "" {
		return SourceUser
	}
	return m.Source
}

func (m Meta) fromAPI() bool { return m.Source == SourceAPI }

// NodeClick is a click on a node.
type NodeClick struct {
	Meta
	NodeID string `json:"nodeId"`
	Shift  bool   `json:"shift,omitempty"`
	// Handset is set by clients on phone-sized screens.
	Handset bool `json:"handset,omitempty"`
}

// NodeDragEnd is the release of a dragged node. Side is reported for
// containers; when it is empty the side nearest to Position is used.
type NodeDragEnd struct {
	Meta
	NodeID   string        `json:"nodeId"`
	Position diagram.Point `json:"position"`
	Side     diagram.Side  `json:"side,omitempty"`
}

// ViewportChange reports the visible window after a pan or zoom.
type ViewportChange struct {
	Meta
	Area diagram.Rect `json:"area"`
}

// EdgeRetarget reports that the free end of a dragged edge moved onto a new
// target. TargetNodeID is empty when the end is over empty canvas.
type EdgeRetarget struct {
	Meta
	Edge         DraggedEdge `json:"edge"`
	SourceNodeID string      `json:"sourceNodeId"`
	TargetNodeID string      `json:"targetNodeId,omitempty"`
}

// EdgeAdd reports a completed edge the widget is about to add.
type EdgeAdd struct {
	Meta
	Edge diagram.Edge `json:"edge"`
}

// EdgeDrop reports a dragged edge released over empty canvas.
type EdgeDrop struct {
	Meta
	Edge         DraggedEdge   `json:"edge"`
	DropPosition diagram.Point `json:"dropPosition"`
}

// EdgeRemove reports an edge the widget is about to remove.
type EdgeRemove struct {
	Meta
	Edge diagram.Edge `json:"edge"`
}

func (NodeClick) Type() EventType      { return TypeNodeClick }
func (NodeDragEnd) Type() EventType    { return TypeNodeDragEnd }
func (ViewportChange) Type() EventType { return TypeViewportChange }
func (EdgeRetarget) Type() EventType   { return TypeEdgeRetarget }
func (EdgeAdd) Type() EventType        { return TypeEdgeAdd }
func (EdgeDrop) Type() EventType       { return TypeEdgeDrop }
func (EdgeRemove) Type() EventType     { return TypeEdgeRemove }

// EdgeRole is what a dragged edge will become when completed.
type EdgeRole string

const (
	RoleNone EdgeRole = ""
	// RoleConsumer edges make the source component consume the target
	// interface.
	RoleConsumer EdgeRole = "consumer"
	// RoleNewInterface edges create a new interface offered by the source
	// component.
	RoleNewInterface EdgeRole = "new-interface"
)

// DraggedEdge is an edge whose end is being dragged.
type DraggedEdge struct {
	diagram.Edge
	Role EdgeRole `json:"role,omitempty"`
	// CreatedFrom is the ID of the existing edge the drag started from, if
	// any.
	CreatedFrom string `json:"createdFrom,omitempty"`
}

// DecodeEvent parses a JSON event with a "type" discriminator.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type   EventType `json:"type"`
		Source Source    `json:"source"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "malformed event")
	}
	switch head.Source {
	case "", SourceUser, SourceAPI:
	default:
		return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event source %q", head.Source)
	}

	var ev Event
	var err error
	switch head.Type {
	case TypeNodeClick:
		ev, err = decodeAs[NodeClick](data)
	case TypeNodeDragEnd:
		ev, err = decodeAs[NodeDragEnd](data)
	case TypeViewportChange:
		ev, err = decodeAs[ViewportChange](data)
	case TypeEdgeRetarget:
		ev, err = decodeAs[EdgeRetarget](data)
	case TypeEdgeAdd:
		ev, err = decodeAs[EdgeAdd](data)
	case TypeEdgeDrop:
		ev, err = decodeAs[EdgeDrop](data)
	case TypeEdgeRemove:
		ev, err = decodeAs[EdgeRemove](data)
	case "":
		return nil, errors.New(errors.ErrCodeInvalidEvent, "event type is required")
	default:
		return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", head.Type)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode %s event", head.Type)
	}
	return ev, nil
}

func decodeAs[T Event](data []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// EncodeEvent writes ev as JSON with its "type" discriminator.
func EncodeEvent(ev Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typ, _ := json.Marshal(ev.Type())
	fields["type"] = typ
	return json.Marshal(fields)
}
