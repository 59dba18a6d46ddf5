package model

import "encoding/json"

// ElementType tags one node of a content body tree. Values outside the
// predefined set are treated as custom block types; only wrappers may carry
// children and only references point at other content items.
type ElementType string

const (
	ElementText      ElementType = "text"
	ElementMedia     ElementType = "media"
	ElementHTML      ElementType = "html"
	ElementJSON      ElementType = "json"
	ElementXML       ElementType = "xml"
	ElementSVG       ElementType = "svg"
	ElementKatex     ElementType = "katex"
	ElementWrapper   ElementType = "wrapper"
	ElementReference ElementType = "reference"
)

// Element is one node of a content item's body. Children are owned by value:
// a node lives inside exactly one parent slice, so the structure cannot form
// cycles. The Data payload is opaque to this engine and validated elsewhere.
type Element struct {
	ID       string          `json:"id"`
	Type     ElementType     `json:"type"`
	Order    int             `json:"order"`
	Data     json.RawMessage `json:"data,omitempty"`
	Children []Element       `json:"children,omitempty"`
	Editions []string        `json:"editions,omitempty"`
}

func (e *Element) IsWrapper() bool {
	return e.Type == ElementWrapper
}

func (e *Element) IsReference() bool {
	return e.Type == ElementReference
}

// VisibleIn reports element-level edition visibility: an element with no
// edition tags inherits the content item's visibility.
func (e *Element) VisibleIn(edition string) bool {
	if len(e.Editions) == 0 {
		return true
	}
	for _, tag := range e.Editions {
		if tag == edition {
			return true
		}
	}
	return false
}

func (e *Element) Clone() Element {
	out := Element{
		ID:    e.ID,
		Type:  e.Type,
		Order: e.Order,
	}
	if len(e.Data) > 0 {
		out.Data = make(json.RawMessage, len(e.Data))
		copy(out.Data, e.Data)
	}
	if len(e.Editions) > 0 {
		out.Editions = make([]string, len(e.Editions))
		copy(out.Editions, e.Editions)
	}
	if len(e.Children) > 0 {
		out.Children = CloneElements(e.Children)
	}
	return out
}

func CloneElements(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, 0, len(elements))
	for i := range elements {
		out = append(out, elements[i].Clone())
	}
	return out
}
