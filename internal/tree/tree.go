// Package tree implements the structural operations over a content
// item's nested element forest: lookup, move, flattening and edition
// filtering.
package tree

import (
	"fmt"
	"iter"
	"sort"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errors"
)

// FindByID walks the forest depth-first and returns the first element
// whose id matches. The pointer addresses the caller's backing arrays,
// so writes through it change the tree.
func FindByID(elements []model.Element, id string) *model.Element {
	for i := range elements {
		if elements[i].ID == id {
			return &elements[i]
		}
		if found := FindByID(elements[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// IsDescendant reports whether candidateID sits inside the subtree
// rooted at ancestorID, the ancestor itself included. Unknown ids
// report false.
func IsDescendant(elements []model.Element, candidateID string, ancestorID string) bool {
	ancestor := FindByID(elements, ancestorID)
	if ancestor == nil {
		return false
	}
	return subtreeContains(ancestor, candidateID)
}

func subtreeContains(e *model.Element, id string) bool {
	if e.ID == id {
		return true
	}
	for i := range e.Children {
		if subtreeContains(&e.Children[i], id) {
			return true
		}
	}
	return false
}

// Move relocates the element with elementID so it becomes a child of
// newParentID, at the sibling slot implied by newOrder. An empty
// newParentID moves it to the top level. The target must be a wrapper
// and must not sit inside the moved element's own subtree. Both the
// old and the new sibling lists are renumbered to contiguous ascending
// orders. The input forest is never mutated; a rewritten forest is
// returned only on success.
func Move(elements []model.Element, elementID string, newParentID string, newOrder int) ([]model.Element, error) {
	if FindByID(elements, elementID) == nil {
		return nil, fmt.Errorf("element not in tree, id: %s, err: %w", elementID, errors.ErrNotFound)
	}
	if newParentID != "" {
		parent := FindByID(elements, newParentID)
		if parent == nil {
			return nil, fmt.Errorf("move target not in tree, id: %s, err: %w", newParentID, errors.ErrMalformedTree)
		}
		if !parent.IsWrapper() {
			return nil, fmt.Errorf("move target is not a wrapper, id: %s, err: %w", newParentID, errors.ErrInvalidMove)
		}
		if IsDescendant(elements, newParentID, elementID) {
			return nil, fmt.Errorf("move would nest element inside itself, id: %s, err: %w", elementID, errors.ErrInvalidMove)
		}
	}

	next := model.CloneElements(elements)
	moved, next, ok := detach(next, elementID)
	if !ok {
		return nil, errors.ErrMalformedTree
	}
	if newParentID == "" {
		return insertAt(next, moved, newOrder), nil
	}
	parent := FindByID(next, newParentID)
	if parent == nil {
		return nil, errors.ErrMalformedTree
	}
	parent.Children = insertAt(parent.Children, moved, newOrder)
	return next, nil
}

// detach removes the element with the given id from wherever it sits
// and renumbers the siblings it left behind.
func detach(elements []model.Element, id string) (model.Element, []model.Element, bool) {
	for i := range elements {
		if elements[i].ID == id {
			removed := elements[i]
			rest := append(elements[:i], elements[i+1:]...)
			renumber(rest)
			return removed, rest, true
		}
		if child, rest, ok := detach(elements[i].Children, id); ok {
			elements[i].Children = rest
			return child, elements, true
		}
	}
	return model.Element{}, elements, false
}

// insertAt places e into the sibling list at the given slot, clamped to
// [0, len], and renumbers the result. Existing siblings keep their
// relative order.
func insertAt(siblings []model.Element, e model.Element, slot int) []model.Element {
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].Order < siblings[j].Order
	})
	if slot < 0 {
		slot = 0
	}
	if slot > len(siblings) {
		slot = len(siblings)
	}
	siblings = append(siblings, model.Element{})
	copy(siblings[slot+1:], siblings[slot:])
	siblings[slot] = e
	renumber(siblings)
	return siblings
}

func renumber(elements []model.Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Order < elements[j].Order
	})
	for i := range elements {
		elements[i].Order = i
	}
}

// Validate checks the structural invariants of a content body: ids are
// present and unique across the whole forest, and only wrapper
// elements carry children.
func Validate(elements []model.Element) error {
	return validate(elements, make(map[string]struct{}))
}

func validate(elements []model.Element, seen map[string]struct{}) error {
	for i := range elements {
		e := &elements[i]
		if e.ID == "" {
			return fmt.Errorf("element without id, err: %w", errors.ErrMalformedTree)
		}
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("duplicate element id: %s, err: %w", e.ID, errors.ErrMalformedTree)
		}
		seen[e.ID] = struct{}{}
		if len(e.Children) > 0 && !e.IsWrapper() {
			return fmt.Errorf("non-wrapper element carries children, id: %s, err: %w", e.ID, errors.ErrMalformedTree)
		}
		if err := validate(e.Children, seen); err != nil {
			return err
		}
	}
	return nil
}

// FlatElement is one row of a flattened tree traversal.
type FlatElement struct {
	ID          string            `json:"id"`
	Type        model.ElementType `json:"type"`
	Depth       int               `json:"depth"`
	ParentID    string            `json:"parent_id,omitempty"`
	Order       int               `json:"order"`
	HasChildren bool              `json:"has_children"`
}

// Flatten returns a lazy pre-order traversal of the forest. Siblings
// are visited in ascending Order. Reference elements link across
// content items and are skipped so the walk stays inside the current
// tree. The sequence restarts from the top on every range.
func Flatten(elements []model.Element) iter.Seq[FlatElement] {
	return func(yield func(FlatElement) bool) {
		walk(elements, "", 0, yield)
	}
}

func walk(elements []model.Element, parentID string, depth int, yield func(FlatElement) bool) bool {
	ordered := make([]*model.Element, 0, len(elements))
	for i := range elements {
		ordered = append(ordered, &elements[i])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	for _, e := range ordered {
		if e.IsReference() {
			continue
		}
		row := FlatElement{
			ID:          e.ID,
			Type:        e.Type,
			Depth:       depth,
			ParentID:    parentID,
			Order:       e.Order,
			HasChildren: len(e.Children) > 0,
		}
		if !yield(row) {
			return false
		}
		if !walk(e.Children, e.ID, depth+1, yield) {
			return false
		}
	}
	return true
}
