package tree

import (
	"encoding/json"

	"github.com/pagemill/pagemill/internal/model"
)

// FilterForEdition returns a copy of the forest containing only the
// elements visible in the given edition. A hidden element drops
// together with its whole subtree; children are never promoted past a
// hidden parent. Surviving siblings keep their relative order and
// their Order values. Content-level visibility is the caller's
// concern; by the time this runs the content item itself has already
// been accepted for the edition.
func FilterForEdition(elements []model.Element, edition string) []model.Element {
	out := make([]model.Element, 0, len(elements))
	for i := range elements {
		e := &elements[i]
		if !e.VisibleIn(edition) {
			continue
		}
		kept := model.Element{
			ID:    e.ID,
			Type:  e.Type,
			Order: e.Order,
		}
		if len(e.Data) > 0 {
			kept.Data = make(json.RawMessage, len(e.Data))
			copy(kept.Data, e.Data)
		}
		if len(e.Editions) > 0 {
			kept.Editions = make([]string, len(e.Editions))
			copy(kept.Editions, e.Editions)
		}
		if len(e.Children) > 0 {
			kept.Children = FilterForEdition(e.Children, edition)
		}
		out = append(out, kept)
	}
	return out
}
