package tree

import (
	"encoding/json"
	"testing"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errors"
	"github.com/stretchr/testify/require"
)

func demoTree() []model.Element {
	return []model.Element{
		{ID: "hero", Type: model.ElementText, Order: 0, Data: json.RawMessage(`{"text":"intro"}`)},
		{
			ID: "body", Type: model.ElementWrapper, Order: 1,
			Children: []model.Element{
				{ID: "p1", Type: model.ElementText, Order: 0},
				{
					ID: "figure", Type: model.ElementWrapper, Order: 1,
					Children: []model.Element{
						{ID: "img", Type: model.ElementMedia, Order: 0},
						{ID: "caption", Type: model.ElementText, Order: 1},
					},
				},
				{ID: "link", Type: model.ElementReference, Order: 2},
			},
		},
		{ID: "footer", Type: model.ElementWrapper, Order: 2},
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestFindByID(t *testing.T) {
	elements := demoTree()
	found := FindByID(elements, "caption")
	require.NotNil(t, found)
	require.Equal(t, model.ElementText, found.Type)
	require.Nil(t, FindByID(elements, "nope"))
	require.Nil(t, FindByID(nil, "hero"))
}

func TestIsDescendant(t *testing.T) {
	elements := demoTree()
	require.True(t, IsDescendant(elements, "body", "body"))
	require.True(t, IsDescendant(elements, "figure", "body"))
	require.True(t, IsDescendant(elements, "caption", "body"))
	require.False(t, IsDescendant(elements, "hero", "body"))
	require.False(t, IsDescendant(elements, "body", "figure"))
	require.False(t, IsDescendant(elements, "caption", "nope"))
}

func TestMoveRejectsIllegalTargets(t *testing.T) {
	elements := demoTree()
	type testCase struct {
		element string
		parent  string
		want    error
	}
	for _, tc := range []testCase{
		{element: "body", parent: "body", want: errors.ErrInvalidMove},
		{element: "body", parent: "figure", want: errors.ErrInvalidMove},
		{element: "body", parent: "caption", want: errors.ErrInvalidMove},
		{element: "hero", parent: "caption", want: errors.ErrInvalidMove},
		{element: "hero", parent: "nope", want: errors.ErrMalformedTree},
		{element: "nope", parent: "body", want: errors.ErrNotFound},
	} {
		_, err := Move(elements, tc.element, tc.parent, 0)
		require.ErrorIs(t, err, tc.want, "move %s -> %s", tc.element, tc.parent)
	}
}

func TestMoveIntoWrapper(t *testing.T) {
	elements := demoTree()
	next, err := Move(elements, "hero", "figure", 1)
	require.NoError(t, err)

	figure := FindByID(next, "figure")
	require.NotNil(t, figure)
	ids := make([]string, 0, len(figure.Children))
	orders := make([]int, 0, len(figure.Children))
	for _, c := range figure.Children {
		ids = append(ids, c.ID)
		orders = append(orders, c.Order)
	}
	require.Equal(t, []string{"img", "hero", "caption"}, ids)
	require.Equal(t, []int{0, 1, 2}, orders)

	// Old top-level siblings are renumbered with no gap left behind.
	require.Equal(t, "body", next[0].ID)
	require.Equal(t, 0, next[0].Order)
	require.Equal(t, "footer", next[1].ID)
	require.Equal(t, 1, next[1].Order)
}

func TestMoveToRoot(t *testing.T) {
	elements := demoTree()
	next, err := Move(elements, "caption", "", 0)
	require.NoError(t, err)

	require.Equal(t, "caption", next[0].ID)
	require.Equal(t, 0, next[0].Order)
	require.Equal(t, "hero", next[1].ID)
	require.Equal(t, 1, next[1].Order)

	figure := FindByID(next, "figure")
	require.Len(t, figure.Children, 1)
	require.Equal(t, "img", figure.Children[0].ID)
	require.Equal(t, 0, figure.Children[0].Order)
}

func TestMoveClampsSlot(t *testing.T) {
	elements := demoTree()
	next, err := Move(elements, "hero", "figure", 99)
	require.NoError(t, err)
	figure := FindByID(next, "figure")
	require.Equal(t, "hero", figure.Children[2].ID)

	next, err = Move(elements, "hero", "figure", -5)
	require.NoError(t, err)
	figure = FindByID(next, "figure")
	require.Equal(t, "hero", figure.Children[0].ID)
	require.Equal(t, 0, figure.Children[0].Order)
}

func TestMoveNormalizesGappedOrders(t *testing.T) {
	elements := []model.Element{
		{ID: "w", Type: model.ElementWrapper, Order: 3, Children: []model.Element{
			{ID: "x", Type: model.ElementText, Order: 10},
			{ID: "y", Type: model.ElementText, Order: 20},
		}},
		{ID: "z", Type: model.ElementText, Order: 7},
	}
	next, err := Move(elements, "z", "w", 1)
	require.NoError(t, err)
	w := FindByID(next, "w")
	require.Equal(t, "x", w.Children[0].ID)
	require.Equal(t, "z", w.Children[1].ID)
	require.Equal(t, "y", w.Children[2].ID)
	for i, c := range w.Children {
		require.Equal(t, i, c.Order)
	}
}

func TestMoveWithinSameParent(t *testing.T) {
	elements := demoTree()
	next, err := Move(elements, "caption", "figure", 0)
	require.NoError(t, err)
	figure := FindByID(next, "figure")
	require.Equal(t, "caption", figure.Children[0].ID)
	require.Equal(t, "img", figure.Children[1].ID)
}

func TestMoveLeavesInputUntouched(t *testing.T) {
	elements := demoTree()
	before := mustJSON(t, elements)

	_, err := Move(elements, "hero", "figure", 0)
	require.NoError(t, err)
	require.Equal(t, before, mustJSON(t, elements))

	_, err = Move(elements, "body", "figure", 0)
	require.ErrorIs(t, err, errors.ErrInvalidMove)
	require.Equal(t, before, mustJSON(t, elements))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(demoTree()))

	dup := []model.Element{
		{ID: "a", Type: model.ElementText, Order: 0},
		{ID: "w", Type: model.ElementWrapper, Order: 1, Children: []model.Element{
			{ID: "a", Type: model.ElementText, Order: 0},
		}},
	}
	require.ErrorIs(t, Validate(dup), errors.ErrMalformedTree)

	leafWithChildren := []model.Element{
		{ID: "t", Type: model.ElementText, Order: 0, Children: []model.Element{
			{ID: "c", Type: model.ElementText, Order: 0},
		}},
	}
	require.ErrorIs(t, Validate(leafWithChildren), errors.ErrMalformedTree)

	require.ErrorIs(t, Validate([]model.Element{{Type: model.ElementText}}), errors.ErrMalformedTree)
}

func collectFlat(elements []model.Element) []FlatElement {
	out := make([]FlatElement, 0)
	for row := range Flatten(elements) {
		out = append(out, row)
	}
	return out
}

func TestFlattenPreOrder(t *testing.T) {
	rows := collectFlat(demoTree())
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	// The reference element "link" never appears.
	require.Equal(t, []string{"hero", "body", "p1", "figure", "img", "caption", "footer"}, ids)

	byID := make(map[string]FlatElement, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	require.Equal(t, 0, byID["hero"].Depth)
	require.Equal(t, "", byID["hero"].ParentID)
	require.True(t, byID["body"].HasChildren)
	require.Equal(t, 1, byID["figure"].Depth)
	require.Equal(t, "body", byID["figure"].ParentID)
	require.Equal(t, 2, byID["caption"].Depth)
	require.Equal(t, "figure", byID["caption"].ParentID)
	require.False(t, byID["footer"].HasChildren)
}

func TestFlattenSortsSiblingsByOrder(t *testing.T) {
	elements := []model.Element{
		{ID: "late", Type: model.ElementText, Order: 5},
		{ID: "early", Type: model.ElementText, Order: 2},
	}
	rows := collectFlat(elements)
	require.Equal(t, "early", rows[0].ID)
	require.Equal(t, "late", rows[1].ID)
	// Sorting the walk must not reorder the underlying slice.
	require.Equal(t, "late", elements[0].ID)
}

func TestFlattenIsRestartable(t *testing.T) {
	seq := Flatten(demoTree())
	first := make([]string, 0)
	for row := range seq {
		first = append(first, row.ID)
	}
	second := make([]string, 0)
	for row := range seq {
		second = append(second, row.ID)
	}
	require.Equal(t, first, second)
}

func TestFlattenStopsEarly(t *testing.T) {
	got := make([]string, 0)
	for row := range Flatten(demoTree()) {
		got = append(got, row.ID)
		if len(got) == 3 {
			break
		}
	}
	require.Equal(t, []string{"hero", "body", "p1"}, got)
}
