package diff

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustCompare(t *testing.T, from string, to string) []Line {
	t.Helper()
	lines, err := Compare([]byte(from), []byte(to))
	require.NoError(t, err)
	return lines
}

func TestDiffEqualDocumentsEmitNothing(t *testing.T) {
	for _, doc := range []string{
		`{"title":"a","tags":["x","y"],"meta":{"n":1.5,"ok":true}}`,
		`[1,2,[3]]`,
		`"hello"`,
		`null`,
		``,
	} {
		require.Empty(t, mustCompare(t, doc, doc), "doc: %s", doc)
	}
}

func TestDiffModifiedPrimitive(t *testing.T) {
	lines := mustCompare(t, `{"title":"draft"}`, `{"title":"final"}`)
	require.Len(t, lines, 1)
	require.Equal(t, LineModified, lines[0].Type)
	require.Equal(t, "title", lines[0].Path)
	require.Equal(t, `"draft"`, lines[0].From)
	require.Equal(t, `"final"`, lines[0].To)
	require.Equal(t, 0, lines[0].Indent)
}

func TestDiffAddedAndRemovedKeys(t *testing.T) {
	lines := mustCompare(t, `{"a":1}`, `{"b":2}`)
	require.Len(t, lines, 2)
	require.Equal(t, LineRemoved, lines[0].Type)
	require.Equal(t, "a", lines[0].Path)
	require.Equal(t, "1", lines[0].From)
	require.Empty(t, lines[0].To)
	require.Equal(t, LineAdded, lines[1].Type)
	require.Equal(t, "b", lines[1].Path)
	require.Equal(t, "2", lines[1].To)
	require.Empty(t, lines[1].From)
}

func TestDiffFlattensNestedAdditions(t *testing.T) {
	lines := mustCompare(t, `{}`, `{"seo":{"title":"x","tags":["a"]},"empty":{}}`)
	require.Len(t, lines, 3)

	require.Equal(t, "seo.title", lines[0].Path)
	require.Equal(t, LineAdded, lines[0].Type)
	require.Equal(t, 1, lines[0].Indent)

	require.Equal(t, "seo.tags[0]", lines[1].Path)
	require.Equal(t, 2, lines[1].Indent)

	// Empty containers keep a single line so the addition stays visible.
	require.Equal(t, "empty", lines[2].Path)
	require.Equal(t, "{}", lines[2].To)
	require.Equal(t, 0, lines[2].Indent)
}

func TestDiffArraysAlignByIndex(t *testing.T) {
	lines := mustCompare(t, `{"tags":["a","b","c"]}`, `{"tags":["x","a","b","c"]}`)
	require.Len(t, lines, 4)
	for i := 0; i < 3; i++ {
		require.Equal(t, LineModified, lines[i].Type)
	}
	require.Equal(t, "tags[0]", lines[0].Path)
	require.Equal(t, "tags[3]", lines[3].Path)
	require.Equal(t, LineAdded, lines[3].Type)
	require.Equal(t, 1, lines[3].Indent)
}

func TestDiffKeyOrderFollowsInsertion(t *testing.T) {
	lines := mustCompare(t, `{"b":1,"a":2}`, `{"b":9,"a":2,"c":3}`)
	require.Len(t, lines, 2)
	require.Equal(t, "b", lines[0].Path)
	require.Equal(t, LineModified, lines[0].Type)
	require.Equal(t, "c", lines[1].Path)
	require.Equal(t, LineAdded, lines[1].Type)
}

func TestDiffNullEqualsAbsent(t *testing.T) {
	require.Empty(t, mustCompare(t, `{"a":null}`, `{}`))
	require.Empty(t, mustCompare(t, `{}`, `{"a":null}`))

	lines := mustCompare(t, `{"a":null}`, `{"a":1}`)
	require.Len(t, lines, 1)
	require.Equal(t, LineAdded, lines[0].Type)

	lines = mustCompare(t, `{"a":1}`, `{"a":null}`)
	require.Len(t, lines, 1)
	require.Equal(t, LineRemoved, lines[0].Type)
}

func TestDiffMismatchedKindsModify(t *testing.T) {
	lines := mustCompare(t, `{"v":[1]}`, `{"v":{"x":1}}`)
	require.Len(t, lines, 1)
	require.Equal(t, LineModified, lines[0].Type)
	require.Equal(t, "v", lines[0].Path)
	require.Equal(t, "[1]", lines[0].From)
	require.Equal(t, `{"x":1}`, lines[0].To)
}

func TestDiffRootPrimitive(t *testing.T) {
	lines := mustCompare(t, `1`, `2`)
	require.Len(t, lines, 1)
	require.Equal(t, "", lines[0].Path)
	require.Equal(t, 0, lines[0].Indent)
}

func TestDiffSymmetry(t *testing.T) {
	from := `{"title":"a","gone":1,"nested":{"x":[1,2]}}`
	to := `{"title":"b","nested":{"x":[1]},"fresh":{"y":2}}`
	forward := mustCompare(t, from, to)
	backward := mustCompare(t, to, from)
	require.Equal(t, len(forward), len(backward))

	count := func(lines []Line, k LineType) int {
		n := 0
		for _, l := range lines {
			if l.Type == k {
				n++
			}
		}
		return n
	}
	require.Equal(t, count(forward, LineAdded), count(backward, LineRemoved))
	require.Equal(t, count(forward, LineRemoved), count(backward, LineAdded))

	modifiedPaths := func(lines []Line) []string {
		out := make([]string, 0)
		for _, l := range lines {
			if l.Type == LineModified {
				out = append(out, l.Path)
			}
		}
		return out
	}
	require.Equal(t, modifiedPaths(forward), modifiedPaths(backward))
}

func TestDiffIsDeterministic(t *testing.T) {
	from := `{"z":1,"a":{"k":[1,2,3]},"m":"x"}`
	to := `{"a":{"k":[3,2,1],"n":true},"m":"y"}`
	first, err := json.Marshal(mustCompare(t, from, to))
	require.NoError(t, err)
	second, err := json.Marshal(mustCompare(t, from, to))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestDiffTruncatesOnlyForDisplay(t *testing.T) {
	long := strings.Repeat("a", 600)
	// The two sides differ far past the display cutoff; comparison must
	// still notice while both displays truncate identically.
	lines := mustCompare(t, `{"body":"`+long+`X"}`, `{"body":"`+long+`Y"}`)
	require.Len(t, lines, 1)
	require.Equal(t, LineModified, lines[0].Type)
	require.True(t, strings.HasSuffix(lines[0].From, "..."))
	require.True(t, strings.HasSuffix(lines[0].To, "..."))
	require.Len(t, []rune(lines[0].From), maxDisplayLen+3)

	short := mustCompare(t, `{"body":"tiny"}`, `{"body":"small"}`)
	require.Equal(t, `"tiny"`, short[0].From)
}

func TestCompareAnyUsesDeclarationOrder(t *testing.T) {
	type page struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
	}
	lines, err := CompareAny(page{Title: "a", Slug: "a"}, page{Title: "b", Slug: "b"})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "title", lines[0].Path)
	require.Equal(t, "slug", lines[1].Path)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	require.Error(t, err)
	_, err = Compare([]byte(`{`), []byte(`{}`))
	require.Error(t, err)
}
