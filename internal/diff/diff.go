// Package diff computes ordered structural comparisons between two
// JSON-like documents, typically two content snapshots. Output is a
// flat list of lines suitable for direct rendering; nothing here is
// ever persisted.
package diff

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"
)

type LineType string

const (
	LineAdded     LineType = "added"
	LineRemoved   LineType = "removed"
	LineModified  LineType = "modified"
	LineUnchanged LineType = "unchanged"
)

// maxDisplayLen bounds From/To for display. Comparison always runs on
// the full serialized values.
const maxDisplayLen = 512

// Line is one entry of a comparison. Path is dotted for object keys
// and bracketed for array indices; Indent is the nesting depth below
// the document root.
type Line struct {
	Type   LineType `json:"type"`
	Path   string   `json:"path"`
	From   string   `json:"from,omitempty"`
	To     string   `json:"to,omitempty"`
	Indent int      `json:"indent"`
}

// Compare diffs two raw JSON documents. Empty input on either side is
// treated as an absent document.
func Compare(from []byte, to []byte) ([]Line, error) {
	var fv, tv *Value
	var err error
	if len(from) > 0 {
		if fv, err = Parse(from); err != nil {
			return nil, fmt.Errorf("parse left document fail, err: %w", err)
		}
	}
	if len(to) > 0 {
		if tv, err = Parse(to); err != nil {
			return nil, fmt.Errorf("parse right document fail, err: %w", err)
		}
	}
	return CompareValues(fv, tv), nil
}

// CompareAny marshals two Go values and diffs the results. Struct
// fields serialize in declaration order, so the output is stable for
// the same inputs.
func CompareAny(from interface{}, to interface{}) ([]Line, error) {
	fromRaw, err := json.Marshal(from)
	if err != nil {
		return nil, fmt.Errorf("marshal left value fail, err: %w", err)
	}
	toRaw, err := json.Marshal(to)
	if err != nil {
		return nil, fmt.Errorf("marshal right value fail, err: %w", err)
	}
	return Compare(fromRaw, toRaw)
}

// CompareValues diffs two parsed documents. It is pure: the result
// depends only on the inputs and the inputs are never modified.
func CompareValues(from *Value, to *Value) []Line {
	d := &differ{lines: make([]Line, 0)}
	d.compare("", 0, from, to)
	return d.lines
}

type differ struct {
	lines []Line
}

// absent folds JSON null into "not there": a key explicitly set to
// null diffs exactly like a missing key.
func absent(v *Value) bool {
	return v == nil || v.Kind == KindNull
}

func (d *differ) compare(path string, indent int, from *Value, to *Value) {
	switch {
	case absent(from) && absent(to):
		return
	case absent(from):
		d.flatten(LineAdded, path, indent, to)
	case absent(to):
		d.flatten(LineRemoved, path, indent, from)
	case from.Kind == KindArray && to.Kind == KindArray:
		// Index-aligned on purpose: reordering an array shows up as a
		// modified line per shifted index, not as a move.
		n := max(len(from.Arr), len(to.Arr))
		for i := 0; i < n; i++ {
			var f, t *Value
			if i < len(from.Arr) {
				f = from.Arr[i]
			}
			if i < len(to.Arr) {
				t = to.Arr[i]
			}
			d.compare(indexPath(path, i), childIndent(path, indent), f, t)
		}
	case from.Kind == KindObject && to.Kind == KindObject:
		for _, key := range unionKeys(from.Obj, to.Obj) {
			f, _ := from.Obj.Get(key)
			t, _ := to.Obj.Get(key)
			d.compare(keyPath(path, key), childIndent(path, indent), f, t)
		}
	default:
		// Primitives, or containers of mismatched kinds.
		fromRaw := from.Encode()
		toRaw := to.Encode()
		if fromRaw != toRaw {
			d.append(LineModified, path, indent, fromRaw, toRaw)
		}
	}
}

// flatten emits one line per leaf of a wholly added or removed
// subtree. Empty containers get a single line so they do not vanish
// from the output; null leaves emit nothing, matching compare.
func (d *differ) flatten(kind LineType, path string, indent int, v *Value) {
	switch v.Kind {
	case KindNull:
		return
	case KindArray:
		if len(v.Arr) == 0 {
			d.appendOneSided(kind, path, indent, v.Encode())
			return
		}
		for i, item := range v.Arr {
			if item == nil {
				continue
			}
			d.flatten(kind, indexPath(path, i), childIndent(path, indent), item)
		}
	case KindObject:
		if v.Obj.Len() == 0 {
			d.appendOneSided(kind, path, indent, v.Encode())
			return
		}
		for _, key := range v.Obj.Keys() {
			item, _ := v.Obj.Get(key)
			d.flatten(kind, keyPath(path, key), childIndent(path, indent), item)
		}
	default:
		d.appendOneSided(kind, path, indent, v.Encode())
	}
}

func (d *differ) append(t LineType, path string, indent int, from string, to string) {
	d.lines = append(d.lines, Line{
		Type:   t,
		Path:   path,
		From:   truncateForDisplay(from),
		To:     truncateForDisplay(to),
		Indent: indent,
	})
}

func (d *differ) appendOneSided(t LineType, path string, indent int, value string) {
	line := Line{Type: t, Path: path, Indent: indent}
	if t == LineAdded {
		line.To = truncateForDisplay(value)
	} else {
		line.From = truncateForDisplay(value)
	}
	d.lines = append(d.lines, line)
}

func keyPath(path string, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// childIndent keeps top-level members of the document root at indent
// zero and steps once per real nesting level below that.
func childIndent(path string, indent int) int {
	if path == "" {
		return indent
	}
	return indent + 1
}

func unionKeys(a *Object, b *Object) []string {
	out := make([]string, 0, a.Len()+b.Len())
	seen := make(map[string]struct{}, a.Len()+b.Len())
	for _, k := range a.Keys() {
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, k := range b.Keys() {
		if _, ok := seen[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func truncateForDisplay(s string) string {
	if s == "" {
		return s
	}
	if utf8.RuneCountInString(s) <= maxDisplayLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDisplayLen]) + "..."
}
