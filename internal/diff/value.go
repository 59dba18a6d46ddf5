package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is one node of a parsed JSON document. Object members keep the
// order they held in the source bytes, which is what makes repeated
// diffs of identical inputs byte-identical.
type Value struct {
	Kind Kind
	Bool bool
	Num  json.Number
	Str  string
	Arr  []*Value
	Obj  *Object
}

// Object is an insertion-ordered set of key/value members.
type Object struct {
	keys  []string
	items map[string]*Value
}

func newObject() *Object {
	return &Object{items: make(map[string]*Value)}
}

func (o *Object) Set(key string, v *Value) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

func (o *Object) Get(key string) (*Value, bool) {
	v, ok := o.items[key]
	return v, ok
}

func (o *Object) Keys() []string {
	return o.keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Parse decodes one JSON document into a Value tree. Numbers are kept
// in their source notation so encoding them back is lossless.
func Parse(raw []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("parse json fail, err: %w", err)
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := newObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				member, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, member)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &Value{Kind: KindObject, Obj: obj}, nil
		case '[':
			arr := make([]*Value, 0)
			for dec.More() {
				item, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &Value{Kind: KindArray, Arr: arr}, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter: %v", t)
		}
	case string:
		return &Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return &Value{Kind: KindNumber, Num: t}, nil
	case bool:
		return &Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return &Value{Kind: KindNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token: %v", tok)
	}
}

// Encode renders the value back to compact JSON with object keys in
// their original order.
func (v *Value) Encode() string {
	var sb strings.Builder
	v.encode(&sb)
	return sb.String()
}

func (v *Value) encode(sb *strings.Builder) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case KindNumber:
		sb.WriteString(v.Num.String())
	case KindString:
		raw, _ := json.Marshal(v.Str)
		sb.Write(raw)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.Arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.encode(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, key := range v.Obj.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			raw, _ := json.Marshal(key)
			sb.Write(raw)
			sb.WriteByte(':')
			v.Obj.items[key].encode(sb)
		}
		sb.WriteByte('}')
	}
}
