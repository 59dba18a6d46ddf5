package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdhtml "html"
	"sort"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	rendererhtml "github.com/yuin/goldmark/renderer/html"
)

// snapshotRenderer turns a captured content snapshot into a standalone HTML
// document. Text elements are markdown, html and svg pass through raw, and
// anything it cannot decode is dumped verbatim inside a pre block so an
// export never loses data.
type snapshotRenderer struct {
	md goldmark.Markdown
}

func newSnapshotRenderer() *snapshotRenderer {
	return &snapshotRenderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererhtml.WithUnsafe()),
	)}
}

func (r *snapshotRenderer) Render(snapshot model.Snapshot) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString(fmt.Sprintf("<title>%s</title>\n", stdhtml.EscapeString(snapshot.Title)))
	buf.WriteString("<meta charset=\"utf-8\" />\n</head>\n<body>\n<article>\n")
	buf.WriteString(fmt.Sprintf("<h1>%s</h1>\n", stdhtml.EscapeString(snapshot.Title)))
	if err := r.renderElements(&buf, snapshot.Elements); err != nil {
		return "", err
	}
	buf.WriteString("</article>\n</body>\n</html>\n")
	return buf.String(), nil
}

func (r *snapshotRenderer) renderElements(buf *bytes.Buffer, elements []model.Element) error {
	ordered := make([]*model.Element, 0, len(elements))
	for i := range elements {
		ordered = append(ordered, &elements[i])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	for _, element := range ordered {
		if err := r.renderElement(buf, element); err != nil {
			return err
		}
	}
	return nil
}

func (r *snapshotRenderer) renderElement(buf *bytes.Buffer, element *model.Element) error {
	switch element.Type {
	case model.ElementReference:
		// References point at other content items; the export keeps every
		// document self-contained, so they are skipped like in flat views.
		return nil
	case model.ElementWrapper:
		buf.WriteString("<section>\n")
		if err := r.renderElements(buf, element.Children); err != nil {
			return err
		}
		buf.WriteString("</section>\n")
		return nil
	case model.ElementText:
		var payload struct {
			Text string `json:"text"`
		}
		if !decodeData(element.Data, &payload) {
			r.renderRaw(buf, element)
			return nil
		}
		return r.md.Convert([]byte(payload.Text), buf)
	case model.ElementHTML:
		var payload struct {
			HTML string `json:"html"`
		}
		if !decodeData(element.Data, &payload) {
			r.renderRaw(buf, element)
			return nil
		}
		buf.WriteString(payload.HTML)
		buf.WriteString("\n")
		return nil
	case model.ElementSVG:
		var payload struct {
			SVG string `json:"svg"`
		}
		if !decodeData(element.Data, &payload) {
			r.renderRaw(buf, element)
			return nil
		}
		buf.WriteString(payload.SVG)
		buf.WriteString("\n")
		return nil
	case model.ElementMedia:
		var payload struct {
			URL string `json:"url"`
			Alt string `json:"alt"`
		}
		if !decodeData(element.Data, &payload) || payload.URL == "" {
			r.renderRaw(buf, element)
			return nil
		}
		buf.WriteString(fmt.Sprintf("<img src=\"%s\" alt=\"%s\" />\n",
			stdhtml.EscapeString(payload.URL), stdhtml.EscapeString(payload.Alt)))
		return nil
	case model.ElementKatex:
		var payload struct {
			Source string `json:"source"`
		}
		if !decodeData(element.Data, &payload) {
			r.renderRaw(buf, element)
			return nil
		}
		buf.WriteString(fmt.Sprintf("<pre class=\"katex\">%s</pre>\n", stdhtml.EscapeString(payload.Source)))
		return nil
	case model.ElementXML:
		var payload struct {
			XML string `json:"xml"`
		}
		if decodeData(element.Data, &payload) && payload.XML != "" {
			buf.WriteString(fmt.Sprintf("<pre><code class=\"language-xml\">%s</code></pre>\n", stdhtml.EscapeString(payload.XML)))
			return nil
		}
		r.renderRaw(buf, element)
		return nil
	case model.ElementJSON:
		var pretty bytes.Buffer
		if len(element.Data) > 0 && json.Indent(&pretty, element.Data, "", "  ") == nil {
			buf.WriteString(fmt.Sprintf("<pre><code class=\"language-json\">%s</code></pre>\n", stdhtml.EscapeString(pretty.String())))
			return nil
		}
		r.renderRaw(buf, element)
		return nil
	default:
		r.renderRaw(buf, element)
		return nil
	}
}

func (r *snapshotRenderer) renderRaw(buf *bytes.Buffer, element *model.Element) {
	buf.WriteString(fmt.Sprintf("<pre data-element-type=\"%s\">%s</pre>\n",
		stdhtml.EscapeString(string(element.Type)), stdhtml.EscapeString(string(element.Data))))
}

func decodeData(data json.RawMessage, out interface{}) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, out) == nil
}
