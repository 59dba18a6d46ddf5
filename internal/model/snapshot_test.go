package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleContent() *Content {
	return &Content{
		ID:           "c-1",
		CollectionID: "col-1",
		Title:        "Article",
		Slug:         "article",
		Status:       ContentStatusDraft,
		Editions:     []string{"web"},
		Elements: []Element{
			{
				ID:    "a",
				Type:  ElementWrapper,
				Order: 0,
				Children: []Element{
					{ID: "a1", Type: ElementText, Order: 0, Data: json.RawMessage(`{"text":"hello"}`)},
					{ID: "a2", Type: ElementMedia, Order: 1, Editions: []string{"print"}},
				},
			},
			{ID: "b", Type: ElementHTML, Order: 1, Data: json.RawMessage(`{"html":"<p>x</p>"}`)},
		},
		Metadata: map[string]interface{}{
			"author": "jane",
			"flags":  []interface{}{"draft", "review"},
			"seo":    map[string]interface{}{"title": "Article"},
		},
	}
}

func TestCaptureIsIsolatedFromLiveMutation(t *testing.T) {
	content := sampleContent()
	captured := content.Capture()
	want := captured.Clone()

	content.Title = "Renamed"
	content.Status = ContentStatusPublished
	content.Editions[0] = "print"
	content.Elements[0].Children[0].Data[2] = 'X'
	content.Elements[0].Children = append(content.Elements[0].Children, Element{ID: "a3", Type: ElementText, Order: 2})
	content.Elements = append(content.Elements, Element{ID: "c", Type: ElementSVG, Order: 2})
	content.Metadata["author"] = "john"
	content.Metadata["seo"].(map[string]interface{})["title"] = "Changed"
	content.Metadata["flags"].([]interface{})[0] = "final"

	if !reflect.DeepEqual(captured, want) {
		t.Fatalf("snapshot changed after live mutation:\n got %#v\nwant %#v", captured, want)
	}

	gotJSON, err := json.Marshal(captured)
	if err != nil {
		t.Fatal(err)
	}
	wantJSON, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotJSON) != string(wantJSON) {
		t.Fatalf("snapshot serialization changed: %s", gotJSON)
	}
}

func TestApplyCopiesSnapshotState(t *testing.T) {
	content := sampleContent()
	captured := content.Capture()

	restored := &Content{ID: content.ID, CollectionID: content.CollectionID}
	restored.Apply(captured)
	if restored.Title != "Article" || restored.Slug != "article" {
		t.Fatalf("unexpected restored fields: %+v", restored)
	}
	if len(restored.Elements) != 2 || restored.Elements[0].ID != "a" {
		t.Fatalf("unexpected restored elements: %+v", restored.Elements)
	}

	// The restored item must not alias the snapshot either.
	restored.Elements[0].Children[0].Data[2] = 'Y'
	if string(captured.Elements[0].Children[0].Data) != `{"text":"hello"}` {
		t.Fatalf("snapshot data mutated through restored content")
	}
}

func TestCloneElementsDeepCopies(t *testing.T) {
	original := sampleContent().Elements
	cloned := CloneElements(original)
	cloned[0].Children[1].Editions[0] = "web"
	cloned[1].Data[2] = 'Z'
	if original[0].Children[1].Editions[0] != "print" {
		t.Fatal("editions slice aliased between clone and original")
	}
	if string(original[1].Data) != `{"html":"<p>x</p>"}` {
		t.Fatal("data payload aliased between clone and original")
	}
}
