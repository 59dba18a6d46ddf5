package model

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// Content is the live, editable state of one content item. Its version
// history is owned exclusively by this item and kept separately as Versions.
type Content struct {
	ID           string                 `json:"id"`
	CollectionID string                 `json:"collection_id"`
	Title        string                 `json:"title"`
	Slug         string                 `json:"slug"`
	Status       ContentStatus          `json:"status"`
	Editions     []string               `json:"editions,omitempty"`
	Elements     []Element              `json:"elements"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Ctime        int64                  `json:"ctime"`
	Mtime        int64                  `json:"mtime"`
}

// VisibleIn reports content-level edition visibility: an item with no edition
// tags is visible in every edition.
func (c *Content) VisibleIn(edition string) bool {
	if len(c.Editions) == 0 {
		return true
	}
	for _, tag := range c.Editions {
		if tag == edition {
			return true
		}
	}
	return false
}

func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := *c
	if len(c.Editions) > 0 {
		out.Editions = make([]string, len(c.Editions))
		copy(out.Editions, c.Editions)
	}
	out.Elements = CloneElements(c.Elements)
	out.Metadata = cloneMetadata(c.Metadata)
	return &out
}

func cloneMetadata(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		return cloneMetadata(value)
	case []interface{}:
		out := make([]interface{}, len(value))
		for i := range value {
			out[i] = cloneValue(value[i])
		}
		return out
	default:
		return v
	}
}
