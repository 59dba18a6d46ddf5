package model

// Snapshot is the deep-copied state captured inside a Version. It never
// shares mutable references with the live content item it was taken from.
type Snapshot struct {
	Title    string                 `json:"title"`
	Slug     string                 `json:"slug"`
	Status   ContentStatus          `json:"status"`
	Editions []string               `json:"editions,omitempty"`
	Elements []Element              `json:"elements"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Capture copies the versioned fields of the live content item into a new
// Snapshot. Mutating the item afterwards must never change the result.
func (c *Content) Capture() Snapshot {
	s := Snapshot{
		Title:    c.Title,
		Slug:     c.Slug,
		Status:   c.Status,
		Elements: CloneElements(c.Elements),
		Metadata: cloneMetadata(c.Metadata),
	}
	if len(c.Editions) > 0 {
		s.Editions = make([]string, len(c.Editions))
		copy(s.Editions, c.Editions)
	}
	return s
}

// Apply writes a snapshot's fields back onto the live content item. Restoring
// is additive: the caller records a new Version afterwards, history is never
// rewritten.
func (c *Content) Apply(s Snapshot) {
	restored := s.Clone()
	c.Title = restored.Title
	c.Slug = restored.Slug
	c.Status = restored.Status
	c.Editions = restored.Editions
	c.Elements = restored.Elements
	c.Metadata = restored.Metadata
}

// VisibleIn mirrors the edition gate of the live content item for captured
// state. No editions means visible everywhere.
func (s Snapshot) VisibleIn(edition string) bool {
	if len(s.Editions) == 0 {
		return true
	}
	for _, e := range s.Editions {
		if e == edition {
			return true
		}
	}
	return false
}

func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Title:    s.Title,
		Slug:     s.Slug,
		Status:   s.Status,
		Elements: CloneElements(s.Elements),
		Metadata: cloneMetadata(s.Metadata),
	}
	if len(s.Editions) > 0 {
		out.Editions = make([]string, len(s.Editions))
		copy(out.Editions, s.Editions)
	}
	return out
}
