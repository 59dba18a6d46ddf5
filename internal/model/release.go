package model

// Release is a named checkpoint across all content items of a collection.
// Releases are ordered by creation time; the most recently created one is the
// current release. The pre-release period has no row, versions written then
// simply carry an empty release tag.
type Release struct {
	ID           string `json:"id"`
	CollectionID string `json:"collection_id"`
	Name         string `json:"name"`
	CreatorID    string `json:"creator_id"`
	Ctime        int64  `json:"ctime"`
}

type Collection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ctime int64  `json:"ctime"`
}
