package model

// Version is one immutable, numbered entry in a content item's history.
// Numbers are 1-based and strictly sequential per content item. Release is
// the name of the release that was current when the version was written,
// empty during the pre-release basis period. IsReleaseEnd marks the last
// version of a release window; purge never removes such versions.
type Version struct {
	ID            string   `json:"id"`
	ContentID     string   `json:"content_id"`
	VersionNumber int      `json:"version_number"`
	Snapshot      Snapshot `json:"snapshot"`
	ChangeNote    string   `json:"change_note,omitempty"`
	Release       string   `json:"release,omitempty"`
	IsReleaseEnd  bool     `json:"is_release_end"`
	CreatorID     string   `json:"creator_id"`
	Ctime         int64    `json:"ctime"`
}

// VersionSummary is the listing view of a Version without its snapshot body.
type VersionSummary struct {
	ID            string `json:"id"`
	ContentID     string `json:"content_id"`
	VersionNumber int    `json:"version_number"`
	Title         string `json:"title"`
	ChangeNote    string `json:"change_note,omitempty"`
	Release       string `json:"release,omitempty"`
	IsReleaseEnd  bool   `json:"is_release_end"`
	CreatorID     string `json:"creator_id"`
	Ctime         int64  `json:"ctime"`
}

func (v *Version) Clone() *Version {
	if v == nil {
		return nil
	}
	out := *v
	out.Snapshot = v.Snapshot.Clone()
	return &out
}

func (v *Version) Summary() VersionSummary {
	return VersionSummary{
		ID:            v.ID,
		ContentID:     v.ContentID,
		VersionNumber: v.VersionNumber,
		Title:         v.Snapshot.Title,
		ChangeNote:    v.ChangeNote,
		Release:       v.Release,
		IsReleaseEnd:  v.IsReleaseEnd,
		CreatorID:     v.CreatorID,
		Ctime:         v.Ctime,
	}
}
