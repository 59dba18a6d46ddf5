package model

// ContentLock is an advisory edit lock on one content item. A lock past its
// ExpiresAt is dead and may be claimed by any owner.
type ContentLock struct {
	ContentID string `json:"content_id"`
	OwnerID   string `json:"owner_id"`
	Ctime     int64  `json:"ctime"`
	ExpiresAt int64  `json:"expires_at"`
}

func (l *ContentLock) ExpiredAt(now int64) bool {
	return l.ExpiresAt <= now
}
