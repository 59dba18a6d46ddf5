package memstore

import "github.com/pagemill/pagemill/internal/store"

var (
	_ store.CollectionStore = (*CollectionStore)(nil)
	_ store.ContentStore    = (*ContentStore)(nil)
	_ store.VersionStore    = (*VersionStore)(nil)
	_ store.ReleaseStore    = (*ReleaseStore)(nil)
	_ store.LockStore       = (*LockStore)(nil)
)
