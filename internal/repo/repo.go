// Package repo implements the store interfaces on postgres. Queries go
// through the gendry builder and dbutil.Finalize except where a
// statement needs a subquery or upsert, which stay raw SQL.
package repo

import "github.com/pagemill/pagemill/internal/store"

var (
	_ store.CollectionStore = (*CollectionRepo)(nil)
	_ store.ContentStore    = (*ContentRepo)(nil)
	_ store.VersionStore    = (*VersionRepo)(nil)
	_ store.ReleaseStore    = (*ReleaseRepo)(nil)
	_ store.LockStore       = (*LockRepo)(nil)
)
