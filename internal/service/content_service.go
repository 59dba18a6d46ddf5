package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagemill/pagemill/internal/diff"
	"github.com/pagemill/pagemill/internal/model"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
	"github.com/pagemill/pagemill/internal/pkg/timeutil"
	"github.com/pagemill/pagemill/internal/store"
	"github.com/pagemill/pagemill/internal/tree"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type CreateContentInput struct {
	CollectionID string
	Title        string
	Slug         string
	Status       model.ContentStatus
	Editions     []string
	Elements     []model.Element
	Metadata     map[string]interface{}
	ChangeNote   string
}

type UpdateContentInput struct {
	Title      string
	Slug       string
	Status     model.ContentStatus
	Editions   []string
	Elements   []model.Element
	Metadata   map[string]interface{}
	ChangeNote string
}

// ContentService is the write path for content items. Every mutation lands
// twice: on the live row and as an appended, immutable version. Mutations
// honor edit locks held by other owners and reject malformed element trees
// before anything is persisted.
type ContentService struct {
	contents    store.ContentStore
	versions    store.VersionStore
	collections store.CollectionStore
	locks       store.LockStore
	releases    *ReleaseService
}

func NewContentService(contents store.ContentStore, versions store.VersionStore,
	collections store.CollectionStore, locks store.LockStore, releases *ReleaseService) *ContentService {
	return &ContentService{
		contents:    contents,
		versions:    versions,
		collections: collections,
		locks:       locks,
		releases:    releases,
	}
}

func (s *ContentService) Create(ctx context.Context, editorID string, input CreateContentInput) (*model.Content, error) {
	if _, err := s.collections.Get(ctx, input.CollectionID); err != nil {
		return nil, err
	}
	status, err := validateContentFields(ctx, input.Title, input.Status, input.Elements)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	content := &model.Content{
		ID:           newID(),
		CollectionID: input.CollectionID,
		Title:        strings.TrimSpace(input.Title),
		Slug:         strings.TrimSpace(input.Slug),
		Status:       status,
		Editions:     input.Editions,
		Elements:     input.Elements,
		Metadata:     input.Metadata,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.contents.Create(ctx, content); err != nil {
		return nil, err
	}
	note := input.ChangeNote
	if note == "" {
		note = "created"
	}
	if _, err := s.appendVersion(ctx, content, note, editorID); err != nil {
		return nil, err
	}
	return content, nil
}

// Get returns a content item, optionally narrowed to one edition. An edition
// the item itself is not visible in reads as absent rather than empty.
func (s *ContentService) Get(ctx context.Context, id string, edition string) (*model.Content, error) {
	content, err := s.contents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if edition != "" {
		if !content.VisibleIn(edition) {
			return nil, appErr.ErrNotFound
		}
		content.Elements = tree.FilterForEdition(content.Elements, edition)
	}
	return content, nil
}

func (s *ContentService) List(ctx context.Context, collectionID string) ([]*model.Content, error) {
	return s.contents.ListByCollection(ctx, collectionID)
}

// GetAtRelease reads a content item as it stood in the named release, with
// the same edition narrowing a live read has.
func (s *ContentService) GetAtRelease(ctx context.Context, contentID string, releaseName string, edition string) (*model.Version, error) {
	version, err := s.releases.ResolveContent(ctx, contentID, releaseName)
	if err != nil {
		return nil, err
	}
	if edition != "" {
		if !version.Snapshot.VisibleIn(edition) {
			return nil, appErr.ErrNotFound
		}
		version.Snapshot.Elements = tree.FilterForEdition(version.Snapshot.Elements, edition)
	}
	return version, nil
}

func (s *ContentService) Update(ctx context.Context, editorID string, contentID string, input UpdateContentInput) (*model.Content, error) {
	content, err := s.contents.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLock(ctx, contentID, editorID); err != nil {
		return nil, err
	}
	status, err := validateContentFields(ctx, input.Title, input.Status, input.Elements)
	if err != nil {
		return nil, err
	}
	content.Title = strings.TrimSpace(input.Title)
	content.Slug = strings.TrimSpace(input.Slug)
	content.Status = status
	content.Editions = input.Editions
	content.Elements = input.Elements
	content.Metadata = input.Metadata
	content.Mtime = timeutil.NowUnix()
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	if _, err := s.appendVersion(ctx, content, input.ChangeNote, editorID); err != nil {
		return nil, err
	}
	return content, nil
}

// MoveElement relocates one element under a new parent and records the
// reshaped tree as a fresh version. The tree operation itself decides
// legality; the service only guards the lock and persists the outcome.
func (s *ContentService) MoveElement(ctx context.Context, editorID string, contentID string, elementID string, newParentID string, newOrder int) (*model.Content, error) {
	content, err := s.contents.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLock(ctx, contentID, editorID); err != nil {
		return nil, err
	}
	moved, err := tree.Move(content.Elements, elementID, newParentID, newOrder)
	if err != nil {
		return nil, err
	}
	content.Elements = moved
	content.Mtime = timeutil.NowUnix()
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	if _, err := s.appendVersion(ctx, content, fmt.Sprintf("move element %s", elementID), editorID); err != nil {
		return nil, err
	}
	return content, nil
}

// Flatten lists the element tree of a content item in document order, one
// row per element, for pickers and outline views.
func (s *ContentService) Flatten(ctx context.Context, contentID string) ([]tree.FlatElement, error) {
	content, err := s.contents.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	flat := make([]tree.FlatElement, 0)
	for element := range tree.Flatten(content.Elements) {
		flat = append(flat, element)
	}
	return flat, nil
}

func (s *ContentService) Delete(ctx context.Context, editorID string, contentID string) error {
	if err := s.checkLock(ctx, contentID, editorID); err != nil {
		return err
	}
	if err := s.contents.Delete(ctx, contentID); err != nil {
		return err
	}
	return s.versions.DeleteByContent(ctx, contentID)
}

func (s *ContentService) History(ctx context.Context, contentID string, limit int) ([]*model.VersionSummary, error) {
	return s.versions.History(ctx, contentID, limit)
}

func (s *ContentService) GetVersion(ctx context.Context, contentID string, number int) (*model.Version, error) {
	return s.versions.Get(ctx, contentID, number)
}

// Diff compares the snapshots of two versions of the same content item and
// returns the display lines.
func (s *ContentService) Diff(ctx context.Context, contentID string, fromNumber int, toNumber int) ([]diff.Line, error) {
	from, err := s.versions.Get(ctx, contentID, fromNumber)
	if err != nil {
		return nil, err
	}
	to, err := s.versions.Get(ctx, contentID, toNumber)
	if err != nil {
		return nil, err
	}
	return diff.CompareAny(from.Snapshot, to.Snapshot)
}

// Restore copies an old version's snapshot onto the live content item and
// appends the result as a new version. History stays intact; the restore
// itself becomes the newest entry.
func (s *ContentService) Restore(ctx context.Context, editorID string, contentID string, number int) (*model.Content, error) {
	version, err := s.versions.Get(ctx, contentID, number)
	if err != nil {
		return nil, err
	}
	content, err := s.contents.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLock(ctx, contentID, editorID); err != nil {
		return nil, err
	}
	content.Apply(version.Snapshot)
	content.Mtime = timeutil.NowUnix()
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	if _, err := s.appendVersion(ctx, content, fmt.Sprintf("restore from version %d", number), editorID); err != nil {
		return nil, err
	}
	return content, nil
}

// PurgeVersions drops every version that is neither the latest nor a release
// end marker and reports how many were removed. The caller's lock, if any,
// must cover the purge so it does not race an edit.
func (s *ContentService) PurgeVersions(ctx context.Context, editorID string, contentID string) (int64, error) {
	if err := s.checkLock(ctx, contentID, editorID); err != nil {
		return 0, err
	}
	return s.versions.PurgeIntermediate(ctx, contentID)
}

func (s *ContentService) CountPurgeable(ctx context.Context, contentID string) (int64, error) {
	return s.versions.CountPurgeable(ctx, contentID)
}

// MarkReleaseEnd flags the latest version of a content item as a release
// window boundary. Items without versions are a no-op.
func (s *ContentService) MarkReleaseEnd(ctx context.Context, contentID string) (*model.Version, error) {
	marked, err := s.versions.MarkLatestReleaseEnd(ctx, contentID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return marked, nil
}

func (s *ContentService) appendVersion(ctx context.Context, content *model.Content, changeNote string, editorID string) (*model.Version, error) {
	release, err := s.releases.ActiveReleaseName(ctx, content.CollectionID)
	if err != nil {
		return nil, err
	}
	number := 1
	if latest, err := s.versions.Latest(ctx, content.ID); err == nil {
		number = latest.VersionNumber + 1
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}
	version := &model.Version{
		ID:            newID(),
		ContentID:     content.ID,
		VersionNumber: number,
		Snapshot:      content.Capture(),
		ChangeNote:    changeNote,
		Release:       release,
		CreatorID:     editorID,
		Ctime:         timeutil.NowUnix(),
	}
	if err := s.versions.Append(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

// checkLock rejects a mutation when another owner holds a live lock on the
// content item. No lock, an expired lock or the editor's own lock all pass.
func (s *ContentService) checkLock(ctx context.Context, contentID string, editorID string) error {
	lock, err := s.locks.Get(ctx, contentID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if lock.OwnerID != editorID && !lock.ExpiredAt(timeutil.NowUnix()) {
		return appErr.ErrLocked
	}
	return nil
}

func validateContentFields(ctx context.Context, title string, status model.ContentStatus, elements []model.Element) (model.ContentStatus, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("title is required, err: %w", appErr.ErrInvalid)
	}
	switch status {
	case "":
		status = model.ContentStatusDraft
	case model.ContentStatusDraft, model.ContentStatusPublished, model.ContentStatusArchived:
	default:
		return "", fmt.Errorf("unknown status: %s, err: %w", status, appErr.ErrInvalid)
	}
	if err := tree.Validate(elements); err != nil {
		logutil.GetLogger(ctx).Warn("reject malformed element tree", zap.Error(err))
		return "", err
	}
	return status, nil
}
