package service

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"github.com/pagemill/pagemill/internal/filestore"
	"github.com/pagemill/pagemill/internal/tree"
)

// ExportService packages a collection as it stood in a release into a zip
// archive on the configured file store. Each content item contributes a
// rendered HTML page plus the raw version record.
type ExportService struct {
	releases *ReleaseService
	fs       filestore.Store
	renderer *snapshotRenderer
}

func NewExportService(releases *ReleaseService, fs filestore.Store) *ExportService {
	return &ExportService{releases: releases, fs: fs, renderer: newSnapshotRenderer()}
}

// ExportRelease renders every content item of the collection as resolved
// at the named release into a zip archive and returns the stored key. A
// non-empty edition narrows every page the same way a filtered read does;
// items invisible in that edition are left out.
func (s *ExportService) ExportRelease(ctx context.Context, collectionID string, releaseName string, edition string) (string, error) {
	versions, err := s.releases.ResolveCollection(ctx, collectionID, releaseName)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp("", "pagemill-export-*.zip")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	writer := zip.NewWriter(tmp)
	nameCounts := make(map[string]int)
	for _, version := range versions {
		snapshot := version.Snapshot
		if edition != "" {
			if !snapshot.VisibleIn(edition) {
				continue
			}
			snapshot.Elements = tree.FilterForEdition(snapshot.Elements, edition)
		}
		base := entryBaseName(snapshot.Slug, version.ContentID)
		nameCounts[base] += 1
		if nameCounts[base] > 1 {
			base = fmt.Sprintf("%s-%d", base, nameCounts[base])
		}
		page, err := s.renderer.Render(snapshot)
		if err != nil {
			_ = writer.Close()
			return "", err
		}
		if err := writeZipEntry(writer, base+".html", []byte(page)); err != nil {
			_ = writer.Close()
			return "", err
		}
		record, err := json.Marshal(version)
		if err != nil {
			_ = writer.Close()
			return "", err
		}
		if err := writeZipEntry(writer, base+".json", record); err != nil {
			_ = writer.Close()
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	size, err := tmp.Seek(0, io.SeekEnd)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("release-export-%s.zip", uuid.NewString())
	if err := s.fs.Save(ctx, key, tmp, size); err != nil {
		return "", err
	}
	return key, nil
}

// Open streams a previously stored export archive.
func (s *ExportService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.fs.Open(ctx, key)
}

func writeZipEntry(writer *zip.Writer, name string, content []byte) error {
	entry, err := writer.Create(filepath.ToSlash(name))
	if err != nil {
		return err
	}
	_, err = entry.Write(content)
	return err
}

var entryNameSafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func entryBaseName(slug string, contentID string) string {
	base := entryNameSafe.ReplaceAllString(slug, "-")
	if base == "" || base == "-" {
		base = contentID
	}
	return base
}
