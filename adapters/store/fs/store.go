package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
	"github.com/goliatone/go-cvbuilder/export"
)

// Store keeps exported documents on disk, the local stand-in for a download folder.
type Store struct {
	Root string
	Now  func() time.Time
}

// NewStore creates a filesystem-backed artifact store.
func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

// Put stores an artifact on disk.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta export.ArtifactMeta) (export.ArtifactRef, error) {
	_ = ctx
	if s == nil {
		return export.ArtifactRef{}, cv.NewError(cv.KindInternal, "store is nil", nil)
	}
	pathOnDisk, err := resolvePath(s.Root, key)
	if err != nil {
		return export.ArtifactRef{}, err
	}

	size, err := writeAtomic(pathOnDisk, r)
	if err != nil {
		return export.ArtifactRef{}, cv.NewError(cv.KindIO, fmt.Sprintf("write artifact %q", key), err)
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}

	if err := s.writeMeta(pathOnDisk, meta); err != nil {
		return export.ArtifactRef{}, cv.NewError(cv.KindIO, fmt.Sprintf("write artifact %q metadata", key), err)
	}

	return export.ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact from disk.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, export.ArtifactMeta, error) {
	_ = ctx
	if s == nil {
		return nil, export.ArtifactMeta{}, cv.NewError(cv.KindInternal, "store is nil", nil)
	}
	pathOnDisk, err := resolvePath(s.Root, key)
	if err != nil {
		return nil, export.ArtifactMeta{}, err
	}

	file, err := os.Open(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, export.ArtifactMeta{}, cv.NewError(cv.KindNotFound, fmt.Sprintf("artifact %q not found", key), err)
		}
		return nil, export.ArtifactMeta{}, cv.NewError(cv.KindIO, fmt.Sprintf("open artifact %q", key), err)
	}

	meta := s.readMeta(pathOnDisk)
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}

	return file, meta, nil
}

// Delete removes an artifact from disk.
func (s *Store) Delete(ctx context.Context, key string) error {
	_ = ctx
	if s == nil {
		return cv.NewError(cv.KindInternal, "store is nil", nil)
	}
	pathOnDisk, err := resolvePath(s.Root, key)
	if err != nil {
		return err
	}
	_ = os.Remove(pathOnDisk)
	_ = os.Remove(metaPath(pathOnDisk))
	return nil
}

func (s *Store) writeMeta(pathOnDisk string, meta export.ArtifactMeta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = writeAtomic(metaPath(pathOnDisk), strings.NewReader(string(payload)))
	return err
}

func (s *Store) readMeta(pathOnDisk string) export.ArtifactMeta {
	data, err := os.ReadFile(metaPath(pathOnDisk))
	if err != nil {
		return export.ArtifactMeta{}
	}
	var meta export.ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return export.ArtifactMeta{}
	}
	return meta
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func metaPath(pathOnDisk string) string {
	return pathOnDisk + ".meta.json"
}

// resolvePath maps key below root, rejecting keys that escape it.
func resolvePath(root, key string) (string, error) {
	if root == "" {
		return "", cv.NewError(cv.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return "", cv.NewError(cv.KindValidation, "key is required", nil)
	}
	clean := path.Clean("/" + key)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" || rel == "." {
		return "", cv.NewError(cv.KindValidation, "invalid key", nil)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", cv.NewError(cv.KindIO, "resolve store root", err)
	}
	target := filepath.Join(absRoot, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, absRoot+string(os.PathSeparator)) && target != absRoot {
		return "", cv.NewError(cv.KindValidation, "key escapes root", nil)
	}
	return target, nil
}

// writeAtomic copies r into a temp file next to pathOnDisk and renames it in place.
func writeAtomic(pathOnDisk string, r io.Reader) (int64, error) {
	dir := filepath.Dir(pathOnDisk)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, ".cv-*")
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return size, os.Rename(tmp.Name(), pathOnDisk)
}
