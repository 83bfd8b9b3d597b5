// Package asset manages the on-disk profile photographs.
//
// All images live in one managed subdirectory (Pictures by default) under a
// data root. Records refer to them by a relative path such as
// "Pictures/IMG_20240401100000123_1a2b3c4d.jpg". A record owns at most one
// image: Ingest writes the new file before deleting the one it replaces.
package asset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matsen/profiles/internal/logging"
)

// DefaultSubdir is the managed directory name under the data root.
const DefaultSubdir = "Pictures"

// Stored images always carry this extension, whatever the source format.
const storedExt = ".jpg"

// nameStampLayout has millisecond precision; the dot is stripped afterwards.
const nameStampLayout = "20060102150405.000"

// maxNameAttempts bounds the retries when a generated name already exists.
const maxNameAttempts = 5

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".webp": true,
}

// Manager owns the managed image directory.
type Manager struct {
	root   string
	subdir string
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for generated names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSubdir overrides the managed subdirectory name.
func WithSubdir(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.subdir = name
		}
	}
}

// NewManager returns a manager for images under root/Pictures.
func NewManager(root string, logger *zap.Logger, opts ...Option) *Manager {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	m := &Manager{
		root:   root,
		subdir: DefaultSubdir,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the absolute managed directory.
func (m *Manager) Dir() string {
	return filepath.Join(m.root, m.subdir)
}

// EnsureStorageReady creates the managed directory if needed.
func (m *Manager) EnsureStorageReady() error {
	if err := os.MkdirAll(m.Dir(), 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrAssetIO, m.Dir(), err)
	}
	return nil
}

// GenerateName returns a fresh file name of the form
// IMG_<yyyyMMddHHmmssSSS>_<8 hex>.jpg.
func (m *Manager) GenerateName() string {
	stamp := strings.Replace(m.now().UTC().Format(nameStampLayout), ".", "", 1)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "IMG_" + stamp + "_" + suffix + storedExt
}

// Ingest copies sourcePath into managed storage under a fresh name and
// returns its relative path. Only after the copy is durable is current (the
// record's previous image, possibly empty) deleted. On failure nothing in
// managed storage changes and current is left alone.
func (m *Manager) Ingest(current, sourcePath string) (string, error) {
	if err := checkSource(sourcePath); err != nil {
		m.logger.Warn("rejecting image source",
			zap.String("op", "ingest"), zap.String("source", sourcePath), zap.Error(err))
		return "", err
	}
	if err := m.EnsureStorageReady(); err != nil {
		m.logger.Error("managed storage unavailable",
			zap.String("op", "ingest"), zap.String("target", m.Dir()), zap.Error(err))
		return "", err
	}

	name, err := m.freshName()
	if err != nil {
		return "", m.fail("ingest", sourcePath, m.Dir(), err)
	}
	target := filepath.Join(m.Dir(), name)

	if err := copyFile(sourcePath, target); err != nil {
		return "", m.fail("ingest", sourcePath, target, err)
	}

	rel := m.relPath(name)
	m.logger.Info("image ingested",
		zap.String("source", sourcePath), zap.String("path", rel))

	if current != "" && current != rel {
		m.DeleteIfPresent(current)
	}
	return rel, nil
}

// ResolvePreviewable returns a file:// URI for rel when it names an existing
// managed file. Empty, escaping, missing or directory paths are absent.
func (m *Manager) ResolvePreviewable(rel string) (string, bool) {
	abs, ok := m.LocalPath(rel)
	if !ok {
		return "", false
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), true
}

// LocalPath returns the absolute path of rel when it names an existing
// managed file.
func (m *Manager) LocalPath(rel string) (string, bool) {
	abs, err := m.resolve(rel)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return abs, true
}

// Exists reports whether rel names an existing managed file.
func (m *Manager) Exists(rel string) bool {
	_, ok := m.ResolvePreviewable(rel)
	return ok
}

// DeleteIfPresent removes rel. A missing file is not an error; any other
// failure is logged and swallowed.
func (m *Manager) DeleteIfPresent(rel string) {
	if rel == "" {
		return
	}
	abs, err := m.resolve(rel)
	if err != nil {
		m.logger.Warn("refusing to delete asset",
			zap.String("op", "delete"), zap.String("path", rel), zap.Error(err))
		return
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		m.logger.Warn("deleting asset",
			zap.String("op", "delete"), zap.String("path", rel), zap.Error(err))
		return
	}
	m.logger.Debug("asset deleted", zap.String("path", rel))
}

// List returns the relative paths of every managed image, sorted.
// Hidden files (in-flight temp copies) are skipped.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.Dir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: listing %s: %w", ErrAssetIO, m.Dir(), err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, m.relPath(e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Prune deletes managed images not present in referenced and returns how
// many were removed.
func (m *Manager) Prune(referenced map[string]bool) (int, error) {
	keep := make(map[string]bool, len(referenced))
	for rel, ok := range referenced {
		if ok && rel != "" {
			keep[filepath.ToSlash(filepath.Clean(rel))] = true
		}
	}

	files, err := m.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rel := range files {
		if keep[rel] {
			continue
		}
		abs, err := m.resolve(rel)
		if err != nil {
			continue
		}
		if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("%w: removing %s: %w", ErrAssetIO, rel, err)
		}
		m.logger.Info("orphaned image removed", zap.String("path", rel))
		removed++
	}
	return removed, nil
}

func (m *Manager) relPath(name string) string {
	return filepath.ToSlash(filepath.Join(m.subdir, name))
}

// resolve maps a relative path to an absolute one inside the managed
// directory.
func (m *Manager) resolve(rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", fmt.Errorf("empty path: %w", ErrOutsideStorage)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("%s: %w", rel, ErrOutsideStorage)
	}
	abs := filepath.Join(m.root, clean)
	inside, err := filepath.Rel(m.Dir(), abs)
	if err != nil || inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", rel, ErrOutsideStorage)
	}
	return abs, nil
}

func (m *Manager) freshName() (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name := m.GenerateName()
		_, err := os.Lstat(filepath.Join(m.Dir(), name))
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free image name after %d attempts", maxNameAttempts)
}

func (m *Manager) fail(op, source, target string, err error) error {
	m.logger.Error("asset operation failed",
		zap.String("op", op),
		zap.String("source", source),
		zap.String("target", target),
		zap.Error(err))
	return fmt.Errorf("%w: %s %s: %w", ErrAssetIO, op, source, err)
}

func checkSource(path string) error {
	if path == "" {
		return fmt.Errorf("no source given: %w", ErrUnsupportedImage)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%s: extension %q: %w", path, ext, ErrUnsupportedImage)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file: %w", path, ErrUnsupportedImage)
	}
	return nil
}

// copyFile writes src to dst through a temp file in dst's directory, so dst
// either appears complete or not at all.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(dst), ".ingest-*"+storedExt)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		tmpFile.Close()
		return fmt.Errorf("copying image: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
