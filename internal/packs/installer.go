// Package packs installs downloadable content packs: gzipped tarballs of
// game files plus a pack.yaml manifest, unpacked under the games directory.
package packs

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/catalog"
)

var (
	ErrChecksum      = errors.New("checksum verification failed")
	ErrInvalidPack   = errors.New("invalid content pack")
	ErrNotInstalled  = errors.New("pack is not installed")
	ErrAlreadyLatest = errors.New("pack is already installed at this version or newer")
)

const (
	maxArchiveSize = 16 << 20
	maxFileSize    = 1 << 20
	maxFiles       = 256
)

// Progress reports an installation stage.
type Progress struct {
	Stage   string // download, verify, extract, validate, install, done
	Message string
}

// Installed describes a pack on disk.
type Installed struct {
	Manifest
	Dir   string
	Games []string // game ids
}

// Installer downloads, verifies and unpacks content packs.
type Installer struct {
	client     *http.Client
	gamesDir   string
	appVersion string
	logger     *zap.Logger
	force      bool
}

// Option configures an Installer.
type Option func(*Installer)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(i *Installer) { i.client = c }
}

// WithTimeout sets the download timeout.
func WithTimeout(d time.Duration) Option {
	return func(i *Installer) { i.client = &http.Client{Timeout: d} }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Installer) { i.logger = l }
}

// WithForce allows reinstalling the same or an older version.
func WithForce(force bool) Option {
	return func(i *Installer) { i.force = force }
}

// NewInstaller creates an Installer writing into gamesDir.
func NewInstaller(gamesDir, appVersion string, opts ...Option) *Installer {
	i := &Installer{
		client:     &http.Client{Timeout: 2 * time.Minute},
		gamesDir:   gamesDir,
		appVersion: appVersion,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install fetches the archive at src (an http(s) URL or a local path),
// checks it against the expected SHA-256, validates every game and
// replaces games_dir/<pack>/ in one rename.
func (i *Installer) Install(ctx context.Context, src, sha256Hex string, progress func(Progress)) (*Installed, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	sha256Hex = strings.ToLower(strings.TrimSpace(sha256Hex))
	if sha256Hex == "" {
		return nil, fmt.Errorf("a sha256 checksum is required")
	}

	progress(Progress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", src)})
	archive, err := i.fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("download pack: %w", err)
	}

	progress(Progress{Stage: "verify", Message: "Verifying checksum..."})
	if err := verifyChecksum(archive, sha256Hex); err != nil {
		return nil, err
	}

	progress(Progress{Stage: "extract", Message: "Unpacking..."})
	files, err := extractTarGz(archive)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	manifestPath, root, err := findManifest(files)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(files[manifestPath], i.appVersion)
	if err != nil {
		return nil, err
	}

	if !i.force {
		if cur, err := i.read(m.Name); err == nil && !m.Newer(&cur.Manifest) {
			return nil, fmt.Errorf("%s %s: %w", m.Name, cur.Version, ErrAlreadyLatest)
		}
	}

	progress(Progress{Stage: "validate", Message: fmt.Sprintf("Checking %s %s...", m.Name, m.Version)})
	games, ids, err := i.validateGames(m, files, root)
	if err != nil {
		return nil, err
	}

	progress(Progress{Stage: "install", Message: fmt.Sprintf("Installing %d games...", len(games))})
	dest := filepath.Join(i.gamesDir, m.Name)
	games[ManifestFile] = files[manifestPath]
	if err := writeAtomic(i.gamesDir, dest, games); err != nil {
		return nil, fmt.Errorf("install pack: %w", err)
	}

	i.logger.Info("installed pack",
		zap.String("pack", m.Name),
		zap.String("version", m.Version),
		zap.Int("games", len(ids)),
		zap.String("dir", dest))
	progress(Progress{Stage: "done", Message: fmt.Sprintf("Installed %s %s", m.Name, m.Version)})

	return &Installed{Manifest: *m, Dir: dest, Games: ids}, nil
}

// validateGames parses every game under root. Any invalid game rejects
// the whole pack.
func (i *Installer) validateGames(m *Manifest, files map[string][]byte, root string) (map[string][]byte, []string, error) {
	games := make(map[string][]byte)
	var ids []string
	var errs []error

	for name, data := range files {
		rel, ok := strings.CutPrefix(name, root)
		if !ok || !isGameFile(rel) {
			continue
		}
		g, err := catalog.Parse(data, path.Join(m.Name, rel), i.appVersion)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		games[rel] = data
		ids = append(ids, g.ID)
	}
	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPack, errors.Join(errs...))
	}
	if len(games) == 0 {
		return nil, nil, fmt.Errorf("%w: no game files", ErrInvalidPack)
	}
	sort.Strings(ids)
	return games, ids, nil
}

// List returns the installed packs, sorted by name.
func (i *Installer) List() ([]Installed, error) {
	entries, err := os.ReadDir(i.gamesDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Installed
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p, err := i.read(e.Name())
		if err != nil {
			continue // plain user game directory
		}
		out = append(out, *p)
	}
	return out, nil
}

// Remove deletes an installed pack.
func (i *Installer) Remove(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid pack name %q", name)
	}
	if _, err := i.read(name); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(i.gamesDir, name))
}

func (i *Installer) read(name string) (*Installed, error) {
	dir := filepath.Join(i.gamesDir, name)
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data, "")
	if err != nil {
		return nil, err
	}

	var ids []string
	c := catalog.New(i.logger)
	if err := c.LoadFS(os.DirFS(dir), name, ""); err != nil {
		i.logger.Warn("installed pack has invalid games", zap.String("pack", name), zap.Error(err))
	}
	for _, g := range c.All() {
		ids = append(ids, g.ID)
	}
	sort.Strings(ids)
	return &Installed{Manifest: *m, Dir: dir, Games: ids}, nil
}

func (i *Installer) fetch(ctx context.Context, src string) ([]byte, error) {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		if u != nil && u.Scheme == "file" {
			src = u.Path
		}
		return readLimited(os.Open(src))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)
	}
	return readAll(resp.Body, maxArchiveSize)
}

func readLimited(f *os.File, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return readAll(f, maxArchiveSize)
}

func readAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("larger than %d bytes", limit)
	}
	return data, nil
}

func verifyChecksum(data []byte, expectedHex string) error {
	h := sha256.Sum256(data)
	actual := hex.EncodeToString(h[:])
	if actual != expectedHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, expectedHex, actual)
	}
	return nil
}

// extractTarGz returns the regular files in the archive keyed by cleaned
// slash path. Links, absolute paths and paths escaping the root are
// rejected.
func extractTarGz(data []byte) (map[string][]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	files := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			continue
		case tar.TypeReg:
		default:
			return nil, fmt.Errorf("unsupported entry %s", hdr.Name)
		}

		name := path.Clean(strings.TrimPrefix(hdr.Name, "./"))
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return nil, fmt.Errorf("unsafe path %s", hdr.Name)
		}
		if len(files) >= maxFiles {
			return nil, fmt.Errorf("more than %d files", maxFiles)
		}
		body, err := readAll(tr, maxFileSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		files[name] = body
	}
	return files, nil
}

// findManifest locates pack.yaml at the archive root or inside a single
// top-level directory, and returns it with the prefix game paths share.
func findManifest(files map[string][]byte) (manifestPath, root string, err error) {
	if _, ok := files[ManifestFile]; ok {
		return ManifestFile, "", nil
	}
	var found []string
	for name := range files {
		if path.Base(name) == ManifestFile && strings.Count(name, "/") == 1 {
			found = append(found, name)
		}
	}
	switch len(found) {
	case 0:
		return "", "", fmt.Errorf("%w: missing %s", ErrInvalidPack, ManifestFile)
	case 1:
		return found[0], path.Dir(found[0]) + "/", nil
	default:
		return "", "", fmt.Errorf("%w: more than one %s", ErrInvalidPack, ManifestFile)
	}
}

func isGameFile(rel string) bool {
	base := path.Base(rel)
	if base == ManifestFile || strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml")
}

// writeAtomic writes files into a hidden temp dir next to dest and swaps
// it into place. The previous install is kept until the swap succeeds.
func writeAtomic(parent, dest string, files map[string][]byte) error {
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp(parent, ".pack-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	for rel, data := range files {
		p := filepath.Join(tmp, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		return err
	}

	backup := ""
	if _, err := os.Stat(dest); err == nil {
		backup = tmp + ".old"
		if err := os.Rename(dest, backup); err != nil {
			return fmt.Errorf("move previous install: %w", err)
		}
	}
	if err := os.Rename(tmp, dest); err != nil {
		if backup != "" {
			_ = os.Rename(backup, dest)
		}
		return fmt.Errorf("rename: %w", err)
	}
	if backup != "" {
		_ = os.RemoveAll(backup)
	}
	return nil
}
