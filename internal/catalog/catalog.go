package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed games/*.yaml
var builtinGames embed.FS

// Builtin returns the games shipped with quizling.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinGames, "games")
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalog is the ordered set of games keyed by id.
type Catalog struct {
	games  map[string]*Game
	order  []string
	logger *zap.Logger
}

// Options configures Load.
type Options struct {
	// AppVersion gates game files that declare min_app_version.
	AppVersion string

	// Dirs are user game directories overlaid on the built-in games, in
	// order. Missing directories are skipped.
	Dirs []string

	Logger *zap.Logger
}

// New returns an empty catalog.
func New(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		games:  make(map[string]*Game),
		logger: logger,
	}
}

// Load builds the catalog from the built-in games and opts.Dirs. Invalid or
// incompatible user files are skipped with a warning; broken built-in games
// are an error.
func Load(opts Options) (*Catalog, error) {
	c := New(opts.Logger)

	if err := c.LoadFS(Builtin(), "builtin", opts.AppVersion); err != nil {
		return nil, fmt.Errorf("load built-in games: %w", err)
	}

	for _, dir := range opts.Dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := c.LoadFS(os.DirFS(dir), dir, opts.AppVersion); err != nil {
			c.logger.Warn("skipped game files", zap.String("dir", dir), zap.Error(err))
		}
	}

	for _, err := range c.CheckLinks() {
		c.logger.Warn("broken game link", zap.Error(err))
	}
	return c, nil
}

// LoadFS adds every *.yaml game under fsys. Games with an id already in the
// catalog replace the earlier one. Files that fail to parse are skipped and
// reported together in the returned error.
func (c *Catalog) LoadFS(fsys fs.FS, source, appVersion string) error {
	var errs []error
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && p != "." && strings.HasPrefix(d.Name(), ".") {
			// In-progress pack installs and other hidden directories.
			return fs.SkipDir
		}
		if d.IsDir() || !isGameFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", p, err))
			return nil
		}
		g, err := Parse(data, path.Join(source, p), appVersion)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		c.Add(g)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", source, err)
	}
	return errors.Join(errs...)
}

// isGameFile reports whether p is a game document. pack.yaml is a pack
// manifest, not a game.
func isGameFile(p string) bool {
	base := path.Base(p)
	if base == "pack.yaml" || strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml")
}

// Add inserts g, replacing any game with the same id in place.
func (c *Catalog) Add(g *Game) {
	if _, ok := c.games[g.ID]; ok {
		c.logger.Debug("game overridden", zap.String("id", g.ID), zap.String("source", g.Source))
	} else {
		c.order = append(c.order, g.ID)
	}
	c.games[g.ID] = g
}

// Lookup returns the game with the given id.
func (c *Catalog) Lookup(id string) (*Game, bool) {
	g, ok := c.games[id]
	return g, ok
}

// All returns every game in load order.
func (c *Catalog) All() []*Game {
	out := make([]*Game, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.games[id])
	}
	return out
}

// Len returns the number of games.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Topics returns the distinct topics, sorted.
func (c *Catalog) Topics() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, id := range c.order {
		t := c.games[id].Topic
		if !seen[t] {
			seen[t] = true
			topics = append(topics, t)
		}
	}
	sort.Strings(topics)
	return topics
}

// ByTopic returns the games of one topic in load order.
func (c *Catalog) ByTopic(topic string) []*Game {
	var out []*Game
	for _, id := range c.order {
		if g := c.games[id]; g.Topic == topic {
			out = append(out, g)
		}
	}
	return out
}

// CheckLinks reports next links that point at unknown games.
func (c *Catalog) CheckLinks() []error {
	var errs []error
	for _, id := range c.order {
		g := c.games[id]
		if g.Next == "" {
			continue
		}
		if _, ok := c.games[g.Next]; !ok {
			errs = append(errs, fmt.Errorf("%s: next game %q not found", g.ID, g.Next))
		}
	}
	return errs
}

// TopicTitle turns a topic slug like "ai-literacy" into "AI Literacy".
func TopicTitle(topic string) string {
	words := strings.FieldsFunc(topic, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		switch strings.ToLower(w) {
		case "ai":
			words[i] = "AI"
		default:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
