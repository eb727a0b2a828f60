package packs

import (
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizling/internal/catalog"
)

// ManifestFile is the name of the manifest at the root of every pack.
const ManifestFile = "pack.yaml"

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Manifest describes a content pack.
type Manifest struct {
	Name          string `yaml:"name"`
	Title         string `yaml:"title,omitempty"`
	Version       string `yaml:"version"`
	MinAppVersion string `yaml:"min_app_version,omitempty"`
	Description   string `yaml:"description,omitempty"`
}

// ParseManifest decodes and checks a pack.yaml document against the
// running app version.
func ParseManifest(data []byte, appVersion string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidPack, ManifestFile, err)
	}
	if !namePattern.MatchString(m.Name) {
		return nil, fmt.Errorf("%w: pack name %q must be lowercase letters, digits and dashes", ErrInvalidPack, m.Name)
	}
	if !semver.IsValid(canonical(m.Version)) {
		return nil, fmt.Errorf("%w: pack version %q is not a semantic version", ErrInvalidPack, m.Version)
	}
	if err := catalog.CheckAppVersion(m.MinAppVersion, appVersion); err != nil {
		return nil, fmt.Errorf("pack %s: %w", m.Name, err)
	}
	return &m, nil
}

// Newer reports whether m is a later version than other.
func (m *Manifest) Newer(other *Manifest) bool {
	return semver.Compare(canonical(m.Version), canonical(other.Version)) > 0
}

func canonical(v string) string {
	if v != "" && v[0] != 'v' {
		return "v" + v
	}
	return v
}
