package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://quizling/game.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ErrIncompatible is returned for game files that need a newer quizling.
var ErrIncompatible = errors.New("game requires a newer quizling")

// ValidationError lists every problem found in one game file.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, strings.Join(e.Problems, "; "))
}

// Schema returns the JSON schema every game file must satisfy.
func Schema() []byte {
	return schemaJSON
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse game schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add game schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Parse decodes and validates one YAML game document. appVersion gates
// min_app_version; an empty or non-semver appVersion accepts everything.
func Parse(data []byte, source, appVersion string) (*Game, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parse yaml: %w", source, err)
	}
	if err := validateDocument(raw, source); err != nil {
		return nil, err
	}

	var g Game
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%s: decode game: %w", source, err)
	}
	g.Source = source

	if err := CheckAppVersion(g.MinAppVersion, appVersion); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if err := Validate(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// validateDocument checks the raw YAML tree against the game schema.
func validateDocument(raw any, source string) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees plain JSON values.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%s: encode document: %w", source, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: decode document: %w", source, err)
	}

	if err := schema.Validate(doc); err != nil {
		return &ValidationError{Source: source, Problems: schemaProblems(err)}
	}
	return nil
}

// schemaProblems turns the validator's multi-line report into one entry
// per failing location.
func schemaProblems(err error) []string {
	lines := strings.Split(err.Error(), "\n")
	var out []string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-"))
		if line != "" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		out = []string{lines[0]}
	}
	return out
}

// Validate runs the checks the schema cannot express: unique ids, at least
// one correct option per question, a time limit for reflex games and a
// reachable pass threshold.
func Validate(g *Game) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if g.ID == "" {
		add("missing id")
	}
	if len(g.Questions) == 0 {
		add("no questions")
	}

	seenQ := make(map[string]bool)
	for i, q := range g.Questions {
		if seenQ[q.ID] {
			add("question %d: duplicate id %q", i+1, q.ID)
		}
		seenQ[q.ID] = true

		if len(q.Options) < 2 || len(q.Options) > 6 {
			add("question %q: has %d options, want 2-6", q.ID, len(q.Options))
		}
		seenO := make(map[string]bool)
		for _, o := range q.Options {
			if seenO[o.ID] {
				add("question %q: duplicate option id %q", q.ID, o.ID)
			}
			seenO[o.ID] = true
		}
		if len(q.CorrectOptions()) == 0 {
			add("question %q: no correct option", q.ID)
		}
	}

	if g.PlayKind() == KindReflex && !g.Timed() {
		add("reflex game needs a time_limit")
	}
	if g.TimeLimit < 0 {
		add("negative time_limit")
	}
	if g.Pass.MinScore > 0 && g.Pass.MinAccuracy > 0 {
		add("pass sets both min_score and min_accuracy")
	}
	if top := len(g.Questions) * g.PointsPerCorrect(); g.Pass.MinScore > top {
		add("pass.min_score %d is above the maximum score %d", g.Pass.MinScore, top)
	}
	if g.Next == g.ID && g.ID != "" {
		add("next points at itself")
	}

	if len(problems) > 0 {
		source := g.Source
		if source == "" {
			source = g.ID
		}
		return &ValidationError{Source: source, Problems: problems}
	}
	return nil
}

// CheckAppVersion returns ErrIncompatible when appVersion is older than
// minVersion.
func CheckAppVersion(minVersion, appVersion string) error {
	if minVersion == "" {
		return nil
	}
	minV := canonicalVersion(minVersion)
	if !semver.IsValid(minV) {
		return fmt.Errorf("invalid min_app_version %q", minVersion)
	}
	appV := canonicalVersion(appVersion)
	if !semver.IsValid(appV) {
		// Development builds accept every file.
		return nil
	}
	if semver.Compare(appV, minV) < 0 {
		return fmt.Errorf("%w: needs %s, running %s", ErrIncompatible, minV, appV)
	}
	return nil
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
