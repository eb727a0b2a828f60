package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiledSchemas sync.Map // Schema.Name -> *jsonschema.Schema

// validateResponse checks raw against req.Schema and then req.Check.
// Every failure is an *ErrInvalidResponse carrying raw.
func validateResponse(req Request, raw json.RawMessage) error {
	invalid := func(question int, err error) error {
		return &ErrInvalidResponse{Content: raw, Question: question, Err: err}
	}

	if req.Schema != nil {
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return invalid(0, fmt.Errorf("not JSON: %w", err))
		}
		compiled, err := compileSchema(req.Schema)
		if err != nil {
			return invalid(0, err)
		}
		if err := compiled.Validate(doc); err != nil {
			return invalid(schemaQuestion(err), fmt.Errorf("does not match %s: %w", req.Schema.Name, err))
		}
	}

	if req.Check != nil {
		if err := req.Check(raw); err != nil {
			return invalid(questionOf(err), err)
		}
	}
	return nil
}

// schemaQuestion finds the first leaf violation and returns its question
// number when it sits under /questions/<i>.
func schemaQuestion(err error) int {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return 0
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	loc := verr.InstanceLocation
	for i := 0; i+1 < len(loc); i++ {
		if loc[i] != "questions" {
			continue
		}
		if n, convErr := strconv.Atoi(loc[i+1]); convErr == nil {
			return n + 1
		}
	}
	return 0
}

func compileSchema(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiledSchemas.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go maps with typed
	// slices, so round-trip the definition.
	encoded, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", s.Name, err)
	}

	url := "mem://schemas/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", s.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}

	compiledSchemas.Store(s.Name, compiled)
	return compiled, nil
}
