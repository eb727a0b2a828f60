package bankgen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated bank; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// AppVersion is checked against generated games by catalog.Parse.
	AppVersion string
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerKeyValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}
