package llm

import (
	"math"
	"testing"
)

func TestEstimateCost(t *testing.T) {
	usd, ok := EstimateCost("gpt-4o-mini", 1_000_000, 500_000)
	if !ok {
		t.Fatal("gpt-4o-mini should be priced")
	}
	if math.Abs(usd-0.45) > 1e-9 {
		t.Errorf("cost = %v, want 0.45", usd)
	}

	if _, ok := EstimateCost("meta-llama/llama-3-8b", 10, 10); ok {
		t.Error("unknown model should not be priced")
	}
}

func TestDefaultModelsArePriced(t *testing.T) {
	for _, name := range []string{"anthropic", "openai", "gemini"} {
		b := backends[name]
		id := resolveModel(b.defaultModel, b.models)
		if LookupCost(id) == nil {
			t.Errorf("%s default model %q has no price", name, id)
		}
	}
}
