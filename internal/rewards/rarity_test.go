package rewards

import "testing"

func TestStreakRarity(t *testing.T) {
	tests := []struct {
		length int
		want   Rarity
	}{
		{5, RarityCommon},
		{9, RarityCommon},
		{10, RarityRare},
		{15, RarityEpic},
		{19, RarityEpic},
		{20, RarityLegendary},
		{100, RarityLegendary},
	}

	for _, tt := range tests {
		got := StreakRarity(tt.length)
		if got != tt.want {
			t.Errorf("StreakRarity(%d) = %q, want %q", tt.length, got, tt.want)
		}
	}
}

func TestAccuracyRarity(t *testing.T) {
	tests := []struct {
		accuracy int
		want     Rarity
	}{
		{0, RarityCommon},
		{49, RarityCommon},
		{50, RarityRare},
		{74, RarityRare},
		{75, RarityEpic},
		{89, RarityEpic},
		{90, RarityLegendary},
		{100, RarityLegendary},
	}

	for _, tt := range tests {
		got := AccuracyRarity(tt.accuracy)
		if got != tt.want {
			t.Errorf("AccuracyRarity(%d) = %q, want %q", tt.accuracy, got, tt.want)
		}
	}
}

func TestNextStreakThreshold(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{0, 5},
		{4, 5},
		{5, 10},
		{14, 15},
		{19, 20},
		{20, 25},
		{25, 30},
	}

	for _, tt := range tests {
		got := NextStreakThreshold(tt.current)
		if got != tt.want {
			t.Errorf("NextStreakThreshold(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestKindIsBadge(t *testing.T) {
	for _, k := range BadgeKinds() {
		if !k.IsBadge() {
			t.Errorf("%s should be a badge", k)
		}
	}
	if KindCoins.IsBadge() || KindXP.IsBadge() {
		t.Error("coins and xp are not badges")
	}
}
