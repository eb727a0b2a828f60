package catalog

import "go.uber.org/zap"

// Hard reward defaults used when neither the catalog nor the caller set a value.
const (
	DefaultCoinsPerLevel = 1
	DefaultTotalCoins    = 5
	DefaultTotalXP       = 10
)

// ResolveRewards picks each reward parameter from the game's catalog entry,
// then from override (values handed over by the screen that launched the
// game), then from the hard defaults. A game without catalog rewards logs a
// warning and still resolves.
func ResolveRewards(g *Game, override Rewards, logger *zap.Logger) Rewards {
	var catalog Rewards
	switch {
	case g == nil:
		logWarn(logger, "game not in catalog, using fallback rewards")
	case g.Rewards == nil:
		logWarn(logger, "game has no rewards, using fallback rewards", zap.String("game", g.ID))
	default:
		catalog = *g.Rewards
	}

	return Rewards{
		CoinsPerLevel: firstPositive(catalog.CoinsPerLevel, override.CoinsPerLevel, DefaultCoinsPerLevel),
		TotalCoins:    firstPositive(catalog.TotalCoins, override.TotalCoins, DefaultTotalCoins),
		TotalXP:       firstPositive(catalog.TotalXP, override.TotalXP, DefaultTotalXP),
	}
}

// CoinsPerCorrect returns the coins a correct answer earns under resolved
// rewards r.
func (g *Game) CoinsPerCorrect(r Rewards) int {
	if g.Scoring.CoinsPerCorrect > 0 {
		return g.Scoring.CoinsPerCorrect
	}
	return r.CoinsPerLevel
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func logWarn(logger *zap.Logger, msg string, fields ...zap.Field) {
	if logger != nil {
		logger.Warn(msg, fields...)
	}
}
