package rewards

import "time"

// Kind identifies what was awarded.
type Kind string

const (
	KindCoins      Kind = "coins"
	KindXP         Kind = "xp"
	KindStreak     Kind = "streak"
	KindPerfect    Kind = "perfect"
	KindCompletion Kind = "completion"
)

// BadgeKinds returns the kinds shown as badges, in display order.
func BadgeKinds() []Kind {
	return []Kind{KindStreak, KindPerfect, KindCompletion}
}

// IsBadge reports whether the kind is a badge rather than a currency.
func (k Kind) IsBadge() bool {
	return k != KindCoins && k != KindXP
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindCoins:
		return "Coins"
	case KindXP:
		return "XP"
	case KindStreak:
		return "Streak"
	case KindPerfect:
		return "Perfect"
	case KindCompletion:
		return "Completion"
	default:
		return string(k)
	}
}

// Icon returns the display icon for the kind.
func (k Kind) Icon() string {
	switch k {
	case KindCoins:
		return "🪙"
	case KindXP:
		return "⭐"
	case KindStreak:
		return "⚡"
	case KindPerfect:
		return "💎"
	case KindCompletion:
		return "🏆"
	default:
		return "✦"
	}
}

// Award is one coin, XP or badge grant.
type Award struct {
	Kind      Kind
	Rarity    Rarity // empty for coins and XP
	Amount    int    // coins or XP; 0 for badges
	SessionID string
	GameID    string
	Reason    string
	AwardedAt time.Time
}
