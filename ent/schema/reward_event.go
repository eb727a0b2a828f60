package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RewardEvent records a coin, XP or badge award.
type RewardEvent struct {
	ent.Schema
}

func (RewardEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "reward_events"}}
}

func (RewardEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RewardEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").NotEmpty(),
		field.String("game_id").Default(""),
		field.String("kind").
			NotEmpty().
			Comment("coins, xp, streak, perfect or completion"),
		field.String("rarity").
			Default("").
			Comment("Badges only"),
		field.Int("amount").
			Default(0).
			Comment("Coins or XP; 0 for badges"),
		field.String("reason").Default(""),
	}
}

func (RewardEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind"),
		index.Fields("session_id"),
	}
}
