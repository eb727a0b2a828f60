package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records the start and end of one play of a game.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "game_sessions"}}
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events of one play"),
		field.String("game_id").
			NotEmpty(),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.Int("questions_total").Default(0),
		field.Int("questions_answered").
			Default(0).
			Comment("On end only"),
		field.Int("score").Default(0),
		field.Int("coins").Default(0),
		field.Int("xp").Default(0),
		field.Int("accuracy").
			Default(0).
			Comment("Percent, 0-100"),
		field.Bool("passed").Default(false),
		field.Int("best_streak").Default(0),
		field.Int("duration_secs").Default(0),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("game_id", "action"),
	}
}
