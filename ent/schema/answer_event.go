package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// AnswerEvent records one answered or timed-out question.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "answer_events"}}
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.String("game_id").NotEmpty(),
		field.String("question_id").NotEmpty(),
		field.String("option_id").
			Default("").
			Comment("Empty when the countdown ran out"),
		field.Bool("correct"),
		field.Bool("timed_out").Default(false),
		field.Int64("time_ms").
			Comment("Milliseconds to answer"),
	}
}
