package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// LLMLog holds the schema definition for the llm_logs audit table.
type LLMLog struct {
	ent.Schema
}

// Fields of the LLMLog.
func (LLMLog) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			Unique().
			Immutable(),
		field.Time("created_at").
			Default(time.Now),
		field.String("purpose"),
		field.String("provider").
			Optional(),
		field.String("model").
			Optional(),
		field.Text("prompt").
			Optional(),
		field.Text("response").
			Optional(),
		field.Int64("latency_ms").
			Optional(),
		field.Text("error").
			Optional(),
	}
}

// Edges of the LLMLog.
func (LLMLog) Edges() []ent.Edge {
	return nil
}
