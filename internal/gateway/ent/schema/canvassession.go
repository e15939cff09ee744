package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// CanvasSession holds the schema definition for archived canvas sessions.
type CanvasSession struct {
	ent.Schema
}

// Fields of the CanvasSession.
func (CanvasSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("session_id").
			Unique().
			Immutable(),
		field.Text("idea"),
		field.String("template"),
		field.String("provider").
			Optional(),
		field.String("model").
			Optional(),
		field.JSON("nodes", map[string]any{}).
			Default(map[string]any{}),
		field.Int("question_count").
			Default(0),
		field.Bool("is_complete").
			Default(false),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the CanvasSession.
func (CanvasSession) Edges() []ent.Edge {
	return nil
}
