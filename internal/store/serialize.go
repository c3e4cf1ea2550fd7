package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeLayout is the textual form of every timestamp leaving the API.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Serialize turns a stored document into a transport-safe mapping: _id becomes
// the string field "id", ObjectIDs become hex strings and timestamps become
// ISO-8601 text, at any depth. Everything else is copied as is.
func Serialize(doc bson.M) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		out["id"] = oid.Hex()
	}
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = serializeValue(v)
	}
	return out
}

// SerializeAll applies Serialize to every document, never returning nil.
func SerializeAll(docs []bson.M) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, Serialize(d))
	}
	return out
}

func serializeValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return FormatTime(t.Time())
	case time.Time:
		return FormatTime(t)
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = serializeValue(e.Value)
		}
		return out
	case bson.M:
		return serializeMap(t)
	case map[string]any:
		return serializeMap(t)
	case primitive.A:
		return serializeList(t)
	case []any:
		return serializeList(t)
	default:
		return v
	}
}

func serializeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = serializeValue(v)
	}
	return out
}

func serializeList(l []any) []any {
	out := make([]any, len(l))
	for i, v := range l {
		out[i] = serializeValue(v)
	}
	return out
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ToDocument converts a typed model into a bson.M using its bson tags, so
// omitempty fields stay out of inserts and $set updates.
func ToDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
