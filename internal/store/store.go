// Package store wraps the document database behind a small interface so the
// handlers can run against MongoDB in production and an in-memory store in tests.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	Users                 = "users"
	Pets                  = "pets"
	Appointments          = "appointments"
	ClinicalHistory       = "historial_clinico"
	PreAppointments       = "pre_citas"
	Notifications         = "notificaciones"
	NewsletterSubscribers = "newsletter_suscriptores"
	NewsletterEmails      = "newsletter_emails"
)

var (
	ErrNotFound     = errors.New("store: document not found")
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// DuplicateKeyError is a unique index violation on Field. It matches
// ErrDuplicateKey with errors.Is.
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: duplicate key on %s: %v", e.Field, e.Err)
	}
	return "store: duplicate key on " + e.Field
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// DuplicateField returns the field a duplicate-key error collided on, or "".
func DuplicateField(err error) string {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return dup.Field
	}
	return ""
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	EnsureIndexes(ctx context.Context, collection string, indexes ...Index) error
	Close(ctx context.Context) error
}

// Collection is the subset of collection operations the API needs.
// UpdateOne and UpdateMany apply set as a $set document; UnsetOne removes
// fields from the first matching document.
type Collection interface {
	Find(ctx context.Context, filter bson.M, opts FindOptions) ([]bson.M, error)
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)
	InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter bson.M, set any) (UpdateResult, error)
	UpdateMany(ctx context.Context, filter bson.M, set any) (UpdateResult, error)
	UnsetOne(ctx context.Context, filter bson.M, fields ...string) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}

type FindOptions struct {
	Sort  string
	Desc  bool
	Limit int64
}

type UpdateResult struct {
	Matched  int64
	Modified int64
}

type Index struct {
	Field  string
	Unique bool
	Sparse bool
}

// DefaultIndexes lists the indexes the API relies on, keyed by collection.
func DefaultIndexes() map[string][]Index {
	return map[string][]Index{
		Users: {
			{Field: "email", Unique: true},
			{Field: "username", Unique: true, Sparse: true},
		},
		Pets:                  {{Field: "clienteId"}, {Field: "nombre"}},
		Appointments:          {{Field: "fecha"}, {Field: "estado"}, {Field: "veterinarioId"}},
		ClinicalHistory:       {{Field: "mascotaId"}},
		Notifications:         {{Field: "usuarioId"}},
		NewsletterSubscribers: {{Field: "email", Unique: true}},
	}
}

// EnsureDefaultIndexes creates every index from DefaultIndexes.
func EnsureDefaultIndexes(ctx context.Context, s Store) error {
	for coll, idx := range DefaultIndexes() {
		if err := s.EnsureIndexes(ctx, coll, idx...); err != nil {
			return err
		}
	}
	return nil
}

// Key identifies a document from a path parameter. A 24-char hex string is a
// native ObjectID and matches _id; anything else matches the legacy string id field.
type Key struct {
	raw    string
	oid    primitive.ObjectID
	native bool
}

func ParseKey(s string) Key {
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return Key{raw: s, oid: oid, native: true}
	}
	return Key{raw: s}
}

func (k Key) Native() bool                 { return k.native }
func (k Key) ObjectID() primitive.ObjectID { return k.oid }
func (k Key) String() string               { return k.raw }

func (k Key) Filter() bson.M {
	if k.native {
		return bson.M{"_id": k.oid}
	}
	return bson.M{"id": k.raw}
}
