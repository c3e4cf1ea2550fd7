package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func seedAppointments(t *testing.T, coll Collection) {
	t.Helper()
	ctx := context.Background()
	for _, d := range []bson.M{
		{"mascota": "Rex", "fecha": "2024-05-03", "estado": "aceptada", "precio": 40},
		{"mascota": "Luna", "fecha": "2024-05-01", "estado": "pendiente_pago", "precio": 25.5},
		{"mascota": "Toby", "fecha": "2024-05-02", "estado": "aceptada"},
	} {
		_, err := coll.InsertOne(ctx, d)
		require.NoError(t, err)
	}
}

func names(docs []bson.M) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["mascota"].(string))
	}
	return out
}

func TestMemory_FindFilterSortLimit(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection(Appointments)
	seedAppointments(t, coll)

	docs, err := coll.Find(ctx, bson.M{"estado": "aceptada"}, FindOptions{Sort: "fecha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Toby", "Rex"}, names(docs))

	docs, err = coll.Find(ctx, bson.M{}, FindOptions{Sort: "fecha", Desc: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rex", "Toby"}, names(docs))

	docs, err = coll.Find(ctx, bson.M{"fecha": bson.M{"$gte": "2024-05-02", "$lte": "2024-05-03"}}, FindOptions{Sort: "fecha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Toby", "Rex"}, names(docs))

	docs, err = coll.Find(ctx, bson.M{"precio": bson.M{"$gt": 30}}, FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rex"}, names(docs))
}

func TestMemory_OrAndRegex(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection(Users)
	for _, d := range []bson.M{
		{"nombre": "Laura", "email": "laura@example.com"},
		{"nombre": "Carlos", "email": "dr.carlos@example.com"},
		{"nombre": "Ana", "email": "ana@petla.app"},
	} {
		_, err := coll.InsertOne(ctx, d)
		require.NoError(t, err)
	}

	docs, err := coll.Find(ctx, bson.M{"$or": []bson.M{
		{"nombre": bson.M{"$regex": "CARL", "$options": "i"}},
		{"email": bson.M{"$regex": "petla", "$options": "i"}},
	}}, FindOptions{Sort: "nombre"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Ana", docs[0]["nombre"])
	assert.Equal(t, "Carlos", docs[1]["nombre"])

	_, err = coll.FindOne(ctx, bson.M{"nombre": "Nadie"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, EnsureDefaultIndexes(ctx, s))
	users := s.Collection(Users)

	_, err := users.InsertOne(ctx, bson.M{"email": "a@a.com"})
	require.NoError(t, err)
	// username is sparse: two users without it are fine
	_, err = users.InsertOne(ctx, bson.M{"email": "b@b.com"})
	require.NoError(t, err)

	_, err = users.InsertOne(ctx, bson.M{"email": "a@a.com"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = users.UpdateOne(ctx, bson.M{"email": "b@b.com"}, bson.M{"email": "a@a.com"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, "email", DuplicateField(err))

	_, err = users.UpdateOne(ctx, bson.M{"email": "a@a.com"}, bson.M{"username": "ana"})
	require.NoError(t, err)
	_, err = users.UpdateOne(ctx, bson.M{"email": "b@b.com"}, bson.M{"username": "ana"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, "username", DuplicateField(err))
}

func TestMemory_UnsetOne(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, EnsureDefaultIndexes(ctx, s))
	users := s.Collection(Users)

	for _, email := range []string{"a@a.com", "b@b.com"} {
		_, err := users.InsertOne(ctx, bson.M{"email": email, "username": "u-" + email})
		require.NoError(t, err)
		res, err := users.UnsetOne(ctx, bson.M{"email": email}, "username")
		require.NoError(t, err)
		assert.Equal(t, UpdateResult{Matched: 1, Modified: 1}, res)
	}

	doc, err := users.FindOne(ctx, bson.M{"email": "a@a.com"})
	require.NoError(t, err)
	assert.NotContains(t, doc, "username")

	// both users lack a username now, which the sparse index allows
	_, err = users.UpdateOne(ctx, bson.M{"email": "a@a.com"}, bson.M{"nombre": "A"})
	require.NoError(t, err)

	res, err := users.UnsetOne(ctx, bson.M{"email": "a@a.com"}, "username")
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Matched: 1}, res)

	res, err = users.UnsetOne(ctx, bson.M{"email": "nobody"}, "username")
	require.NoError(t, err)
	assert.Zero(t, res.Matched)
}

func TestMemory_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection(Notifications)
	for _, leida := range []bool{false, false, true} {
		_, err := coll.InsertOne(ctx, bson.M{"usuarioId": "u1", "leida": leida})
		require.NoError(t, err)
	}
	_, err := coll.InsertOne(ctx, bson.M{"usuarioId": "u2", "leida": false})
	require.NoError(t, err)

	res, err := coll.UpdateMany(ctx, bson.M{"usuarioId": "u1", "leida": false}, bson.M{"leida": true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Matched)
	assert.Equal(t, int64(2), res.Modified)

	// setting the same value again matches but modifies nothing
	res, err = coll.UpdateOne(ctx, bson.M{"usuarioId": "u2"}, bson.M{"leida": false})
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Matched: 1, Modified: 0}, res)

	n, err := coll.DeleteOne(ctx, bson.M{"usuarioId": "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = coll.DeleteMany(ctx, bson.M{"usuarioId": "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	docs, err := coll.Find(ctx, bson.M{}, FindOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection(Pets)
	oid, err := coll.InsertOne(ctx, bson.M{"nombre": "Max"})
	require.NoError(t, err)

	doc, err := coll.FindOne(ctx, bson.M{"_id": oid})
	require.NoError(t, err)
	doc["nombre"] = "changed"

	again, err := coll.FindOne(ctx, bson.M{"_id": oid})
	require.NoError(t, err)
	assert.Equal(t, "Max", again["nombre"])
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Collection(Pets).Find(ctx, bson.M{}, FindOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
