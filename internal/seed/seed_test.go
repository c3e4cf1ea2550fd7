package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/store"
)

func TestDefaultFixtureParses(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	assert.Len(t, f.Users, 3)
	assert.Len(t, f.Pets, 1)
	assert.Len(t, f.Appointments, 1)
}

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	f, err := Default()
	require.NoError(t, err)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	rep, err := Apply(ctx, st, f, now)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Inserted[store.Users])
	assert.Equal(t, 1, rep.Inserted[store.Pets])
	assert.Equal(t, 1, rep.Inserted[store.Appointments])

	rep, err = Apply(ctx, st, f, now)
	require.NoError(t, err)
	assert.Empty(t, rep.Inserted)
	assert.Equal(t, 3, rep.Updated[store.Users])

	users, err := st.Collection(store.Users).Find(ctx, bson.M{}, store.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 3)

	cita, err := st.Collection(store.Appointments).FindOne(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02T09:00", cita["fecha"])
}

func TestApply_RejectsBadID(t *testing.T) {
	f := Fixture{Users: []Record{{ID: "nope", Fields: map[string]any{"email": "x@example.com"}}}}
	_, err := Apply(context.Background(), store.NewMemory(), f, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad id")
}

func TestParse_Error(t *testing.T) {
	_, err := Parse([]byte("users: [unterminated"))
	require.Error(t, err)
}
