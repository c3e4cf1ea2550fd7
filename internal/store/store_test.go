package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseKey(t *testing.T) {
	oid := primitive.NewObjectID()

	native := ParseKey(oid.Hex())
	assert.True(t, native.Native())
	assert.Equal(t, oid, native.ObjectID())
	assert.Equal(t, bson.M{"_id": oid}, native.Filter())

	legacy := ParseKey("1712345678901")
	assert.False(t, legacy.Native())
	assert.Equal(t, bson.M{"id": "1712345678901"}, legacy.Filter())
}

func TestSerialize_Nil(t *testing.T) {
	assert.Nil(t, Serialize(nil))
}

func TestSerialize_RenamesIDAndFormatsTimes(t *testing.T) {
	oid := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	created := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	out := Serialize(bson.M{
		"_id":           oid,
		"nombre":        "Rex",
		"clienteRef":    owner,
		"fechaCreacion": primitive.NewDateTimeFromTime(created),
		"vacunas":       primitive.A{"rabia"},
		"datos":         bson.M{"citaId": "x"},
	})

	assert.Equal(t, oid.Hex(), out["id"])
	assert.NotContains(t, out, "_id")
	assert.Equal(t, "Rex", out["nombre"])
	assert.Equal(t, owner.Hex(), out["clienteRef"])
	assert.Equal(t, "2024-05-01T10:30:00.000Z", out["fechaCreacion"])
	assert.Equal(t, primitive.A{"rabia"}, out["vacunas"])
	assert.Equal(t, bson.M{"citaId": "x"}, out["datos"])
}

func TestSerialize_RoundTripAfterInsert(t *testing.T) {
	ctx := context.Background()
	coll := NewMemory().Collection(Pets)

	type pet struct {
		Nombre        string    `bson:"nombre"`
		FechaCreacion time.Time `bson:"fechaCreacion"`
	}
	oid, err := coll.InsertOne(ctx, pet{Nombre: "Max", FechaCreacion: time.Now()})
	require.NoError(t, err)

	doc, err := coll.FindOne(ctx, bson.M{"_id": oid})
	require.NoError(t, err)

	out := Serialize(doc)
	assert.Equal(t, oid.Hex(), out["id"])
	assert.NotContains(t, out, "_id")
	assert.IsType(t, "", out["fechaCreacion"])
}

func TestToDocument_OmitsEmptyFields(t *testing.T) {
	type update struct {
		Nombre *string `bson:"nombre,omitempty"`
		Raza   *string `bson:"raza,omitempty"`
	}
	name := "Luna"
	doc, err := ToDocument(update{Nombre: &name})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"nombre": "Luna"}, doc)
}

func TestDuplicateField(t *testing.T) {
	err := fmt.Errorf("insert: %w", &DuplicateKeyError{Field: "username"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, "username", DuplicateField(err))
	assert.Empty(t, DuplicateField(ErrNotFound))
}

func TestDuplicateIndexField(t *testing.T) {
	msg := `E11000 duplicate key error collection: petla.users index: username_1 dup key: { username: "ana" }`
	assert.Equal(t, "username", duplicateIndexField(msg))
	assert.Equal(t, "email", duplicateIndexField("index: email_1 dup key"))
	assert.Empty(t, duplicateIndexField("something else"))
}
