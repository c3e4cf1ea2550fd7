package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleClient = "cliente"
	RoleVet    = "veterinario"
	RoleAdmin  = "admin"
)

// User is both the create payload and the stored document. Password holds the
// plain text on the way in and the bcrypt digest once stored; responses go
// through store.Serialize and never include it.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Nombre          string             `bson:"nombre" json:"nombre" binding:"required"`
	Apellidos       string             `bson:"apellidos,omitempty" json:"apellidos"`
	Username        string             `bson:"username,omitempty" json:"username"`
	Email           string             `bson:"email" json:"email" binding:"required"`
	Telefono        string             `bson:"telefono,omitempty" json:"telefono"`
	Direccion       string             `bson:"direccion,omitempty" json:"direccion"`
	FechaNacimiento string             `bson:"fechaNacimiento,omitempty" json:"fechaNacimiento"`
	Genero          string             `bson:"genero,omitempty" json:"genero"`
	Rol             string             `bson:"rol" json:"rol"`
	Password        string             `bson:"password,omitempty" json:"password"`
	Documento       string             `bson:"documento,omitempty" json:"documento"`
	TipoDocumento   string             `bson:"tipoDocumento,omitempty" json:"tipoDocumento"`
	Foto            string             `bson:"foto,omitempty" json:"foto"`
	FechaRegistro   time.Time          `bson:"fechaRegistro" json:"-"`

	// Veterinarian-only fields.
	Especialidad string `bson:"especialidad,omitempty" json:"especialidad"`
	Experiencia  string `bson:"experiencia,omitempty" json:"experiencia"`
	Colegiatura  string `bson:"colegiatura,omitempty" json:"colegiatura"`
}

func (u *User) ApplyDefaults(now time.Time) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Rol == "" {
		u.Rol = RoleClient
	}
	u.FechaRegistro = now
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Nombre          *string `bson:"nombre,omitempty" json:"nombre"`
	Apellidos       *string `bson:"apellidos,omitempty" json:"apellidos"`
	Username        *string `bson:"username,omitempty" json:"username"`
	Email           *string `bson:"email,omitempty" json:"email"`
	Telefono        *string `bson:"telefono,omitempty" json:"telefono"`
	Direccion       *string `bson:"direccion,omitempty" json:"direccion"`
	FechaNacimiento *string `bson:"fechaNacimiento,omitempty" json:"fechaNacimiento"`
	Genero          *string `bson:"genero,omitempty" json:"genero"`
	Rol             *string `bson:"rol,omitempty" json:"rol"`
	Password        *string `bson:"password,omitempty" json:"password"`
	Documento       *string `bson:"documento,omitempty" json:"documento"`
	TipoDocumento   *string `bson:"tipoDocumento,omitempty" json:"tipoDocumento"`
	Foto            *string `bson:"foto,omitempty" json:"foto"`
	Especialidad    *string `bson:"especialidad,omitempty" json:"especialidad"`
	Experiencia     *string `bson:"experiencia,omitempty" json:"experiencia"`
	Colegiatura     *string `bson:"colegiatura,omitempty" json:"colegiatura"`

	FechaActualizacion time.Time `bson:"fechaActualizacion" json:"-"`
}

type RegisterRequest struct {
	User
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// Login accepts either identifier or the older email key.
func (r LoginRequest) Login() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	return r.Email
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
