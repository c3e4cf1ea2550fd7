package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PetStatusHealthy = "saludable"

type Pet struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Nombre          string             `bson:"nombre" json:"nombre" binding:"required"`
	Especie         string             `bson:"especie" json:"especie" binding:"required"`
	Raza            string             `bson:"raza" json:"raza" binding:"required"`
	Sexo            string             `bson:"sexo,omitempty" json:"sexo"`
	FechaNacimiento string             `bson:"fechaNacimiento" json:"fechaNacimiento" binding:"required"`
	Peso            any                `bson:"peso,omitempty" json:"peso"` // number or text, as the clients send it
	Microchip       string             `bson:"microchip,omitempty" json:"microchip"`
	Estado          string             `bson:"estado" json:"estado"`
	ClienteID       string             `bson:"clienteId" json:"clienteId" binding:"required"`
	ProximaCita     string             `bson:"proximaCita,omitempty" json:"proximaCita"`
	UltimaVacuna    string             `bson:"ultimaVacuna,omitempty" json:"ultimaVacuna"`
	Foto            string             `bson:"foto,omitempty" json:"foto"`
	FechaCreacion   time.Time          `bson:"fechaCreacion" json:"-"`
}

func (p *Pet) ApplyDefaults(now time.Time) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Estado == "" {
		p.Estado = PetStatusHealthy
	}
	p.FechaCreacion = now
}

type PetUpdate struct {
	Nombre          *string `bson:"nombre,omitempty" json:"nombre"`
	Especie         *string `bson:"especie,omitempty" json:"especie"`
	Raza            *string `bson:"raza,omitempty" json:"raza"`
	Sexo            *string `bson:"sexo,omitempty" json:"sexo"`
	FechaNacimiento *string `bson:"fechaNacimiento,omitempty" json:"fechaNacimiento"`
	Peso            any     `bson:"peso,omitempty" json:"peso"`
	Microchip       *string `bson:"microchip,omitempty" json:"microchip"`
	Estado          *string `bson:"estado,omitempty" json:"estado"`
	ClienteID       *string `bson:"clienteId,omitempty" json:"clienteId"`
	ProximaCita     *string `bson:"proximaCita,omitempty" json:"proximaCita"`
	UltimaVacuna    *string `bson:"ultimaVacuna,omitempty" json:"ultimaVacuna"`
	Foto            *string `bson:"foto,omitempty" json:"foto"`

	FechaActualizacion time.Time `bson:"fechaActualizacion" json:"-"`
}
