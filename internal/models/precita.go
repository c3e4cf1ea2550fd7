package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PreAppointmentPending  = "pendiente"
	PreAppointmentAccepted = "aceptada"
	PreAppointmentRejected = "rechazada"

	DefaultRejectionNote = "Pre-cita rechazada"
)

// PreAppointment is a request sent from the public landing page. Approving it
// does not create an Appointment.
type PreAppointment struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	NombreCliente       string             `bson:"nombreCliente" json:"nombreCliente" binding:"required"`
	Telefono            string             `bson:"telefono" json:"telefono" binding:"required"`
	Email               string             `bson:"email" json:"email" binding:"required"`
	NombreMascota       string             `bson:"nombreMascota" json:"nombreMascota" binding:"required"`
	TipoMascota         string             `bson:"tipoMascota" json:"tipoMascota" binding:"required"`
	MotivoConsulta      string             `bson:"motivoConsulta" json:"motivoConsulta" binding:"required"`
	FechaPreferida      string             `bson:"fechaPreferida,omitempty" json:"fechaPreferida"`
	HoraPreferida       string             `bson:"horaPreferida,omitempty" json:"horaPreferida"`
	Estado              string             `bson:"estado" json:"estado"`
	NotasAdmin          string             `bson:"notasAdmin,omitempty" json:"notasAdmin"`
	VeterinarioAsignado string             `bson:"veterinarioAsignado,omitempty" json:"veterinarioAsignado"`
	FechaNueva          string             `bson:"fechaNueva,omitempty" json:"fechaNueva"`
	HoraNueva           string             `bson:"horaNueva,omitempty" json:"horaNueva"`
	FechaCreacion       time.Time          `bson:"fechaCreacion" json:"-"`
}

func (p *PreAppointment) ApplyDefaults(now time.Time) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Estado == "" {
		p.Estado = PreAppointmentPending
	}
	p.FechaCreacion = now
}

// ReviewRequest is the body of approve and reject.
type ReviewRequest struct {
	VeterinarioAsignado string `json:"veterinarioAsignado"`
	FechaNueva          string `json:"fechaNueva"`
	HoraNueva           string `json:"horaNueva"`
	NotasAdmin          string `json:"notasAdmin"`
}
