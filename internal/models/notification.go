package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds generated by the API itself.
const (
	NotificationWelcome          = "bienvenida_cliente"
	NotificationAppointmentOK    = "cita_aceptada"
	NotificationAppointmentNotOK = "cita_rechazada"
	NotificationConsultRecorded  = "consulta_registrada"
)

type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UsuarioID     string             `bson:"usuarioId" json:"usuarioId" binding:"required"`
	Tipo          string             `bson:"tipo" json:"tipo" binding:"required"`
	Titulo        string             `bson:"titulo" json:"titulo" binding:"required"`
	Mensaje       string             `bson:"mensaje" json:"mensaje" binding:"required"`
	Leida         bool               `bson:"leida" json:"leida"`
	Datos         map[string]any     `bson:"datos" json:"datos"`
	FechaCreacion time.Time          `bson:"fechaCreacion" json:"-"`
}

func (n *Notification) ApplyDefaults(now time.Time) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.Datos == nil {
		n.Datos = map[string]any{}
	}
	n.FechaCreacion = now
}

type MarkAllReadRequest struct {
	UsuarioID string `json:"usuarioId" binding:"required"`
}
