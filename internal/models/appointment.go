package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment workflow: pendiente_pago -> en_validacion -> aceptada|rechazada,
// and aceptada -> atendida.
const (
	AppointmentPendingPayment = "pendiente_pago"
	AppointmentInValidation   = "en_validacion"
	AppointmentAccepted       = "aceptada"
	AppointmentRejected       = "rechazada"
	AppointmentAttended       = "atendida"

	DefaultLocation = "Clínica Principal"
)

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Mascota         string             `bson:"mascota" json:"mascota" binding:"required"`
	MascotaID       string             `bson:"mascotaId,omitempty" json:"mascotaId"`
	Especie         string             `bson:"especie" json:"especie"`
	ClienteID       string             `bson:"clienteId,omitempty" json:"clienteId"`
	ClienteNombre   string             `bson:"clienteNombre,omitempty" json:"clienteNombre"`
	Fecha           string             `bson:"fecha" json:"fecha" binding:"required"`
	Estado          string             `bson:"estado" json:"estado"`
	Veterinario     string             `bson:"veterinario" json:"veterinario"`
	VeterinarioID   string             `bson:"veterinarioId,omitempty" json:"veterinarioId"`
	Motivo          string             `bson:"motivo" json:"motivo" binding:"required"`
	TipoConsulta    string             `bson:"tipoConsulta" json:"tipoConsulta" binding:"required"`
	Ubicacion       string             `bson:"ubicacion" json:"ubicacion"`
	Precio          float64            `bson:"precio" json:"precio"`
	Notas           string             `bson:"notas,omitempty" json:"notas"`
	ComprobantePago string             `bson:"comprobantePago,omitempty" json:"comprobantePago"`
	ComprobanteData *PaymentProof      `bson:"comprobanteData,omitempty" json:"comprobanteData"`
	NotasAdmin      string             `bson:"notasAdmin,omitempty" json:"notasAdmin"`
	FechaCreacion   time.Time          `bson:"fechaCreacion" json:"-"`
}

func (a *Appointment) ApplyDefaults(now time.Time) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.Estado == "" {
		a.Estado = AppointmentPendingPayment
	}
	if a.Ubicacion == "" {
		a.Ubicacion = DefaultLocation
	}
	a.FechaCreacion = now
}

// PaymentProof describes an uploaded receipt; Data is a data-URI.
type PaymentProof struct {
	ID           string `bson:"id,omitempty" json:"id"`
	Data         string `bson:"data" json:"data"`
	OriginalName string `bson:"originalName,omitempty" json:"originalName"`
	Size         int64  `bson:"size,omitempty" json:"size"`
	Type         string `bson:"type,omitempty" json:"type"`
	Timestamp    int64  `bson:"timestamp,omitempty" json:"timestamp"`
}

type AppointmentUpdate struct {
	Mascota         *string       `bson:"mascota,omitempty" json:"mascota"`
	MascotaID       *string       `bson:"mascotaId,omitempty" json:"mascotaId"`
	Especie         *string       `bson:"especie,omitempty" json:"especie"`
	ClienteID       *string       `bson:"clienteId,omitempty" json:"clienteId"`
	ClienteNombre   *string       `bson:"clienteNombre,omitempty" json:"clienteNombre"`
	Fecha           *string       `bson:"fecha,omitempty" json:"fecha"`
	Estado          *string       `bson:"estado,omitempty" json:"estado"`
	Veterinario     *string       `bson:"veterinario,omitempty" json:"veterinario"`
	VeterinarioID   *string       `bson:"veterinarioId,omitempty" json:"veterinarioId"`
	Motivo          *string       `bson:"motivo,omitempty" json:"motivo"`
	TipoConsulta    *string       `bson:"tipoConsulta,omitempty" json:"tipoConsulta"`
	Ubicacion       *string       `bson:"ubicacion,omitempty" json:"ubicacion"`
	Precio          *float64      `bson:"precio,omitempty" json:"precio"`
	Notas           *string       `bson:"notas,omitempty" json:"notas"`
	ComprobantePago *string       `bson:"comprobantePago,omitempty" json:"comprobantePago"`
	ComprobanteData *PaymentProof `bson:"comprobanteData,omitempty" json:"comprobanteData"`
	NotasAdmin      *string       `bson:"notasAdmin,omitempty" json:"notasAdmin"`

	FechaActualizacion time.Time `bson:"fechaActualizacion" json:"-"`
}

type StatusRequest struct {
	Estado     string `json:"estado"`
	Status     string `json:"status"`
	NotasAdmin string `json:"notasAdmin"`
}

func (r StatusRequest) Value() string {
	if r.Estado != "" {
		return r.Estado
	}
	return r.Status
}

type ValidatePaymentRequest struct {
	Valid      *bool  `json:"valid"`
	NotasAdmin string `json:"notasAdmin"`
}

type AttendRequest struct {
	HistorialData map[string]any `json:"historialData"`
	Notas         string         `json:"notas"`
}
