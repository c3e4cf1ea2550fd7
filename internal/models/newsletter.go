package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultSubscriberSource = "web"
	NewsletterSent          = "enviado"
)

type SubscribeRequest struct {
	Email  string `json:"email" binding:"required"`
	Origen string `json:"origen"`
}

// Subscriber is never deleted; unsubscribing clears Activo.
type Subscriber struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email            string             `bson:"email" json:"email"`
	FechaSuscripcion time.Time          `bson:"fechaSuscripcion" json:"-"`
	Activo           bool               `bson:"activo" json:"activo"`
	Origen           string             `bson:"origen" json:"origen"`
}

// NewsletterEmail records a send, with the recipient list as it was at send time.
type NewsletterEmail struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Asunto        string             `bson:"asunto" json:"asunto" binding:"required"`
	Contenido     string             `bson:"contenido" json:"contenido" binding:"required"`
	FechaEnvio    time.Time          `bson:"fechaEnvio" json:"-"`
	Destinatarios []string           `bson:"destinatarios" json:"-"`
	Estado        string             `bson:"estado" json:"estado"`
	ColorTema     string             `bson:"colorTema,omitempty" json:"colorTema"`
	Plantilla     string             `bson:"plantilla,omitempty" json:"plantilla"`
	Imagenes      []StoredFile       `bson:"imagenes" json:"imagenes"`
	Archivos      []StoredFile       `bson:"archivos" json:"archivos"`
	TotalEnviados int                `bson:"totalEnviados" json:"-"`
}

func (e *NewsletterEmail) ApplyDefaults(now time.Time) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Estado == "" {
		e.Estado = NewsletterSent
	}
	if e.Imagenes == nil {
		e.Imagenes = []StoredFile{}
	}
	if e.Archivos == nil {
		e.Archivos = []StoredFile{}
	}
	if e.Destinatarios == nil {
		e.Destinatarios = []string{}
	}
	e.FechaEnvio = now
}

// StoredFile is an inline file attached to a newsletter; Data is base64.
type StoredFile struct {
	Name string `bson:"name" json:"name"`
	Data string `bson:"data" json:"data"`
	Size int64  `bson:"size" json:"size"`
	Type string `bson:"type" json:"type"`
}
