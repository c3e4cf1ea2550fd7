package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

// Counter is told about every notification the service generates.
type Counter interface {
	NotificationGenerated(tipo string)
}

// NotificationService writes in-app notifications when something happens that
// a client should hear about. Generation is best-effort: failures are logged
// and never fail the request that triggered them.
type NotificationService struct {
	store   store.Store
	counter Counter
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewNotificationService(st store.Store, counter Counter, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{store: st, counter: counter, log: log, now: time.Now}
}

// Create stores n with its defaults applied and returns the stored document.
func (s *NotificationService) Create(ctx context.Context, n models.Notification) (bson.M, error) {
	n.ApplyDefaults(s.now())
	id, err := s.store.Collection(store.Notifications).InsertOne(ctx, n)
	if err != nil {
		return nil, err
	}
	if s.counter != nil {
		s.counter.NotificationGenerated(n.Tipo)
	}
	return s.store.Collection(store.Notifications).FindOne(ctx, bson.M{"_id": id})
}

// Welcome greets a newly registered client.
func (s *NotificationService) Welcome(ctx context.Context, userID primitive.ObjectID, nombre string) {
	s.emit(ctx, models.Notification{
		UsuarioID: userID.Hex(),
		Tipo:      models.NotificationWelcome,
		Titulo:    "¡Bienvenido a nuestra clínica veterinaria!",
		Mensaje: fmt.Sprintf("Hola %s, nos alegra tenerte en nuestra familia. "+
			"Aquí podrás gestionar el cuidado de tus mascotas de manera fácil y segura.", nombre),
	})
}

// PaymentReviewed tells the appointment's owner whether the payment was accepted.
func (s *NotificationService) PaymentReviewed(ctx context.Context, cita bson.M, accepted bool) {
	owner, _ := cita["clienteId"].(string)
	if owner == "" {
		return
	}
	mascota, _ := cita["mascota"].(string)
	datos := map[string]any{
		"mascotaNombre": mascota,
		"veterinario":   cita["veterinario"],
		"fechaCita":     cita["fecha"],
		"motivo":        cita["motivo"],
	}
	if oid, ok := cita["_id"].(primitive.ObjectID); ok {
		datos["citaId"] = oid.Hex()
	}

	n := models.Notification{UsuarioID: owner, Datos: datos}
	if accepted {
		n.Tipo = models.NotificationAppointmentOK
		n.Titulo = "¡Cita confirmada!"
		n.Mensaje = fmt.Sprintf("Tu cita para %s ha sido aceptada y confirmada.", mascota)
	} else {
		n.Tipo = models.NotificationAppointmentNotOK
		n.Titulo = "Cita rechazada"
		n.Mensaje = fmt.Sprintf("El pago de la cita para %s no pudo ser validado.", mascota)
	}
	s.emit(ctx, n)
}

// ConsultRecorded tells the pet's owner that a clinical entry was added.
func (s *NotificationService) ConsultRecorded(ctx context.Context, entry models.ClinicalEntry) {
	pet, err := s.store.Collection(store.Pets).FindOne(ctx, store.ParseKey(entry.MascotaID).Filter())
	if err != nil {
		s.log.WithError(err).WithField("mascotaId", entry.MascotaID).Debug("no owner for clinical entry")
		return
	}
	owner, _ := pet["clienteId"].(string)
	if owner == "" {
		return
	}
	nombre := entry.MascotaNombre
	if nombre == "" {
		nombre, _ = pet["nombre"].(string)
	}
	s.emit(ctx, models.Notification{
		UsuarioID: owner,
		Tipo:      models.NotificationConsultRecorded,
		Titulo:    "Consulta médica registrada",
		Mensaje: fmt.Sprintf("Se ha registrado la consulta médica de %s. "+
			"Los detalles están disponibles en el historial clínico.", nombre),
		Datos: map[string]any{
			"mascotaNombre": nombre,
			"veterinario":   entry.Veterinario,
			"fechaCita":     entry.Fecha,
			"motivo":        entry.Motivo,
		},
	})
}

func (s *NotificationService) emit(ctx context.Context, n models.Notification) {
	if _, err := s.Create(ctx, n); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"tipo":      n.Tipo,
			"usuarioId": n.UsuarioID,
		}).Warn("could not generate notification")
	}
}
