package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

// GetAppointments lists appointments in date order. fechaDesde and fechaHasta
// bound fecha inclusively; both compare as text, so dates must share a format.
func (h *Handler) GetAppointments(c *gin.Context) {
	filter := bson.M{}
	if estado := c.Query("estado"); estado != "" {
		filter["estado"] = estado
	}
	if vet := firstQuery(c, "veterinarioId", "vetId"); vet != "" {
		filter["veterinarioId"] = vet
	}
	if owner := c.Query("clienteId"); owner != "" {
		filter["clienteId"] = owner
	}
	if pet := c.Query("mascotaId"); pet != "" {
		filter["mascotaId"] = pet
	}
	dateRange := bson.M{}
	if from := c.Query("fechaDesde"); from != "" {
		dateRange["$gte"] = from
	}
	if to := c.Query("fechaHasta"); to != "" {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["fecha"] = dateRange
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.Appointments).Find(ctx, filter, store.FindOptions{
		Sort: "fecha", Limit: appointmentsLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, store.SerializeAll(docs))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.findByKey(ctx, store.Appointments, store.ParseKey(c.Param("id")))
	if err != nil {
		h.failFor(c, err, "Appointment")
		return
	}
	ok(c, store.Serialize(doc))
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var cita models.Appointment
	if err := bindJSON(c, &cita); err != nil {
		h.fail(c, err)
		return
	}
	cita.ApplyDefaults(h.now())

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.insert(ctx, store.Appointments, cita)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, store.Serialize(doc))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var upd models.AppointmentUpdate
	if err := bindOptionalJSON(c, &upd); err != nil {
		h.fail(c, err)
		return
	}
	upd.FechaActualizacion = h.now()
	h.setAppointment(c, upd)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.deleteByKey(ctx, store.Appointments, store.ParseKey(c.Param("id"))); err != nil {
		h.failFor(c, err, "Appointment")
		return
	}
	okMessage(c, "Appointment deleted successfully")
}

// UpdateAppointmentStatus sets any estado; it does not enforce the workflow.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	var req models.StatusRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Value() == "" {
		h.fail(c, badRequest("estado required"))
		return
	}

	set := bson.M{"estado": req.Value(), "fechaActualizacion": h.now()}
	if req.NotasAdmin != "" {
		set["notasAdmin"] = req.NotasAdmin
	}
	h.setAppointment(c, set)
}

// UploadPaymentProof attaches a payment receipt and moves the appointment to
// en_validacion. The receipt is a multipart "file", a JSON comprobanteData
// object, or inline base64 data.
func (h *Handler) UploadPaymentProof(c *gin.Context) {
	id := c.Param("id")
	var proof *models.PaymentProof

	if isMultipart(c) {
		up, err := readMultipartFile(c)
		if errors.Is(err, errNoFile) {
			err = badRequest("file or comprobanteData required")
		}
		if err != nil {
			h.fail(c, err)
			return
		}
		proof = &models.PaymentProof{
			ID:           id,
			Data:         up.DataURI,
			OriginalName: up.Name,
			Size:         up.Size,
			Type:         up.Type,
			Timestamp:    h.now().UnixMilli(),
		}
	} else {
		var req struct {
			inlineFile
			ComprobanteData *models.PaymentProof `json:"comprobanteData"`
		}
		if err := bindOptionalJSON(c, &req); err != nil {
			h.fail(c, err)
			return
		}
		proof = req.ComprobanteData
		if proof == nil && req.Data != "" {
			up, err := normalizeInline(req.inlineFile)
			if err != nil {
				h.fail(c, err)
				return
			}
			proof = &models.PaymentProof{
				ID:           id,
				Data:         up.DataURI,
				OriginalName: up.Name,
				Size:         up.Size,
				Type:         up.Type,
				Timestamp:    h.now().UnixMilli(),
			}
		}
	}
	if proof == nil {
		h.fail(c, badRequest("file or comprobanteData required"))
		return
	}

	h.setAppointment(c, bson.M{
		"comprobanteData":    proof,
		"comprobantePago":    proof.Data,
		"estado":             models.AppointmentInValidation,
		"fechaActualizacion": h.now(),
	})
}

// ValidatePayment accepts or rejects the appointment and tells its owner.
func (h *Handler) ValidatePayment(c *gin.Context) {
	var req models.ValidatePaymentRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Valid == nil {
		h.fail(c, badRequest("valid field required"))
		return
	}

	estado := models.AppointmentRejected
	if *req.Valid {
		estado = models.AppointmentAccepted
	}
	set := bson.M{"estado": estado, "fechaActualizacion": h.now()}
	if req.NotasAdmin != "" {
		set["notasAdmin"] = req.NotasAdmin
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.Appointments, store.ParseKey(c.Param("id")), set)
	if err != nil {
		h.failFor(c, err, "Appointment")
		return
	}
	if h.Notifications != nil {
		h.Notifications.PaymentReviewed(ctx, doc, *req.Valid)
	}
	ok(c, store.Serialize(doc))
}

// AttendAppointment marks the appointment atendida whatever its current state.
func (h *Handler) AttendAppointment(c *gin.Context) {
	var req models.AttendRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	set := bson.M{"estado": models.AppointmentAttended, "fechaActualizacion": h.now()}
	if len(req.HistorialData) > 0 {
		set["historialData"] = req.HistorialData
	}
	if req.Notas != "" {
		set["notas"] = req.Notas
	}
	h.setAppointment(c, set)
}

func (h *Handler) setAppointment(c *gin.Context, set any) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.Appointments, store.ParseKey(c.Param("id")), set)
	if err != nil {
		h.failFor(c, err, "Appointment")
		return
	}
	ok(c, store.Serialize(doc))
}
