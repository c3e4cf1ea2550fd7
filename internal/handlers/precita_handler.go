package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

func (h *Handler) GetPreAppointments(c *gin.Context) {
	filter := bson.M{}
	if estado := c.Query("estado"); estado != "" {
		filter["estado"] = estado
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.PreAppointments).Find(ctx, filter, store.FindOptions{
		Sort: "fechaCreacion", Desc: true, Limit: preAppointmentsLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, store.SerializeAll(docs))
}

func (h *Handler) GetPreAppointment(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.findByKey(ctx, store.PreAppointments, store.ParseKey(c.Param("id")))
	if err != nil {
		h.failFor(c, err, "Pre-cita")
		return
	}
	ok(c, store.Serialize(doc))
}

func (h *Handler) CreatePreAppointment(c *gin.Context) {
	var pre models.PreAppointment
	if err := bindJSON(c, &pre); err != nil {
		h.fail(c, err)
		return
	}
	pre.ApplyDefaults(h.now())

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.insert(ctx, store.PreAppointments, pre)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, store.Serialize(doc))
}

// ApprovePreAppointment records the assigned vet and new slot. Booking the
// actual appointment is left to staff.
func (h *Handler) ApprovePreAppointment(c *gin.Context) {
	var req models.ReviewRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	h.reviewPreAppointment(c, bson.M{
		"estado":              models.PreAppointmentAccepted,
		"veterinarioAsignado": req.VeterinarioAsignado,
		"fechaNueva":          req.FechaNueva,
		"horaNueva":           req.HoraNueva,
		"notasAdmin":          req.NotasAdmin,
		"fechaActualizacion":  h.now(),
	})
}

func (h *Handler) RejectPreAppointment(c *gin.Context) {
	var req models.ReviewRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	notas := req.NotasAdmin
	if notas == "" {
		notas = models.DefaultRejectionNote
	}
	h.reviewPreAppointment(c, bson.M{
		"estado":             models.PreAppointmentRejected,
		"notasAdmin":         notas,
		"fechaActualizacion": h.now(),
	})
}

func (h *Handler) reviewPreAppointment(c *gin.Context, set bson.M) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.PreAppointments, store.ParseKey(c.Param("id")), set)
	if err != nil {
		h.failFor(c, err, "Pre-cita")
		return
	}
	ok(c, store.Serialize(doc))
}

func (h *Handler) DeletePreAppointment(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.deleteByKey(ctx, store.PreAppointments, store.ParseKey(c.Param("id"))); err != nil {
		h.failFor(c, err, "Pre-cita")
		return
	}
	okMessage(c, "Pre-cita deleted successfully")
}
