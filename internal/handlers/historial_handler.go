package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

func (h *Handler) GetClinicalHistory(c *gin.Context) {
	filter := bson.M{}
	for _, field := range []string{"mascotaId", "veterinarioId", "estado"} {
		if v := c.Query(field); v != "" {
			filter[field] = v
		}
	}
	h.listClinicalEntries(c, filter)
}

// GetPetHistory lists one pet's consults, newest first.
func (h *Handler) GetPetHistory(c *gin.Context) {
	h.listClinicalEntries(c, bson.M{"mascotaId": c.Param("petId")})
}

func (h *Handler) listClinicalEntries(c *gin.Context, filter bson.M) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.ClinicalHistory).Find(ctx, filter, store.FindOptions{
		Sort: "fecha", Desc: true, Limit: historyLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, store.SerializeAll(docs))
}

func (h *Handler) GetClinicalEntry(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.findByKey(ctx, store.ClinicalHistory, store.ParseKey(c.Param("id")))
	if err != nil {
		h.failFor(c, err, "Consulta")
		return
	}
	ok(c, store.Serialize(doc))
}

// CreateClinicalEntry records a consult and notifies the pet's owner.
func (h *Handler) CreateClinicalEntry(c *gin.Context) {
	var entry models.ClinicalEntry
	if err := bindJSON(c, &entry); err != nil {
		h.fail(c, err)
		return
	}
	entry.ApplyDefaults(h.now())

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.insert(ctx, store.ClinicalHistory, entry)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.Notifications != nil {
		h.Notifications.ConsultRecorded(ctx, entry)
	}
	created(c, store.Serialize(doc))
}

func (h *Handler) UpdateClinicalEntry(c *gin.Context) {
	var upd models.ClinicalEntryUpdate
	if err := bindOptionalJSON(c, &upd); err != nil {
		h.fail(c, err)
		return
	}
	upd.FechaActualizacion = h.now()

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.ClinicalHistory, store.ParseKey(c.Param("id")), upd)
	if err != nil {
		h.failFor(c, err, "Consulta")
		return
	}
	ok(c, store.Serialize(doc))
}

func (h *Handler) DeleteClinicalEntry(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.deleteByKey(ctx, store.ClinicalHistory, store.ParseKey(c.Param("id"))); err != nil {
		h.failFor(c, err, "Consulta")
		return
	}
	okMessage(c, "Consulta deleted successfully")
}
