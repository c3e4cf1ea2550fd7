package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

// GetPets lists pets, youngest first, optionally for one owner.
func (h *Handler) GetPets(c *gin.Context) {
	filter := bson.M{}
	if owner := firstQuery(c, "clienteId", "cliente_id"); owner != "" {
		filter["clienteId"] = owner
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.Pets).Find(ctx, filter, store.FindOptions{
		Sort: "fechaNacimiento", Desc: true, Limit: petsLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, store.SerializeAll(docs))
}

func (h *Handler) GetPet(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.findByKey(ctx, store.Pets, store.ParseKey(c.Param("id")))
	if err != nil {
		h.failFor(c, err, "Pet")
		return
	}
	ok(c, store.Serialize(doc))
}

func (h *Handler) CreatePet(c *gin.Context) {
	var pet models.Pet
	if err := bindJSON(c, &pet); err != nil {
		h.fail(c, err)
		return
	}
	pet.ApplyDefaults(h.now())

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.insert(ctx, store.Pets, pet)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, store.Serialize(doc))
}

func (h *Handler) UpdatePet(c *gin.Context) {
	var upd models.PetUpdate
	if err := bindOptionalJSON(c, &upd); err != nil {
		h.fail(c, err)
		return
	}
	upd.FechaActualizacion = h.now()

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.Pets, store.ParseKey(c.Param("id")), upd)
	if err != nil {
		h.failFor(c, err, "Pet")
		return
	}
	ok(c, store.Serialize(doc))
}

func (h *Handler) DeletePet(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.deleteByKey(ctx, store.Pets, store.ParseKey(c.Param("id"))); err != nil {
		h.failFor(c, err, "Pet")
		return
	}
	okMessage(c, "Pet deleted successfully")
}

// UploadPetPhoto stores the photo inline as a data-URI in the pet's foto.
func (h *Handler) UploadPetPhoto(c *gin.Context) {
	var (
		up  upload
		err error
	)
	if isMultipart(c) {
		up, err = readMultipartFile(c)
	} else {
		var in inlineFile
		if err = bindOptionalJSON(c, &in); err == nil {
			up, err = normalizeInline(in)
		}
	}
	if errors.Is(err, errNoFile) {
		err = badRequest("file required")
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.Pets, store.ParseKey(c.Param("id")), bson.M{
		"foto":               up.DataURI,
		"fechaActualizacion": h.now(),
	})
	if err != nil {
		h.failFor(c, err, "Pet")
		return
	}
	ok(c, store.Serialize(doc))
}
