package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

func (h *Handler) GetSubscribers(c *gin.Context) {
	filter := bson.M{}
	if activo, present := c.GetQuery("activo"); present {
		filter["activo"] = strings.EqualFold(activo, "true")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.NewsletterSubscribers).Find(ctx, filter, store.FindOptions{
		Sort: "fechaSuscripcion", Desc: true, Limit: newsletterLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, store.SerializeAll(docs))
}

// Subscribe keeps one row per email: an inactive subscriber is reactivated
// (200) instead of being inserted again (201).
func (h *Handler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	subs := h.coll(store.NewsletterSubscribers)
	existing, err := subs.FindOne(ctx, bson.M{"email": req.Email})
	switch {
	case err == nil:
		if active, _ := existing["activo"].(bool); active {
			h.fail(c, conflict("Email already subscribed"))
			return
		}
		if _, err := subs.UpdateOne(ctx, bson.M{"email": req.Email}, bson.M{
			"activo":            true,
			"fechaReactivacion": h.now(),
		}); err != nil {
			h.fail(c, err)
			return
		}
		doc, err := subs.FindOne(ctx, bson.M{"email": req.Email})
		if err != nil {
			h.fail(c, err)
			return
		}
		ok(c, store.Serialize(doc))
		return
	case !errors.Is(err, store.ErrNotFound):
		h.fail(c, err)
		return
	}

	origen := req.Origen
	if origen == "" {
		origen = models.DefaultSubscriberSource
	}
	doc, err := h.insert(ctx, store.NewsletterSubscribers, models.Subscriber{
		Email:            req.Email,
		FechaSuscripcion: h.now(),
		Activo:           true,
		Origen:           origen,
	})
	if errors.Is(err, store.ErrDuplicateKey) {
		h.fail(c, conflict("Email already subscribed"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, store.Serialize(doc))
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.coll(store.NewsletterSubscribers).UpdateOne(ctx, bson.M{"email": c.Param("email")}, bson.M{
		"activo":             false,
		"fechaDesuscripcion": h.now(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if res.Matched == 0 {
		h.fail(c, &APIError{Status: http.StatusNotFound, Message: "Email not found"})
		return
	}
	okMessage(c, "Email unsubscribed successfully")
}

func (h *Handler) GetNewsletterEmails(c *gin.Context) {
	filter := bson.M{}
	if estado := c.Query("estado"); estado != "" {
		filter["estado"] = estado
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.NewsletterEmails).Find(ctx, filter, store.FindOptions{
		Sort: "fechaEnvio", Desc: true, Limit: newsletterLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, store.SerializeAll(docs))
}

// SendNewsletter snapshots the active subscribers as recipients, hands the
// message to the mailer and records the send.
func (h *Handler) SendNewsletter(c *gin.Context) {
	var email models.NewsletterEmail
	if err := bindJSON(c, &email); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	active, err := h.coll(store.NewsletterSubscribers).Find(ctx, bson.M{"activo": true}, store.FindOptions{})
	if err != nil {
		h.fail(c, err)
		return
	}
	recipients := make([]string, 0, len(active))
	for _, s := range active {
		if addr, _ := s["email"].(string); addr != "" {
			recipients = append(recipients, addr)
		}
	}

	sent, err := h.Mailer.Send(ctx, recipients, email.Asunto, email.Contenido)
	if err != nil {
		h.fail(c, err)
		return
	}
	email.Destinatarios = recipients
	email.TotalEnviados = sent
	email.ApplyDefaults(h.now())

	doc, err := h.insert(ctx, store.NewsletterEmails, email)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, store.Serialize(doc))
}
