package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

func (h *Handler) GetNotifications(c *gin.Context) {
	filter := bson.M{}
	if user := c.Query("usuarioId"); user != "" {
		filter["usuarioId"] = user
	}
	if leida, present := c.GetQuery("leida"); present {
		filter["leida"] = strings.EqualFold(leida, "true")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.Notifications).Find(ctx, filter, store.FindOptions{
		Sort: "fechaCreacion", Desc: true, Limit: notificationsLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, store.SerializeAll(docs))
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var n models.Notification
	if err := bindJSON(c, &n); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	var (
		doc bson.M
		err error
	)
	if h.Notifications != nil {
		doc, err = h.Notifications.Create(ctx, n)
	} else {
		n.ApplyDefaults(h.now())
		doc, err = h.insert(ctx, store.Notifications, n)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, store.Serialize(doc))
}

// MarkNotificationRead is idempotent: a notification already read is stamped
// again and still reported as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.Notifications, store.ParseKey(c.Param("id")), bson.M{
		"leida":        true,
		"fechaLectura": h.now(),
	})
	if err != nil {
		h.failFor(c, err, "Notification")
		return
	}
	ok(c, store.Serialize(doc))
}

// MarkAllNotificationsRead marks every unread notification of one user.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	var req models.MarkAllReadRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.coll(store.Notifications).UpdateMany(ctx,
		bson.M{"usuarioId": req.UsuarioID, "leida": false},
		bson.M{"leida": true, "fechaLectura": h.now()},
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	okMessage(c, fmt.Sprintf("Marked %d notifications as read", res.Modified))
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.deleteByKey(ctx, store.Notifications, store.ParseKey(c.Param("id"))); err != nil {
		h.failFor(c, err, "Notification")
		return
	}
	okMessage(c, "Notification deleted successfully")
}
