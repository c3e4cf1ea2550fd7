package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/petla/petla-api/internal/middleware"
	"github.com/petla/petla-api/internal/services"
	"github.com/petla/petla-api/internal/store"
	"github.com/petla/petla-api/internal/utils"
)

// Result caps for list endpoints.
const (
	usersLimit           = 200
	petsLimit            = 200
	appointmentsLimit    = 500
	historyLimit         = 500
	preAppointmentsLimit = 200
	notificationsLimit   = 100
	newsletterLimit      = 500
)

// Deps is everything the handlers need. The store is owned by the caller.
type Deps struct {
	Store         store.Store
	Tokens        *utils.TokenIssuer
	Hasher        utils.PasswordHasher
	Notifications *services.NotificationService
	Mailer        services.Mailer
	Log           logrus.FieldLogger
	// Timeout bounds the store work of a single request.
	Timeout time.Duration
}

type Handler struct {
	Store         store.Store
	Tokens        *utils.TokenIssuer
	Hasher        utils.PasswordHasher
	Notifications *services.NotificationService
	Mailer        services.Mailer

	log     logrus.FieldLogger
	timeout time.Duration
	now     func() time.Time
}

func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	mailer := d.Mailer
	if mailer == nil {
		mailer = services.LogMailer{Log: log}
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		Store:         d.Store,
		Tokens:        d.Tokens,
		Hasher:        d.Hasher,
		Notifications: d.Notifications,
		Mailer:        mailer,
		log:           log,
		timeout:       timeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ctx derives the store context for one request. Callers must defer cancel.
func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) logger(c *gin.Context) logrus.FieldLogger {
	return middleware.LoggerFrom(c, h.log)
}

func (h *Handler) coll(name string) store.Collection {
	return h.Store.Collection(name)
}
