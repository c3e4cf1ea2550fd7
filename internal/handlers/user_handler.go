package handlers

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/middleware"
	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
)

// GetUsers lists users, optionally by role and a free-text search over
// nombre, email and apellidos.
func (h *Handler) GetUsers(c *gin.Context) {
	filter := bson.M{}
	if rol := firstQuery(c, "rol", "role"); rol != "" {
		filter["rol"] = rol
	}
	if search := c.Query("search"); search != "" {
		pattern := regexp.QuoteMeta(search)
		filter["$or"] = bson.A{
			bson.M{"nombre": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"apellidos": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	docs, err := h.coll(store.Users).Find(ctx, filter, store.FindOptions{
		Sort: "fechaRegistro", Desc: true, Limit: usersLimit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, serializeUsers(docs))
}

func (h *Handler) GetUser(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.findByKey(ctx, store.Users, store.ParseKey(c.Param("id")))
	if err != nil {
		h.failFor(c, err, "User")
		return
	}
	ok(c, serializeUser(doc))
}

// CreateUser is the admin-side create; unlike Register the password is optional.
func (h *Handler) CreateUser(c *gin.Context) {
	var user models.User
	if err := bindJSON(c, &user); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.checkUserUnique(ctx, user.Email, user.Username, nil, "Email already exists", "Username already exists"); err != nil {
		h.fail(c, err)
		return
	}
	if user.Password != "" {
		digest, err := h.Hasher.Hash(user.Password)
		if err != nil {
			h.fail(c, err)
			return
		}
		user.Password = digest
	}
	user.ApplyDefaults(h.now())

	doc, err := h.insert(ctx, store.Users, user)
	if errors.Is(err, store.ErrDuplicateKey) {
		h.fail(c, userConflict(err, "Email already exists", "Username already exists"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, serializeUser(doc))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	h.updateUser(c, store.ParseKey(c.Param("id")))
}

// UpdateProfile updates the caller's own user document.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _, authed := middleware.CurrentUser(c)
	if !authed {
		h.fail(c, unauthorized("Authentication required"))
		return
	}
	h.updateUser(c, store.ParseKey(userID))
}

func (h *Handler) updateUser(c *gin.Context, key store.Key) {
	var upd models.UserUpdate
	if err := bindOptionalJSON(c, &upd); err != nil {
		h.fail(c, err)
		return
	}

	if upd.Email != nil && strings.TrimSpace(*upd.Email) == "" {
		h.fail(c, badRequest("email required"))
		return
	}
	// An empty username removes the field so the sparse unique index skips it.
	clearUsername := upd.Username != nil && strings.TrimSpace(*upd.Username) == ""
	if clearUsername {
		upd.Username = nil
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.checkUserUnique(ctx, deref(upd.Email), deref(upd.Username), &key, "Email already exists", "Username already exists"); err != nil {
		h.fail(c, err)
		return
	}
	if upd.Password != nil {
		digest, err := h.Hasher.Hash(*upd.Password)
		if err != nil {
			h.fail(c, err)
			return
		}
		upd.Password = &digest
	}
	upd.FechaActualizacion = h.now()

	if clearUsername {
		if _, err := h.coll(store.Users).UnsetOne(ctx, key.Filter(), "username"); err != nil {
			h.fail(c, err)
			return
		}
	}
	doc, err := h.updateByKey(ctx, store.Users, key, upd)
	if errors.Is(err, store.ErrDuplicateKey) {
		h.fail(c, userConflict(err, "Email already exists", "Username already exists"))
		return
	}
	if err != nil {
		h.failFor(c, err, "User")
		return
	}
	ok(c, serializeUser(doc))
}

// DeleteUser removes the user, then their pets, appointments and
// notifications. The follow-up deletes are independent and best-effort: a
// failure is logged and leaves orphans behind, the response stays 200.
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.deleteByKey(ctx, store.Users, store.ParseKey(id)); err != nil {
		h.failFor(c, err, "User")
		return
	}

	var result *multierror.Error
	removed := logrus.Fields{"user_id": id}
	for _, dep := range []struct{ coll, field string }{
		{store.Pets, "clienteId"},
		{store.Appointments, "clienteId"},
		{store.Notifications, "usuarioId"},
	} {
		n, err := h.coll(dep.coll).DeleteMany(ctx, bson.M{dep.field: id})
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		removed[dep.coll] = n
	}
	log := h.logger(c).WithFields(removed)
	if err := result.ErrorOrNil(); err != nil {
		log.WithError(err).Warn("user deleted, cascade incomplete")
	} else {
		log.Info("user deleted")
	}
	okMessage(c, "User deleted successfully")
}

// UploadAvatar stores the picture inline as a data-URI in the user's foto.
// It takes a multipart "file" plus a "userId" form field, or a JSON body with
// userId and base64 data.
func (h *Handler) UploadAvatar(c *gin.Context) {
	var (
		up     upload
		userID string
		err    error
	)
	if isMultipart(c) {
		up, err = readMultipartFile(c)
		if errors.Is(err, errNoFile) {
			err = badRequest("file required")
		}
		userID = c.PostForm("userId")
	} else {
		var req struct {
			inlineFile
			UserID string `json:"userId"`
		}
		if err = bindOptionalJSON(c, &req); err == nil {
			up, err = normalizeInline(req.inlineFile)
			if errors.Is(err, errNoFile) {
				err = badRequest("file required")
			}
		}
		userID = req.UserID
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if userID == "" {
		h.fail(c, badRequest("userId required"))
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	doc, err := h.updateByKey(ctx, store.Users, store.ParseKey(userID), bson.M{
		"foto":               up.DataURI,
		"fechaActualizacion": h.now(),
	})
	if err != nil {
		h.failFor(c, err, "User")
		return
	}
	ok(c, serializeUser(doc))
}

// userConflict turns a duplicate-key error into the message for the field
// that collided.
func userConflict(err error, emailMsg, usernameMsg string) error {
	if store.DuplicateField(err) == "username" {
		return conflict(usernameMsg)
	}
	return conflict(emailMsg)
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
