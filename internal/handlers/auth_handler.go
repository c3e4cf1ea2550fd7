package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/middleware"
	"github.com/petla/petla-api/internal/models"
	"github.com/petla/petla-api/internal/store"
	"github.com/petla/petla-api/internal/utils"
)

// Login accepts an email, username or phone number as the identifier.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	identifier := req.Login()
	if identifier == "" || req.Password == "" {
		h.fail(c, badRequest("identifier and password required"))
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, err := h.coll(store.Users).FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
		bson.M{"telefono": identifier},
	}})
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, unauthorized("invalid credentials"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	digest, _ := user["password"].(string)
	if !h.Hasher.Verify(req.Password, digest) {
		h.logger(c).WithField("identifier", identifier).Info("login rejected")
		h.fail(c, unauthorized("invalid credentials"))
		return
	}

	tokens, err := h.issue(user)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tokens": tokens, "user": serializeUser(user)})
}

// Register creates an account and signs it in.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.checkUserUnique(ctx, req.Email, req.Username, nil, "email already exists", "username already exists"); err != nil {
		h.fail(c, err)
		return
	}

	digest, err := h.Hasher.Hash(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	user := req.User
	user.Password = digest
	user.ApplyDefaults(h.now())

	doc, err := h.insert(ctx, store.Users, user)
	if errors.Is(err, store.ErrDuplicateKey) {
		h.fail(c, userConflict(err, "email already exists", "username already exists"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	tokens, err := h.issue(doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	if user.Rol == models.RoleClient && h.Notifications != nil {
		h.Notifications.Welcome(ctx, user.ID, user.Nombre)
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "tokens": tokens, "user": serializeUser(doc)})
}

// RefreshToken trades a valid refresh token for a new pair.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	claims, err := h.Tokens.Verify(req.RefreshToken, utils.TokenTypeRefresh)
	if err != nil {
		h.fail(c, unauthorized("invalid token"))
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, err := h.findByKey(ctx, store.Users, store.ParseKey(claims.Subject))
	if errors.Is(err, store.ErrNotFound) {
		h.fail(c, notFound("user"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	tokens, err := h.issue(user)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tokens": tokens})
}

// Me returns the profile of the caller identified by the access token.
func (h *Handler) Me(c *gin.Context) {
	userID, _, authed := middleware.CurrentUser(c)
	if !authed {
		h.fail(c, unauthorized("Authentication required"))
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, err := h.findByKey(ctx, store.Users, store.ParseKey(userID))
	if err != nil {
		h.failFor(c, err, "User")
		return
	}
	ok(c, serializeUser(user))
}

func (h *Handler) issue(user bson.M) (utils.TokenPair, error) {
	role, _ := user["rol"].(string)
	if role == "" {
		role = models.RoleClient
	}
	id, _ := store.Serialize(user)["id"].(string)
	return h.Tokens.Issue(id, role)
}

// checkUserUnique reports a conflict when email or username already belong to
// a user other than self.
func (h *Handler) checkUserUnique(ctx context.Context, email, username string, self *store.Key, emailMsg, usernameMsg string) error {
	taken := func(field, value string) (bool, error) {
		doc, err := h.coll(store.Users).FindOne(ctx, bson.M{field: value})
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if self != nil && sameDocument(doc, *self) {
			return false, nil
		}
		return true, nil
	}

	if email != "" {
		dup, err := taken("email", email)
		if err != nil {
			return err
		}
		if dup {
			return conflict(emailMsg)
		}
	}
	if username != "" {
		dup, err := taken("username", username)
		if err != nil {
			return err
		}
		if dup {
			return conflict(usernameMsg)
		}
	}
	return nil
}

func sameDocument(doc bson.M, key store.Key) bool {
	if key.Native() {
		return doc["_id"] == key.ObjectID()
	}
	id, _ := doc["id"].(string)
	return id == key.String()
}
