package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/store"
	"github.com/petla/petla-api/internal/utils"
)

// APIError is an error with the status and message the client should see.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func badRequest(msg string) *APIError { return &APIError{Status: http.StatusBadRequest, Message: msg} }

func notFound(what string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: what + " not found"}
}

func conflict(msg string) *APIError { return &APIError{Status: http.StatusConflict, Message: msg} }

func unauthorized(msg string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: msg}
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func okMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// fail writes the error envelope for err. Errors that are not part of the API
// contract are logged and reported as a generic 500.
func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := h.classify(err)
	if status >= http.StatusInternalServerError {
		h.logger(c).WithError(err).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (h *Handler) classify(err error) (int, string) {
	var apiErr *APIError
	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &apiErr):
		return apiErr.Status, apiErr.Message
	case errors.As(err, &verrs) && len(verrs) > 0:
		return http.StatusBadRequest, fieldMessage(verrs[0])
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "invalid JSON body"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, store.ErrDuplicateKey):
		return http.StatusConflict, "duplicate key"
	case errors.Is(err, utils.ErrTokenExpired), errors.Is(err, utils.ErrTokenInvalid), errors.Is(err, utils.ErrTokenType):
		return http.StatusUnauthorized, "invalid token"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return fe.Field() + " required"
	}
	return fmt.Sprintf("%s invalid", fe.Field())
}

// bindJSON decodes the body into obj and checks its required fields. An empty
// body is validated as an empty object so the first missing field is reported.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(obj)
	}
	return err
}

// bindOptionalJSON decodes the body into obj, accepting an empty body.
func bindOptionalJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// serializeUser reshapes a stored user and drops the password digest.
func serializeUser(doc bson.M) map[string]any {
	out := store.Serialize(doc)
	delete(out, "password")
	return out
}

func serializeUsers(docs []bson.M) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, serializeUser(d))
	}
	return out
}
