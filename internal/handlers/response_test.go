package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petla/petla-api/internal/logging"
	"github.com/petla/petla-api/internal/store"
	"github.com/petla/petla-api/internal/utils"
)

func TestClassify(t *testing.T) {
	h := NewHandler(Deps{Log: logging.Discard()})

	var syntaxErr error = &json.SyntaxError{}
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"api error", conflict("Email already exists"), http.StatusConflict, "Email already exists"},
		{"wrapped api error", fmt.Errorf("ctx: %w", notFound("Pet")), http.StatusNotFound, "Pet not found"},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "request body too large"},
		{"syntax", syntaxErr, http.StatusBadRequest, "invalid JSON body"},
		{"truncated", io.ErrUnexpectedEOF, http.StatusBadRequest, "invalid JSON body"},
		{"store not found", store.ErrNotFound, http.StatusNotFound, "not found"},
		{"duplicate", fmt.Errorf("%w: email", store.ErrDuplicateKey), http.StatusConflict, "duplicate key"},
		{"expired token", utils.ErrTokenExpired, http.StatusUnauthorized, "invalid token"},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := h.classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestUserConflict(t *testing.T) {
	h := NewHandler(Deps{Log: logging.Discard()})

	byUsername := &store.DuplicateKeyError{Field: "username", Err: errors.New("dup")}
	_, msg := h.classify(userConflict(byUsername, "Email already exists", "Username already exists"))
	assert.Equal(t, "Username already exists", msg)

	byEmail := &store.DuplicateKeyError{Field: "email", Err: errors.New("dup")}
	status, msg := h.classify(userConflict(byEmail, "Email already exists", "Username already exists"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already exists", msg)

	_, msg = h.classify(userConflict(store.ErrDuplicateKey, "email already exists", "username already exists"))
	assert.Equal(t, "email already exists", msg)
}

func TestClassify_ValidationUsesJSONNames(t *testing.T) {
	RegisterValidation()
	h := NewHandler(Deps{Log: logging.Discard()})

	type payload struct {
		ClienteID string `json:"clienteId" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
	}
	err := binding.Validator.ValidateStruct(&payload{Email: "x"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	status, msg := h.classify(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "clienteId required", msg)

	err = binding.Validator.ValidateStruct(&payload{ClienteID: "c", Email: "x"})
	_, msg = h.classify(err)
	assert.Equal(t, "email invalid", msg)
}

func TestNormalizeInline(t *testing.T) {
	png := "iVBORw0KGgo="

	up, err := normalizeInline(inlineFile{Data: png})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+png, up.DataURI)
	assert.Equal(t, int64(8), up.Size)

	up, err = normalizeInline(inlineFile{Data: png, Tipo: "image/x-custom", Name: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "image/x-custom", up.Type)
	assert.Equal(t, "a.png", up.Name)

	up, err = normalizeInline(inlineFile{Data: "data:image/jpeg;base64,AAAA"})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", up.DataURI)
	assert.Equal(t, "image/jpeg", up.Type)
	assert.Equal(t, int64(3), up.Size)

	_, err = normalizeInline(inlineFile{Data: "  "})
	assert.ErrorIs(t, err, errNoFile)

	_, err = normalizeInline(inlineFile{Data: "data:image/png,plain"})
	assert.EqualError(t, err, "invalid data URI")

	_, err = normalizeInline(inlineFile{Data: "data:image/png;base64,%%"})
	assert.EqualError(t, err, "invalid base64 data")
}
