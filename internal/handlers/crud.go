package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/petla/petla-api/internal/store"
)

// Shared single-collection operations. Every lookup goes through store.Key, so
// a path id is either a native ObjectID or the legacy string "id" field.

func (h *Handler) findByKey(ctx context.Context, coll string, key store.Key) (bson.M, error) {
	return h.coll(coll).FindOne(ctx, key.Filter())
}

// updateByKey applies set and returns the document as stored afterwards.
func (h *Handler) updateByKey(ctx context.Context, coll string, key store.Key, set any) (bson.M, error) {
	res, err := h.coll(coll).UpdateOne(ctx, key.Filter(), set)
	if err != nil {
		return nil, err
	}
	if res.Matched == 0 {
		return nil, store.ErrNotFound
	}
	return h.coll(coll).FindOne(ctx, key.Filter())
}

func (h *Handler) deleteByKey(ctx context.Context, coll string, key store.Key) error {
	n, err := h.coll(coll).DeleteOne(ctx, key.Filter())
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// insert stores doc and reads it back so the response shows exactly what was saved.
func (h *Handler) insert(ctx context.Context, coll string, doc any) (bson.M, error) {
	id, err := h.coll(coll).InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return h.coll(coll).FindOne(ctx, bson.M{"_id": id})
}

// failFor is fail with a not-found message naming the entity.
func (h *Handler) failFor(c *gin.Context, err error, entity string) {
	if errors.Is(err, store.ErrNotFound) {
		err = notFound(entity)
	}
	h.fail(c, err)
}
