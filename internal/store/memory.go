package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents in process memory. Documents go through a bson
// round trip on the way in and out, so callers see the same shapes MongoDB
// would return.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memData
}

type memData struct {
	docs    []bson.M
	indexes []Index
}

func NewMemory() *MemoryStore {
	return &MemoryStore{collections: map[string]*memData{}}
}

func (s *MemoryStore) Collection(name string) Collection {
	return &memCollection{s: s, name: name}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) EnsureIndexes(ctx context.Context, collection string, indexes ...Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.data(collection)
	for _, idx := range indexes {
		replaced := false
		for i, existing := range data.indexes {
			if existing.Field == idx.Field {
				data.indexes[i] = idx
				replaced = true
			}
		}
		if !replaced {
			data.indexes = append(data.indexes, idx)
		}
	}
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// data must be called with s.mu held.
func (s *MemoryStore) data(name string) *memData {
	d, ok := s.collections[name]
	if !ok {
		d = &memData{}
		s.collections[name] = d
	}
	return d
}

// docs must be called with s.mu held for reading.
func (s *MemoryStore) docs(name string) []bson.M {
	if d, ok := s.collections[name]; ok {
		return d.docs
	}
	return nil
}

type memCollection struct {
	s    *MemoryStore
	name string
}

func (c *memCollection) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.RLock()
	var out []bson.M
	for _, d := range c.s.docs(c.name) {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	c.s.mu.RUnlock()

	if opts.Sort != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, aok := lookup(out[i], opts.Sort)
			b, bok := lookup(out[j], opts.Sort)
			cmp := sortCompare(a, aok, b, bok)
			if opts.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}

	docs := make([]bson.M, 0, len(out))
	for _, d := range out {
		cp, err := ToDocument(d)
		if err != nil {
			return nil, err
		}
		docs = append(docs, cp)
	}
	return docs, nil
}

func (c *memCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	for _, d := range c.s.docs(c.name) {
		if matches(d, filter) {
			return ToDocument(d)
		}
	}
	return nil, ErrNotFound
}

func (c *memCollection) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	d, err := ToDocument(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, ok := d["_id"]; !ok {
		d["_id"] = primitive.NewObjectID()
	}
	oid, ok := d["_id"].(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("memory store: _id must be an ObjectID, got %T", d["_id"])
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	data := c.s.data(c.name)
	for _, existing := range data.docs {
		if existing["_id"] == oid {
			return primitive.NilObjectID, &DuplicateKeyError{Field: "_id", Err: fmt.Errorf("value %s", oid.Hex())}
		}
	}
	if err := data.checkUnique(d, -1); err != nil {
		return primitive.NilObjectID, err
	}
	data.docs = append(data.docs, d)
	return oid, nil
}

func (c *memCollection) UpdateOne(ctx context.Context, filter bson.M, set any) (UpdateResult, error) {
	return c.update(ctx, filter, set, false)
}

func (c *memCollection) UpdateMany(ctx context.Context, filter bson.M, set any) (UpdateResult, error) {
	return c.update(ctx, filter, set, true)
}

func (c *memCollection) update(ctx context.Context, filter bson.M, set any, many bool) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}
	fields, err := ToDocument(set)
	if err != nil {
		return UpdateResult{}, err
	}
	delete(fields, "_id")

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var res UpdateResult
	data := c.s.data(c.name)
	for i, d := range data.docs {
		if !matches(d, filter) {
			continue
		}
		res.Matched++

		updated := make(bson.M, len(d)+len(fields))
		for k, v := range d {
			updated[k] = v
		}
		changed := false
		for k, v := range fields {
			if old, ok := updated[k]; !ok || !reflect.DeepEqual(old, v) {
				changed = true
			}
			updated[k] = v
		}
		if changed {
			if err := data.checkUnique(updated, i); err != nil {
				return res, err
			}
			data.docs[i] = updated
			res.Modified++
		}
		if !many {
			break
		}
	}
	return res, nil
}

func (c *memCollection) UnsetOne(ctx context.Context, filter bson.M, fields ...string) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var res UpdateResult
	data := c.s.data(c.name)
	for i, d := range data.docs {
		if !matches(d, filter) {
			continue
		}
		res.Matched++
		updated := make(bson.M, len(d))
		for k, v := range d {
			updated[k] = v
		}
		for _, f := range fields {
			if _, present := updated[f]; present && f != "_id" {
				delete(updated, f)
				res.Modified = 1
			}
		}
		data.docs[i] = updated
		break
	}
	return res, nil
}

func (c *memCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	return c.delete(ctx, filter, false)
}

func (c *memCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	return c.delete(ctx, filter, true)
}

func (c *memCollection) delete(ctx context.Context, filter bson.M, many bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	data := c.s.data(c.name)
	kept := data.docs[:0]
	var deleted int64
	for _, d := range data.docs {
		if (many || deleted == 0) && matches(d, filter) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	data.docs = kept
	return deleted, nil
}

// checkUnique reports ErrDuplicateKey when doc collides with another document
// on a unique index. skip is the position of doc itself, or -1 for inserts.
func (d *memData) checkUnique(doc bson.M, skip int) error {
	for _, idx := range d.indexes {
		if !idx.Unique {
			continue
		}
		val, present := doc[idx.Field]
		if !present && idx.Sparse {
			continue
		}
		for i, other := range d.docs {
			if i == skip {
				continue
			}
			otherVal, otherPresent := other[idx.Field]
			if !otherPresent && idx.Sparse {
				continue
			}
			if valuesEqual(val, otherVal) {
				return &DuplicateKeyError{Field: idx.Field, Err: fmt.Errorf("value %v", val)}
			}
		}
	}
	return nil
}
