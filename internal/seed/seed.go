// Package seed loads the demo fixture into a store. Applying it twice leaves
// the same documents behind.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"

	"github.com/petla/petla-api/internal/store"
)

//go:embed fixture.yaml
var defaultFixture []byte

const fechaLayout = "2006-01-02T15:04"

type Record struct {
	ID          string         `yaml:"id"`
	FechaOffset string         `yaml:"fechaOffset"`
	Fields      map[string]any `yaml:"fields"`
}

type Fixture struct {
	Users        []Record `yaml:"users"`
	Pets         []Record `yaml:"pets"`
	Appointments []Record `yaml:"appointments"`
}

// Report counts what Apply did per collection.
type Report struct {
	Inserted map[string]int
	Updated  map[string]int
}

func Default() (Fixture, error) {
	return Parse(defaultFixture)
}

func Parse(raw []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

// Apply creates the default indexes and upserts every record by its _id.
func Apply(ctx context.Context, st store.Store, f Fixture, now time.Time) (Report, error) {
	if err := store.EnsureDefaultIndexes(ctx, st); err != nil {
		return Report{}, fmt.Errorf("ensure indexes: %w", err)
	}

	rep := Report{Inserted: map[string]int{}, Updated: map[string]int{}}
	groups := []struct {
		coll    string
		stamp   string
		records []Record
	}{
		{store.Users, "fechaRegistro", f.Users},
		{store.Pets, "fechaCreacion", f.Pets},
		{store.Appointments, "fechaCreacion", f.Appointments},
	}
	for _, g := range groups {
		for _, r := range g.records {
			doc, err := r.document(now)
			if err != nil {
				return rep, fmt.Errorf("%s %s: %w", g.coll, r.ID, err)
			}
			doc[g.stamp] = now
			inserted, err := upsert(ctx, st.Collection(g.coll), doc)
			if err != nil {
				return rep, fmt.Errorf("%s %s: %w", g.coll, r.ID, err)
			}
			if inserted {
				rep.Inserted[g.coll]++
			} else {
				rep.Updated[g.coll]++
			}
		}
	}
	return rep, nil
}

func (r Record) document(now time.Time) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return nil, fmt.Errorf("bad id: %w", err)
	}
	doc := bson.M{"_id": oid}
	for k, v := range r.Fields {
		doc[k] = v
	}
	if r.FechaOffset != "" {
		d, err := time.ParseDuration(r.FechaOffset)
		if err != nil {
			return nil, fmt.Errorf("bad fechaOffset: %w", err)
		}
		doc["fecha"] = now.Add(d).Format(fechaLayout)
	}
	return doc, nil
}

func upsert(ctx context.Context, coll store.Collection, doc bson.M) (bool, error) {
	filter := bson.M{"_id": doc["_id"]}
	_, err := coll.FindOne(ctx, filter)
	if errors.Is(err, store.ErrNotFound) {
		_, err = coll.InsertOne(ctx, doc)
		return err == nil, err
	}
	if err != nil {
		return false, err
	}
	set := bson.M{}
	for k, v := range doc {
		if k != "_id" {
			set[k] = v
		}
	}
	_, err = coll.UpdateOne(ctx, filter, set)
	return false, err
}
