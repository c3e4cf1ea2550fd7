package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/petla/petla-api/internal/config"
	"github.com/petla/petla-api/internal/logging"
	"github.com/petla/petla-api/internal/seed"
	"github.com/petla/petla-api/internal/store"
)

func main() {
	cfg, _, err := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	fixture, err := seed.Default()
	if err != nil {
		log.WithError(err).Fatal("bad fixture")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.MongoTimeout)
	defer cancel()

	st, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer st.Close(context.Background())

	rep, err := seed.Apply(ctx, st, fixture, time.Now().UTC())
	if err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.WithFields(logrus.Fields{
		"database": cfg.MongoDB,
		"inserted": rep.Inserted,
		"updated":  rep.Updated,
	}).Info("seeded")
}
