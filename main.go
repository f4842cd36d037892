// Song La: a song-guessing game backed by a curated track database. This
// server exposes the admin/game HTTP API and the catalog ingestion pipeline
// that populates the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/songla/songla/auth"
	"github.com/songla/songla/config"
	"github.com/songla/songla/db"
	"github.com/songla/songla/fetcher"
	"github.com/songla/songla/server"
	"github.com/songla/songla/sigctx"
	"github.com/songla/songla/ytmusic"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
	fmt.Println("done")
}

func run() error {
	ctx := sigctx.New()

	cfg := config.Load()
	if cfg.AdminEmail == "" || cfg.SessionSecret == "" {
		return fmt.Errorf("ADMIN_EMAIL and SESSION_SECRET must be set")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	catalog := ytmusic.New(cfg.CatalogBaseURL)
	f := fetcher.New(catalog, cfg.SearchLimit)
	authorizer := auth.New(cfg.SessionSecret, cfg.AdminEmail)

	s := server.New(database, f, authorizer)

	log.Printf("listening on %s", cfg.Addr)
	return s.Run(ctx, cfg.Addr)
}
