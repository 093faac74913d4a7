// cmd/seedtypes/main.go
// Creates training types that do not exist yet.
//
// Usage:
//
//	go run ./cmd/seedtypes -names "Yoga,Pilates,Fitness"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/padraicbc/gymapi/config"
	bundb "github.com/padraicbc/gymapi/db"
	applog "github.com/padraicbc/gymapi/logger"
	"github.com/padraicbc/gymapi/repository"
	"github.com/padraicbc/gymapi/service"
)

func main() {
	names := flag.String("names", "", "comma separated training type names (required)")
	flag.Parse()

	var list []string
	for _, n := range strings.Split(*names, ",") {
		if n = strings.TrimSpace(n); n != "" {
			list = append(list, n)
		}
	}
	if len(list) == 0 {
		log.Fatal("-names is required")
	}

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatal("logger:", err)
	}
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	svc := service.New(service.Deps{
		Store:      repository.NewStore(db),
		Logger:     logger,
		BcryptCost: cfg.BcryptCost,
	})
	for _, n := range list {
		tt, err := svc.Trainings.CreateType(ctx, n)
		if err != nil {
			log.Fatalf("training type %q: %v", n, err)
		}
		fmt.Printf("training type %q saved (id %d)\n", tt.Name, tt.ID)
	}
}
