package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/auth"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/config"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/metrics"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/nft"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/server"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/store"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bp := flag.String("d", "~/.nfo/data", "database directory path, empty for in-memory")
	cp := flag.String("c", "~/.nfo/config.toml", "configuration file path")
	flag.Parse()

	conf, err := config.Setup(expandHome(*cp))
	if err != nil {
		panic(err)
	}
	logger.SetLevel(conf.Log.Level)

	db, err := store.OpenBadger(ctx, expandHome(*bp), conf.GCInterval())
	if err != nil {
		panic(err)
	}
	defer db.Close()
	err = db.CheckSchema()
	if err != nil {
		panic(err)
	}

	verifier, err := auth.New(conf.Auth.Scheme, conf.ClockSkew(), db)
	if err != nil {
		panic(err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	registry := nft.NewRegistry(db, nft.ContextAuthorizer{})
	router := server.NewRouter(server.NewHandler(registry, verifier, m), m, reg)

	srv := server.New(conf.HTTP.Listen, router, conf.ReadTimeout(), conf.WriteTimeout())
	err = srv.Run(ctx)
	if err != nil {
		logger.Printf("HTTP server stopped %v\n", err)
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	usr, _ := user.Current()
	return filepath.Join(usr.HomeDir, p[2:])
}
