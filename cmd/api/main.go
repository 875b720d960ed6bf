package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/config"
	"github.com/ariefcatur/go-shop-api.git/internal/httpx"
	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
	"github.com/ariefcatur/go-shop-api.git/internal/shop"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	// Auth
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	gate := httpx.RequireAuth(tokens)

	// Repos & handlers
	router := httpx.NewRouter()
	uh := &httpx.UsersHandler{
		Users:      &shop.UserRepo{DB: db},
		Tokens:     tokens,
		BcryptCost: cfg.BcryptCost,
	}
	uh.Register(router)
	ph := &httpx.ProductsHandler{
		Products: &shop.ProductRepo{DB: db},
		Auth:     gate,
	}
	ph.Register(router)
	oh := &httpx.OrdersHandler{
		Orders: &shop.OrderRepo{DB: db},
		Auth:   gate,
	}
	oh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("%s listening at %s", cfg.ServiceName, cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
