package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mirasdk "github.com/cyberFlowTech/mira-sdk-go"
	"github.com/cyberFlowTech/mira-sdk-go/server"
	"github.com/cyberFlowTech/mira-sdk-go/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		rt.cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := store.Open(ctx, store.Options{
		Driver:     rt.cfg.Store.Driver,
		RedisAddr:  rt.cfg.Store.RedisAddr,
		SQLitePath: rt.cfg.Store.SQLitePath,
		FileDir:    rt.cfg.Store.FileDir,
	})
	if err != nil {
		return err
	}
	defer kv.Close()

	persister := mirasdk.NewProfilePersister(kv)
	defer persister.Close()

	rng := mirasdk.NewRandSource()
	srv, err := server.New(server.Options{
		NewBackend: func() mirasdk.AnalysisBackend { return rt.backend(mirasdk.NewRandSource()) },
		Persister:  persister,
		Engine:     rt.engineConfig(rt.cfg.Store.Namespace, rng),
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              rt.cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on %s (store=%s, accelerated=%v)", rt.cfg.Server.Addr, rt.cfg.Store.Driver, rt.cfg.Engine.Accelerated)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Printf("[Server] shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] shutdown: %v", err)
	}
	return srv.Close(shutdownCtx)
}
