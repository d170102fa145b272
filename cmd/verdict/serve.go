package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/verdict"
	verdicthttp "github.com/aretw0/verdict/pkg/adapters/http"
	"github.com/aretw0/verdict/pkg/adapters/file"
	"github.com/aretw0/verdict/pkg/adapters/memory"
	"github.com/aretw0/verdict/pkg/adapters/redis"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/loader"
	"github.com/aretw0/verdict/pkg/observability"
	"github.com/aretw0/verdict/pkg/persistence/middleware"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <form>",
	Short: "Serve form sessions over HTTP",
	Long: `Starts a JSON API where each session holds the values and validation state of one form.
Sessions live in memory unless --sessions-dir or --redis is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		dir, _ := cmd.Flags().GetString("sessions-dir")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		redact, _ := cmd.Flags().GetStringSlice("redact")

		def, err := loader.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to load form: %w", err)
		}
		name := def.Name
		if name == "" {
			name = args[0]
		}

		promReg := prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		hooks := observability.NewMetrics(promReg).Hooks().Merge(observability.LogHooks(logger))

		open := func(state *domain.ManagerState) (*verdict.Form, error) {
			return verdict.New(def.ValueHosts,
				verdict.WithName(name),
				verdict.WithLogger(logger),
				verdict.WithLifecycleHooks(hooks),
				verdict.WithState(state),
			)
		}
		if _, err := open(nil); err != nil {
			return err
		}

		var store ports.StateStore
		sessionOpts := []session.Option{session.WithLogger(logger)}
		switch {
		case redisAddr != "":
			rs := redis.New(redisAddr, redisPassword, 0, redis.WithTTL(ttl))
			defer rs.Close()
			store = rs
			sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(rs.Client(), redis.DefaultPrefix)))
		case dir != "":
			store = file.New(dir)
		default:
			store = memory.NewStore()
		}
		if store, err = wrapStore(store, redact, os.Getenv(encryptionKeyEnv)); err != nil {
			return err
		}

		handler := verdicthttp.NewHandler(
			session.NewManager(store, sessionOpts...),
			open,
			verdicthttp.WithMetrics(promReg),
			verdicthttp.WithLogger(logger),
		)
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", name, srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("sessions-dir", "", "Persist sessions as JSON files in this directory")
	serveCmd.Flags().String("redis", "", "Redis address for shared sessions and locking")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Duration("ttl", 0, "Session expiry in Redis (0 keeps sessions)")
	serveCmd.Flags().StringSlice("redact", nil, "Regular expressions of value host names whose values are masked before storage")
}

// encryptionKeyEnv holds a base64 AES-256 key; when set, snapshots are encrypted at rest.
const encryptionKeyEnv = "VERDICT_ENCRYPTION_KEY"

func wrapStore(store ports.StateStore, redact []string, encodedKey string) (ports.StateStore, error) {
	var mws []middleware.Middleware
	if len(redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if encodedKey != "" {
		key, err := base64.StdEncoding.DecodeString(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("%s is not valid base64: %w", encryptionKeyEnv, err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), nil
}
