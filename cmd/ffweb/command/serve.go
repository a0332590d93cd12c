// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/fleetflow/pkg/adapter/config"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/routes"
	"github.com/momeni/fleetflow/pkg/core/log"
	"github.com/momeni/fleetflow/pkg/core/repo"
	"github.com/momeni/fleetflow/pkg/core/usecase/appuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var listenAddr string

const shutdownTimeout = 10 * time.Second

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := c.Database.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	auth, err := c.Auth.NewAuthenticator()
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	app, err := appuc.New(
		p, routes.NewRepos(), c,
		appuc.WithTripOptions(tripsuc.WithObserver(m.ObserveTransition)),
	)
	if err != nil {
		return fmt.Errorf("instantiating use cases: %w", err)
	}
	e := c.Gin.NewEngine()
	routes.Register(e, app, auth, m)

	go reloadOnHangup(ctx, app)

	srv := &http.Server{Addr: listenAddr, Handler: e}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving", slog.String("addr", listenAddr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("running web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(context.Background(), "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}

// reloadOnHangup reloads the use case settings from the config file
// whenever a SIGHUP is received. Database and authentication settings
// need a restart, so only the use cases observe the new values.
func reloadOnHangup(ctx context.Context, app *appuc.UseCase) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}
		c, err := config.Load(cfgPath)
		if err == nil {
			err = app.Reload(c)
		}
		if err != nil {
			log.Error(ctx, "config reload failed", log.Err("err", err))
			continue
		}
		log.Info(ctx, "config was reloaded")
	}
}

func init() {
	rootCmd.Flags().StringVarP(
		&listenAddr, "listen", "l", ":8080", "listening address",
	)
}
