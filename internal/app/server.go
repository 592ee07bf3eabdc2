package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

func (app *Application) routes() *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthz", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", app.metrics.Handler())
	router.HandlerFunc(http.MethodGet, "/api/sales/:publisher", app.jwtMiddleware(app.salesHandler))
	return router
}

// Start serves the sales report over HTTP in the background. The fixture
// must already be loaded.
func (app *Application) Start() error {
	if err := app.require("serve", StageDataLoaded); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     app.logger,
	}

	app.server = srv

	app.logger.Printf("starting %s server on %s", app.config.Env, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatalf("listen: %s\n", err)
		}
	}()

	return nil
}

func (app *Application) Stop() error {
	if app.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %v", err)
	}

	app.logger.Println("server stopped")
	return nil
}
