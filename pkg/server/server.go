/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/oapi-codegen/runtime"
	"github.com/spf13/pflag"

	"github.com/unikorn-cloud/core/pkg/options"
	"github.com/unikorn-cloud/core/pkg/server/middleware/logging"
	"github.com/unikorn-cloud/core/pkg/server/middleware/timeout"
	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
	"github.com/unikorn-cloud/storyspoiler/pkg/server/handler"
	"github.com/unikorn-cloud/storyspoiler/pkg/server/handler/story"
	"github.com/unikorn-cloud/storyspoiler/pkg/server/middleware"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Server is a standalone Story Spoiler service.
type Server struct {
	// CoreOptions are all common across everything e.g. logging.
	CoreOptions options.CoreOptions

	// ServerOptions are server specific options e.g. listener address etc.
	ServerOptions options.ServerOptions

	// HandlerOptions define the accepted credentials.
	HandlerOptions handler.Options

	// ShutdownTimeout is how long in flight requests have to drain.
	ShutdownTimeout time.Duration
}

func (s *Server) AddFlags(flags *pflag.FlagSet) {
	s.CoreOptions.AddFlags(flags)
	s.ServerOptions.AddFlags(flags)
	s.HandlerOptions.AddFlags(flags)

	flags.DurationVar(&s.ShutdownTimeout, "server-shutdown-timeout", 10*time.Second, "How long to wait for in flight requests on shutdown.")
}

func (s *Server) SetupLogging() {
	s.CoreOptions.SetupLogging()
}

// bindStoryID binds the story ID path parameter the same way generated
// routers do, so escaped IDs are decoded before validation.
func bindStoryID(r *http.Request) (openapi.StoryID, error) {
	var storyID openapi.StoryID

	bindOptions := runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}

	if err := runtime.BindStyledParameterWithOptions("simple", "storyId", chi.URLParam(r, "storyID"), &storyID, bindOptions); err != nil {
		return storyID, fmt.Errorf("invalid format for parameter storyId: %w", err)
	}

	return storyID, nil
}

// withStoryID binds the story ID before calling the handler, rejecting the
// request with the given message when it is invalid.
func withStoryID(message string, next func(http.ResponseWriter, *http.Request, openapi.StoryID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storyID, err := bindStoryID(r)
		if err != nil {
			log.FromContext(r.Context()).V(1).Info("bad request", "error", err.Error())

			handler.WriteMessage(w, r, http.StatusBadRequest, message)

			return
		}

		next(w, r, storyID)
	}
}

// NewRouter returns the full API.  Authentication is open, everything under
// /api/Story requires the bearer token the handler issues.
func NewRouter(store story.Store, options *handler.Options, logger logr.Logger) (chi.Router, error) {
	h, err := handler.New(store, options)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(logger))
	router.Use(logging.New().Middleware)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteMessage(w, r, http.StatusNotFound, "Not found")
	})

	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteMessage(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Post("/api/User/Authentication", h.PostApiUserAuthentication)

	router.Route("/api/Story", func(r chi.Router) {
		r.Use(middleware.Authorizer(h.Token()))

		r.Post("/Create", h.PostApiStoryCreate)
		r.Get("/All", h.GetApiStoryAll)
		r.Put("/Edit/{storyID}", withStoryID(openapi.MessageInvalidStoryID, h.PutApiStoryEditStoryID))

		// The service reports every kind of deletion failure the same way.
		r.Delete("/Delete/{storyID}", withStoryID(openapi.MessageUnableToDelete, h.DeleteApiStoryDeleteStoryID))
	})

	return router, nil
}

// GetServer returns an HTTP server backed by an in-memory store.
func (s *Server) GetServer() (*http.Server, error) {
	router, err := NewRouter(story.NewMemory(), &s.HandlerOptions, log.Log.WithName("api"))
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:              s.ServerOptions.ListenAddress,
		ReadTimeout:       s.ServerOptions.ReadTimeout,
		ReadHeaderTimeout: s.ServerOptions.ReadHeaderTimeout,
		WriteTimeout:      s.ServerOptions.WriteTimeout,
		Handler:           timeout.Middleware(s.ServerOptions.RequestTimeout)(router),
	}

	return server, nil
}

// Run serves until the context is cancelled, then drains in flight requests.
func (s *Server) Run(ctx context.Context) error {
	logger := log.FromContext(ctx)

	server, err := s.GetServer()
	if err != nil {
		return err
	}

	errs := make(chan error, 1)

	go func() {
		logger.Info("listening", "address", server.Addr)

		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving api: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api: %w", err)
	}

	return nil
}
