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

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
	"github.com/unikorn-cloud/storyspoiler/pkg/server/handler"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Logger attaches a request scoped logger to the context, carrying any
// trace ID the client sent, for use by request logging and handlers.
func Logger(base logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base

			if traceParent := r.Header.Get("Traceparent"); traceParent != "" {
				logger = logger.WithValues("traceparent", traceParent)
			}

			next.ServeHTTP(w, r.WithContext(log.IntoContext(r.Context(), logger)))
		})
	}
}

// Authorizer rejects any request that doesn't present the expected bearer token.
func Authorizer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, credentials, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || token == "" || !strings.EqualFold(scheme, "bearer") || subtle.ConstantTimeCompare([]byte(credentials), []byte(token)) != 1 {
				log.FromContext(r.Context()).Info("request rejected", "reason", "missing or invalid bearer token")

				w.Header().Set("WWW-Authenticate", "Bearer")
				handler.WriteMessage(w, r, http.StatusUnauthorized, openapi.MessageUnauthorized)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
