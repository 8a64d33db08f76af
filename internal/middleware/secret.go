// Copyright (c) 2026 Forge Journal Media <dev@forgejournal.com>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/subtle"
	"net/http"
)

// SweepSecretHeader carries the shared secret that authorizes sweep
// trigger requests.
const SweepSecretHeader = "X-Sweep-Secret"

// RequireSweepSecret rejects requests whose sweep secret header does not
// match the configured value. An empty configured secret disables the
// endpoint entirely rather than leaving it open.
func RequireSweepSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(SweepSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"error":{"code":"UNAUTHORIZED","message":"missing or invalid sweep secret"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
