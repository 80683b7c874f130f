package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "PUT, POST, PATCH, DELETE, GET"
	corsAllowHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization"
	corsMaxAge       = "86400"
)

// CORS adds CORS headers for allowed origins and answers every OPTIONS
// preflight with 200 and an empty JSON object. An allowed origin of "*"
// admits any origin.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		o = strings.TrimSuffix(o, "/")
		switch o {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[o] = struct{}{}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		if allowAll {
			hdr.Set("Access-Control-Allow-Origin", "*")
			hdr.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		} else if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				hdr.Set("Access-Control-Allow-Origin", origin)
				hdr.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				hdr.Set("Access-Control-Allow-Credentials", "true")
			}
			hdr.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			hdr.Set("Access-Control-Allow-Methods", corsAllowMethods)
			hdr.Set("Access-Control-Max-Age", corsMaxAge)
			hdr.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{}"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
