package api

import (
	"mime"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/netif"
)

// LoggingMiddleware writes one access-log line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Infof("[API] %s %s: %d, %dB in %v",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

// RecoveryMiddleware turns handler panics into SystemError envelopes so
// a bug in one request cannot take the server down.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Errorf("[API] panic in %s %s: %v", r.Method, r.URL.Path, rec)
			respondEngineError(w, netif.SystemErrorf("internal server error: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware lets browser dashboards on other origins talk to the
// facade. The API is local and unauthenticated, so the policy is open.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContentTypeMiddleware rejects request bodies that are not JSON.
// Media-type parameters such as charset are allowed through.
func ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mt != "application/json" {
				respondEngineError(w, netif.InvalidArgumentf("Content-Type must be application/json"))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
