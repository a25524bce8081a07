package server

import (
	"net/http"
)

// maxRequestBytes caps write-request bodies at 1 MiB. Lead payloads, chat
// lines, and routing updates are all far below this; anything larger is a
// client bug.
const maxRequestBytes int64 = 1 << 20

// limitRequestBodies rejects POST/PUT/PATCH requests whose declared
// Content-Length exceeds maxRequestBytes with HTTP 413, and wraps every
// write body in http.MaxBytesReader to catch chunked or unannounced
// oversized payloads.
func limitRequestBodies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if r.ContentLength > maxRequestBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large (limit 1MB)")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
		}
		next.ServeHTTP(w, r)
	})
}
