package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/adapter/http/dto"
)

// Recovery turns a panic in a handler into a 500 carrying the request id, so
// a failed upload can be matched to its log line.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			reqID := chimiddleware.GetReqID(r.Context())
			zerolog.Ctx(r.Context()).Error().
				Interface("panic", rvr).
				Bytes("stack", debug.Stack()).
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int64("content_length", r.ContentLength).
				Msg("handler panicked")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(dto.ErrorResponse{
				Error:   "internal server error",
				Message: requestMessage(reqID),
			})
		}()

		next.ServeHTTP(w, r)
	})
}

func requestMessage(reqID string) string {
	if reqID == "" {
		return ""
	}
	return "request " + reqID
}
