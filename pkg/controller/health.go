package controller

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
)

// Health reports liveness and the process uptime as JSON.
func Health(started time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e jx.Encoder
		e.ObjStart()
		e.FieldStart("status")
		e.Str("ok")
		e.FieldStart("uptimeSeconds")
		e.Int64(int64(time.Since(started).Seconds()))
		e.ObjEnd()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(e.Bytes())
	})
}
