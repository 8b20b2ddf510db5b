// Package controller contains HTTP middlewares and helper handlers used by the
// metrics server.
//
//   - WithLogger: attaches a request-scoped logger and request ID to the context and logs the request.
//   - Health: reports liveness as JSON.
//   - PprofMux: exposes net/http/pprof handlers.
package controller
