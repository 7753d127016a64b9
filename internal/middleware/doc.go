// Package middleware provides HTTP middleware for the model service.
//
// # Available Middleware
//
//   - TraceID: resolves a per-request trace id and echoes it in X-Request-ID
//   - Logger: structured request logging via slog
//   - Recovery: converts panics into the standard error envelope
//   - CORS: origin allow-list with preflight handling
//   - APIKeyGate: optional shared-secret check on non-public paths
//   - Compress: gzip response compression
//
// # Composition
//
// Middleware is composed with Chain, outermost first:
//
//	handler := middleware.Chain(mux,
//	    middleware.TraceID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    gate.Middleware,
//	)
//
// # API Key Gate
//
// When a secret is configured, every request outside the public allow-list
// must carry it in the configured header (X-API-Key by default). Rejected
// requests receive 401 with an empty body. The secret can be replaced at
// runtime with Update.
//
// Handlers can read the resolved values from the request context:
//
//	traceID := middleware.GetTraceID(r.Context())
//	principal := middleware.GetPrincipal(r.Context())
package middleware
