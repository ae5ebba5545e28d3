// Package http implements the HTTP handlers for the response curve service.
// It is a thin layer between transport and business logic: handlers parse
// and validate requests, call into the services package, and translate
// service errors into HTTP responses.
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/model/invalid-parameter",
//	    "title": "Invalid Model Parameter",
//	    "status": 400,
//	    "detail": "penetration must be positive, got -1",
//	    "instance": "/api/curves"
//	}
//
// # Handlers
//
//   - CurveHandler: curve computation from JSON bodies or uploaded
//     spend files, model defaults, and generated report access
//   - HealthHandler: health, readiness, liveness, version, and stats
//   - MetricsHandler: Go runtime statistics as JSON; Prometheus
//     scraping uses the separate /metrics endpoint mounted in app
package http
