// Package services implements the business logic layer between HTTP
// handlers and the response curve engine.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Per-request model parameters: a calculator is built for every
//	   computation so concurrent requests never share model state
//	4. Error handling and transformation at the service boundary
//
// # Services
//
// CurveService runs the spend-to-response pipeline: it ingests spend
// files, computes adstock, saturation, elasticity and landmarks for
// every campaign, and writes CSV and JSON reports.
//
// HealthService reports process health, readiness of the working
// directories and basic runtime statistics.
//
// # Common Service Pattern
//
// Services typically follow this structure:
//
//	type ServiceName struct {
//		logger *slog.Logger
//		// injected dependencies
//	}
//
//	func NewServiceName(deps..., logger *slog.Logger) *ServiceName
//
// Methods take a context.Context first and return explicit errors.
package services
