// Package server hosts the Fiber application, the request middleware chain
// (recover, request ID, access log), the JSON envelope shared by every route,
// the admin gate and the outbound HTTP client. Route registration lives in
// server/routes so handlers can depend on domain services without import cycles.
package server
