// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - rayid: assigns every request a ray id, stored in the "ray_id" local and echoed
//     in the X-Ray-ID response header.
//   - requestlog: logs each request with method, path, status and duration.
//   - auth: validates the X-API-Key header when an API key is configured.
//
// The ray id middleware must be registered first so every later log line carries it.
package middleware
