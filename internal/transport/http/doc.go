// Package http implements the JSON API over the dashboard and health services.
// Handlers are a thin layer: they parse and validate the query string, call a
// service and render the result; all analysis lives in the service layer.
//
// # Routes
//
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//	GET  /api/dashboard/options
//	GET  /api/dashboard/overview
//	GET  /api/dashboard/events
//	GET  /api/dashboard/events/export?format=csv|xlsx
//	GET  /api/dashboard/authors/{author}
//	GET  /api/dashboard/timeline?bill=
//	GET  /api/dashboard/search?q=          (features.search)
//	GET  /api/dashboard/stats              (features.advanced_stats)
//	POST /api/dataset/reload
//
// Filtered views accept start, end (YYYY-MM-DD), preset, author and status
// (both repeatable), bill, author_query, sort_by and order. Unknown
// parameters are rejected.
//
// # Responses
//
// Successful responses are wrapped as {"status":"success","data":...}; the
// export endpoint returns the file itself. Errors follow RFC 7807:
//
//	{
//	    "type": "/errors/dataset/unavailable",
//	    "title": "Dataset Unavailable",
//	    "status": 503,
//	    "detail": "dataset not available: dataset not found",
//	    "instance": "/api/dashboard/overview"
//	}
//
// ErrorMappings lists how service errors translate to status codes.
package http
