// Package server exposes project diagrams over HTTP.
//
// Routes:
//
//	GET  /healthz                              liveness and build info
//	GET  /metrics                              Prometheus metrics, when configured
//	PUT  /api/projects/{project}/snapshot      replace the data, rebuild, return the frame
//	GET  /api/projects/{project}/diagram       current frame (?format=json|cytoscape|dot|svg)
//	POST /api/projects/{project}/events        handle one interaction event
//	POST /api/projects/{project}/reload        make the next update fit the view
//	GET  /api/projects/{project}/positions     persisted position record
//
// Errors are answered as {"error": {"code", "message"}} with the status
// from [errors.HTTPStatus].
package server
