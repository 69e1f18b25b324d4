// Package server exposes a userui.Controller over HTTP.
//
// The server hosts one controller, so every client sees and drives the
// same form and list, much like several tabs sharing one page:
//
//	GET    /api/state              current view
//	PUT    /api/form               set pending name and/or age
//	POST   /api/submit             create or update from the form
//	POST   /api/users/{id}/edit    bind the form to a record
//	POST   /api/form/cancel        return to create mode
//	DELETE /api/users/{id}         delete a record
//	POST   /api/refresh            re-fetch the list
//	GET    /api/ws                 WebSocket stream of views
//	GET    /api/stats              collection metrics
//	GET    /health                 liveness
//
// With an embedded database the backing collection is also served in the
// REST document dialect under /db/{collection}.
package server
