// Package api contains the HTTP layer: request/response types, task CRUD
// handlers, and the single point where internal errors are translated to
// wire-level outcomes. Handlers trust only the owner identity the auth
// middleware placed in the request context; identity-shaped values in the
// path, query, or body are never consulted for authorization.
package api
