// Package auth provides authentication middleware for the web application.
//
// The middleware resolves the acting user from either a session cookie or
// an Authorization Bearer token and places the user id in fiber.Locals for
// handlers. Requests without a resolvable user receive 401; the login,
// logout, health and metrics paths stay public.
//
// RequireCapability adds a coarse per-route gate on top: actors holding a
// capability at no scope are rejected with 403 before the handler runs.
// Scope narrowing (all vs. subordinates) stays in the services.
package auth
