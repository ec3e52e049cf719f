// Package auth provides authentication for the application.
//
// Two entry points exist:
//   - LocalProvider authenticates username/password credentials against the
//     local database with Argon2id password hashing.
//   - TokenService issues and verifies signed bearer tokens for clients that
//     cannot hold a session cookie.
//
// Authorization is not handled here; capability evaluation lives in the
// authz package.
package auth
