// Package auth owns the session lifecycle and route access control:
// the per-session authentication state, the bootstrap middleware that
// resolves it against the identity provider before anything renders,
// the route guards, and the login/signup/confirmation/logout flows.
package auth
