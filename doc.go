// Package auth implements a small server rendered account flow: registration,
// login, logout and a profile page, with the caller identified by a single
// session cookie.
//
// Credentials:
//   - Users are persisted through bun in a single users table keyed by a
//     unique email. Registration uses an atomic find-or-create so concurrent
//     sign ups for the same email resolve to one record.
//   - Passwords go through a PasswordAuthenticator. BcryptPasswords stores a
//     salted bcrypt hash; PlaintextPasswords keeps the raw value and exists to
//     demonstrate the insecure baseline.
//
// Sessions:
//   - The userId cookie carries the whole session, there is no server side
//     store. A SessionCodec turns the user id into the cookie value: the plain
//     codec stores it verbatim, the aes codec encrypts it with AES-GCM under a
//     key derived from the configured secret, and the jwt codec signs it.
//   - Rotating the secret invalidates every cookie issued with the old one.
//   - RouteAuthenticator.Middleware resolves the cookie on each request and
//     stores the current user in the request locals and the user context.
//     Undecodable cookies and deleted accounts are treated as logged out.
//     Logout skips it and never reads the store.
//
// Routing:
//   - Handlers take a go-router Context. NewServer mounts them on the
//     go-router fiber adapter, RegisterUserRoutes mounts them on any
//     router.Router.
//
// Activity sinks:
//   - Registration, login and logout emit ActivityEvent values to an
//     ActivitySink. Sinks run best-effort (errors are logged) so you can
//     forward to a database or queue without blocking authentication.
package auth
