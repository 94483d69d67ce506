// Package login is a minimal credential authentication backend: signup
// hashes a password and persists a user record, login verifies the hash
// and issues a signed, time-limited JWT bound to the user's email.
//
// Three collaborating units:
//   - Users is the credential store, keyed by email, backed by Bun. It
//     enforces email uniqueness through a unique index, so concurrent
//     signups racing on the same email are arbitrated by the database.
//   - TokenService issues and verifies HS256 tokens. Validation is a
//     predicate (it never errors), while claim extraction fails loudly
//     for callers that already trust the token.
//   - Auther orchestrates signup and login. Unknown emails and wrong
//     passwords collapse into a single failure kind so the boundary
//     never leaks which one happened.
//
// Every request is a single synchronous request/response cycle against
// the store. There are no sessions, refresh tokens, or roles.
package login
