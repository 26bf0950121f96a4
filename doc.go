// Package accounts provides the self-service account lifecycle (credential
// sign-in, sign-up with email verification, signed-token activation, sign-out)
// plus the HTTP surface and persistence layer that back it.
//
// Registration and activation:
//   - SignUp validates a registration payload against the datastore (username
//     and email uniqueness, email format, password strength) and produces an
//     unpersisted inactive User. Users created through sign-up stay inactive
//     until the owner proves control of the email address.
//   - EmailVerifier mints a signed activation token, embeds it in a link, and
//     dispatches the verification email through a Sender. ResolveActivation
//     walks the inverse path: decode the token, look up the user, and drive
//     the ActivationStateMachine.
//   - ActivationStateMachine flips an account to active exactly once. The
//     transition runs as a single guarded UPDATE so concurrent clicks on the
//     same link cannot double-activate, and the outcome distinguishes
//     activated, already-confirmed, and user-not-found.
//
// Sessions:
//   - Successful sign-in and successful activation both establish a cookie
//     session through SessionManager. The default CookieSessionManager stores
//     a signed token minted by the shared TokenCodec.
//
// Wiring:
//   - RegisterAccountRoutes mounts the route set on a fiber router. Provide a
//     Users repository (NewUsersRepository over Bun), an EmailVerifier, and a
//     SessionManager; templates render through the engine from NewViewEngine.
package accounts
