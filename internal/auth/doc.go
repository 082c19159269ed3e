// Package auth provides authentication and authorization for farmchainx.
//
// # Credential Storage
//
// Passwords are hashed with bcrypt before storage. Each hash embeds its own
// random salt, so equal passwords produce distinct hashes and the plaintext
// is never recoverable from the store:
//
//	hasher := auth.NewHasher(auth.DefaultHashCost)
//	hash, err := hasher.Hash(password)
//	ok := hasher.Verify(password, hash)
//
// # Tokens
//
// Sessions are carried by HS256-signed JWTs. A token binds a subject (the
// account's normalized email) to a validity window [iat, exp):
//
//	codec, err := auth.NewTokenCodec(secret, 24*time.Hour)
//	token, err := codec.Issue(user.Email)
//	subject, err := codec.Verify(token)
//
// Verification failures map to sentinel errors: ErrTokenMalformed,
// ErrTokenTampered, ErrTokenExpired, ErrTokenMissingSubject. The middleware
// collapses all of them into one generic 401 so clients cannot distinguish
// why a token was rejected.
//
// # Request Authentication
//
// The Middleware resolves a bearer token to a live account on every request.
// There is no session cache: deleting an account invalidates its outstanding
// tokens on their next use. Handlers read the identity from the request
// context:
//
//	authCtx := auth.MustFromContext(r.Context())
//
// # Authorization
//
// Access control is role-based and fail-closed. Every protected action
// belongs to an Operation category, and the Policy grant table maps each
// category to the roles allowed to perform it. Anything not explicitly
// granted is denied:
//
//	policy := auth.NewPolicy()
//	mux.Handle("POST /api/products", auth.RequireOperation(policy, auth.OpManageProducts)(handler))
package auth
