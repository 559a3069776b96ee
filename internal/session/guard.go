package session

// Authenticator is the predicate surface the router consults.
type Authenticator interface {
	IsAuthenticated() bool
}

// CanAccessPrivate reports whether views requiring a session may render.
// Consulted synchronously before navigation; never cached.
func CanAccessPrivate(a Authenticator) bool {
	return a.IsAuthenticated()
}

// CanAccessPublicOnly reports whether anonymous-only views (login,
// registration) may render.
func CanAccessPublicOnly(a Authenticator) bool {
	return !a.IsAuthenticated()
}
