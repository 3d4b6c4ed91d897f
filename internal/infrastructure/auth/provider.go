package auth

// Provider resolves an opaque bearer token to a user id. Authentication is
// an external concern; the application only ever needs "who is this".
type Provider interface {
	UserID(token string) (string, bool)
}

// StaticTokenProvider resolves users from a fixed token map, typically
// loaded from configuration. Suitable for personal deployments where the
// real identity provider sits in front of the service.
type StaticTokenProvider struct {
	tokens map[string]string
}

func NewStaticTokenProvider(tokens map[string]string) *StaticTokenProvider {
	cloned := make(map[string]string, len(tokens))
	for token, user := range tokens {
		cloned[token] = user
	}
	return &StaticTokenProvider{tokens: cloned}
}

func (p *StaticTokenProvider) UserID(token string) (string, bool) {
	user, ok := p.tokens[token]
	return user, ok
}
