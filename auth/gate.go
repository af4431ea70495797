package auth

// Strategy decides whether verified claims may mutate posts. A process runs
// with exactly one strategy.
type Strategy interface {
	Allows(claims *Claims) bool
}

type AdminStrategy struct{}

func (AdminStrategy) Allows(claims *Claims) bool {
	return claims != nil && claims.IsAdmin
}

type EmailStrategy struct {
	Check *EmailCheck
}

func (s EmailStrategy) Allows(claims *Claims) bool {
	return claims != nil && s.Check != nil && s.Check.Check(claims.Email)
}

type Gate struct {
	verifier *TokenVerifier
	strategy Strategy
}

func NewGate(verifier *TokenVerifier, strategy Strategy) *Gate {
	return &Gate{verifier: verifier, strategy: strategy}
}

// Authorize verifies the token and applies the strategy. A claim mismatch
// is reported the same way as a bad token.
func (g *Gate) Authorize(token string) (*Claims, error) {
	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	if !g.strategy.Allows(claims) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
