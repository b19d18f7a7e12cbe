package auth

import (
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

// GoogleProfile is the subset of an ID token the sign in flow needs
type GoogleProfile struct {
	Sub   string
	Email string
	Name  string
}

// IdentityVerifier checks a third party ID token
type IdentityVerifier interface {
	Verify(idToken string) (*GoogleProfile, error)
}

// GoogleVerifier validates Google ID tokens against the configured client id
type GoogleVerifier struct {
	clientID string
	verifier googleAuthIDTokenVerifier.Verifier
}

// NewGoogleVerifier creates a verifier for the given OAuth client id
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, verifier: googleAuthIDTokenVerifier.Verifier{}}
}

// Verify checks signature and audience, then decodes the profile claims
func (g *GoogleVerifier) Verify(idToken string) (*GoogleProfile, error) {
	if g.clientID == "" {
		return nil, fmt.Errorf("google sign in is not configured")
	}
	if err := g.verifier.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode id token: %w", err)
	}
	if claimSet.Email == "" || claimSet.Sub == "" {
		return nil, ErrInvalidToken
	}

	return &GoogleProfile{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}
