package google

import (
	"context"
	"errors"
	"fmt"
	"myShopHub/domain"

	"google.golang.org/api/idtoken"
)

type Verifier struct {
	clientID string
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID}
}

// Verify checks the ID token signature, expiry and audience.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (domain.GoogleIdentity, error) {
	if v.clientID == "" {
		return domain.GoogleIdentity{}, errors.New("google login is not configured")
	}

	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return domain.GoogleIdentity{}, fmt.Errorf("invalid google token: %w", err)
	}

	identity := domain.GoogleIdentity{
		Subject: payload.Subject,
		Email:   claim(payload.Claims, "email"),
		Name:    claim(payload.Claims, "name"),
		Picture: claim(payload.Claims, "picture"),
	}
	if identity.Email == "" {
		return domain.GoogleIdentity{}, errors.New("google token carries no email")
	}

	return identity, nil
}

func claim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
