// Package identity verifies caller tokens minted by the campus identity
// provider. The provider signs HS256 tokens with a shared key; this service
// only checks them and extracts the subject and role.
package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"unipass/internal/platform/middleware"
	"unipass/pkg/requestcontext"
)

var (
	ErrInvalidToken = errors.New("invalid caller token")
	ErrUnknownRole  = errors.New("unknown role claim")
)

type callerClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier implements middleware.TokenVerifier against the shared identity
// signing key.
type Verifier struct {
	signingKey []byte
}

func NewVerifier(signingKey string) *Verifier {
	return &Verifier{signingKey: []byte(signingKey)}
}

func (v *Verifier) VerifyCallerToken(tokenString string) (*middleware.CallerClaims, error) {
	var claims callerClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role := requestcontext.Role(claims.Role)
	switch role {
	case requestcontext.RoleStudent, requestcontext.RoleParent, requestcontext.RoleDean,
		requestcontext.RoleSecurity, requestcontext.RoleAdmin:
	default:
		return nil, ErrUnknownRole
	}

	return &middleware.CallerClaims{SubjectID: claims.Subject, Role: role}, nil
}
