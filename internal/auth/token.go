// Package auth issues and validates actor tokens. The platform's real
// identity provider lives elsewhere; this package covers service-to-service
// calls and local development, translating a signed token into the Actor
// the core services authorize against.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	governance "nbms/internal/governance/models"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

// ActorClaims are the JWT claims for an actor token.
type ActorClaims struct {
	DisplayName string   `json:"name,omitempty"`
	OrgID       string   `json:"org_id,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Staff       bool     `json:"staff,omitempty"`
	Superuser   bool     `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and validates actor tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

func NewTokenService(signingKey string, issuer string, tokenTTL time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// Issue signs a token for the actor, valid for the configured TTL.
func (s *TokenService) Issue(actor governance.Actor, now time.Time) (string, error) {
	if !actor.Authenticated() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "cannot issue a token for an anonymous actor")
	}

	claims := ActorClaims{
		DisplayName: actor.DisplayName,
		Staff:       actor.Staff,
		Superuser:   actor.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	if actor.OrgID != nil {
		claims.OrgID = actor.OrgID.String()
	}
	for _, role := range actor.Roles {
		claims.Roles = append(claims.Roles, string(role))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign actor token")
	}
	return signed, nil
}

// Validate parses the token and reconstructs the actor. Expired, malformed,
// or wrongly signed tokens fail with CodeUnauthenticated.
func (s *TokenService) Validate(tokenString string) (governance.Actor, error) {
	var claims ActorClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthenticated, "unexpected signing method")
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil || !token.Valid {
		return governance.Actor{}, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "invalid actor token")
	}

	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return governance.Actor{}, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "invalid subject in actor token")
	}

	actor := governance.Actor{
		ID:          userID,
		DisplayName: claims.DisplayName,
		Staff:       claims.Staff,
		Superuser:   claims.Superuser,
	}
	if claims.OrgID != "" {
		orgID, err := id.ParseOrgID(claims.OrgID)
		if err != nil {
			return governance.Actor{}, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "invalid org in actor token")
		}
		actor.OrgID = &orgID
	}
	for _, role := range claims.Roles {
		actor.Roles = append(actor.Roles, governance.Role(role))
	}
	return actor, nil
}
