package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

// Claims represents JWT claims carrying the account identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID  string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	CustomerID string `json:"customerId,omitempty"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: []byte(secretKey), now: time.Now}
}

// Issue signs a token for identity that expires after ttl.
// A non-positive ttl uses model.DefaultTokenTTL.
func (j *JWT) Issue(identity model.Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = model.DefaultTokenTTL
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID:  identity.AccountID.String(),
		Name:       identity.Name,
		Email:      identity.Email,
		CustomerID: identity.CustomerID,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify validates signature and expiry and returns the decoded identity.
// Every failure wraps model.ErrInvalidToken.
func (j *JWT) Verify(tokenString string) (model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(j.now))
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return model.Identity{}, model.ErrInvalidToken
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: bad account id: %v", model.ErrInvalidToken, err)
	}

	identity := model.Identity{
		AccountID:  accountID,
		Name:       claims.Name,
		Email:      claims.Email,
		CustomerID: claims.CustomerID,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return identity, nil
}
