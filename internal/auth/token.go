package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/playmatatu/matchmaker/internal/identity"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier authenticates connection tokens issued by the account service.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks an HS256 token and returns the identity it carries.
func (v *Verifier) Verify(token string) (identity.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return identity.Identity{}, fmt.Errorf("%w: missing token", ErrInvalidToken)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return identity.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Identity{}, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return identity.Identity{}, fmt.Errorf("%w: user_id claim", ErrInvalidToken)
	}
	nickname, _ := claims["nickname"].(string)
	if nickname == "" {
		return identity.Identity{}, fmt.Errorf("%w: nickname claim", ErrInvalidToken)
	}

	return identity.Identity{ID: int64(userID), Nickname: nickname}, nil
}

// Sign issues a token for ident. Used by the seed tool and tests.
func Sign(secret string, ident identity.Identity, ttl time.Duration) (string, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"user_id":  ident.ID,
		"nickname": ident.Nickname,
		"exp":      jwt.NewNumericDate(exp).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
