package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the identity carried inside an access token.
type AccessClaims struct {
	UserId        string
	Email         string
	FullName      string
	EmailVerified bool
}

// IJwtService issues and validates the two credential types: signed access
// tokens and opaque refresh tokens.
type IJwtService interface {
	GenerateAccessToken(claims AccessClaims) (string, error)
	GenerateRefreshToken() (string, error)
	ParseAccessToken(token string) (*AccessClaims, error)
	TokenExpiration(token string) time.Time
	AccessTokenTTL() time.Duration
}

type jwtService struct {
	secret    []byte
	issuer    string
	audience  string
	accessTTL time.Duration
}

func NewJwtService(secret, issuer, audience string, accessTTL time.Duration) IJwtService {
	return &jwtService{
		secret:    []byte(secret),
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
	}
}

func (s *jwtService) GenerateAccessToken(claims AccessClaims) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"user_id":        claims.UserId,
		"email":          claims.Email,
		"name":           claims.FullName,
		"email_verified": claims.EmailVerified,
		"iss":            s.issuer,
		"aud":            s.audience,
		"iat":            now.Unix(),
		"exp":            now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(s.secret)
}

// GenerateRefreshToken returns an opaque high-entropy credential. 64 random
// bytes, base64 encoded; the raw value is the database lookup key.
func (s *jwtService) GenerateRefreshToken() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func (s *jwtService) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	claims := &AccessClaims{}
	if v, ok := mapClaims["user_id"].(string); ok {
		claims.UserId = v
	}
	if v, ok := mapClaims["email"].(string); ok {
		claims.Email = v
	}
	if v, ok := mapClaims["name"].(string); ok {
		claims.FullName = v
	}
	if v, ok := mapClaims["email_verified"].(bool); ok {
		claims.EmailVerified = v
	}
	return claims, nil
}

// TokenExpiration reads the exp claim without validating the signature.
// Returns the zero time when the token is unreadable.
func (s *jwtService) TokenExpiration(tokenStr string) time.Time {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}
