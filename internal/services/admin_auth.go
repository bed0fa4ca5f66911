package services

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminIssuer = "anynow-admin"

type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth checks the single configured admin account and issues
// short-lived HS256 tokens for the admin panel.
type AdminAuth struct {
	email  string
	hash   []byte
	secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewAdminAuth(email, password, secret string) (*AdminAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("admin password: %w", err)
	}
	return &AdminAuth{
		email:  strings.ToLower(strings.TrimSpace(email)),
		hash:   hash,
		secret: []byte(secret),
		TTL:    8 * time.Hour,
		now:    time.Now,
	}, nil
}

// Login returns a signed token for valid credentials.
func (a *AdminAuth) Login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	if !emailOK || !passOK {
		return "", ErrBadCreds
	}
	return a.issue(email)
}

func (a *AdminAuth) issue(email string) (string, error) {
	now := a.now()
	claims := &AdminClaims{
		Email: email,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    adminIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses and validates a token issued by Login.
func (a *AdminAuth) Verify(token string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(adminIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Role != "admin" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
