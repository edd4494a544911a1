package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stocksense/internal/caching"
	"stocksense/internal/models"
	"stocksense/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GoogleJWKSURL serves the public keys Google signs ID tokens with.
const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

const sessionTTL = 24 * time.Hour

var (
	ErrInvalidIDToken = errors.New("invalid google id token")
	ErrTokenRevoked   = errors.New("session token revoked")
)

// GoogleKeyfunc is the verification callback for Google-issued RS256
// tokens. *keyfunc.JWKS satisfies it.
type GoogleKeyfunc interface {
	Keyfunc(token *jwt.Token) (interface{}, error)
}

// NewGoogleJWKS starts a background-refreshing JWKS for Google's signing
// keys.
func NewGoogleJWKS(ctx context.Context) (*keyfunc.JWKS, error) {
	return keyfunc.Get(GoogleJWKSURL, keyfunc.Options{
		Ctx:             ctx,
		RefreshInterval: time.Hour,
		RefreshErrorHandler: func(err error) {
			log.Printf("Google JWKS refresh failed: %v", err)
		},
	})
}

type AuthServiceInterface interface {
	// LoginWithGoogle verifies a Google ID token, upserts the user and
	// returns a signed session token for subsequent requests.
	LoginWithGoogle(ctx context.Context, idToken string) (string, *models.User, error)
	// Logout revokes the session token until its natural expiry.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type authService struct {
	userRepo       repositories.UserRepository
	cache          caching.CacheService
	googleKeys     GoogleKeyfunc
	googleClientID string
	jwtSecret      []byte
	now            func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, cache caching.CacheService, googleKeys GoogleKeyfunc, googleClientID, jwtSecret string) AuthServiceInterface {
	return &authService{
		userRepo:       userRepo,
		cache:          cache,
		googleKeys:     googleKeys,
		googleClientID: googleClientID,
		jwtSecret:      []byte(jwtSecret),
		now:            time.Now,
	}
}

func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (string, *models.User, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, s.googleKeys.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(s.googleClientID),
		jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	issuer, _ := claims.GetIssuer()
	if issuer != "https://accounts.google.com" && issuer != "accounts.google.com" {
		return "", nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidIDToken, issuer)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return "", nil, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	user, err := s.userRepo.Upsert(ctx, &models.User{
		ID:       uuid.New(),
		GoogleID: sub,
		Email:    email,
		Name:     name,
		Role:     models.RoleStaff,
	})
	if err != nil {
		return "", nil, fmt.Errorf("upsert user: %w", err)
	}

	session, err := s.issueSessionToken(user)
	if err != nil {
		return "", nil, err
	}
	return session, user, nil
}

func (s *authService) issueSessionToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return s.cache.RevokeSession(ctx, tokenID, ttl)
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
