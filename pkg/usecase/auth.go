package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model/auth"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

const (
	keySetCacheTTL = 5 * time.Minute
	tokenClockSkew = 10 * time.Second
)

// Authenticator turns a bearer token into the calling user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.User, error)
	IsNoAuthn() bool
}

// TokenAuthUseCase verifies access tokens issued by the hosted auth backend, either with a shared
// HMAC secret or with a JWK set fetched from a URL. The role comes from the account profile.
type TokenAuthUseCase struct {
	repo     interfaces.Repository
	secret   []byte
	jwksURL  string
	audience string
	issuer   string

	mu        sync.Mutex
	keySet    jwk.Set
	fetchedAt time.Time
}

type TokenAuthOption func(*TokenAuthUseCase)

func WithHMACSecret(secret string) TokenAuthOption {
	return func(uc *TokenAuthUseCase) {
		uc.secret = []byte(secret)
	}
}

func WithJWKSURL(url string) TokenAuthOption {
	return func(uc *TokenAuthUseCase) {
		uc.jwksURL = url
	}
}

func WithAudience(aud string) TokenAuthOption {
	return func(uc *TokenAuthUseCase) {
		uc.audience = aud
	}
}

func WithIssuer(iss string) TokenAuthOption {
	return func(uc *TokenAuthUseCase) {
		uc.issuer = iss
	}
}

func NewTokenAuthUseCase(repo interfaces.Repository, opts ...TokenAuthOption) (*TokenAuthUseCase, error) {
	uc := &TokenAuthUseCase{repo: repo}
	for _, opt := range opts {
		opt(uc)
	}

	if len(uc.secret) == 0 && uc.jwksURL == "" {
		return nil, goerr.New("either HMAC secret or JWKS URL is required")
	}
	if len(uc.secret) > 0 && uc.jwksURL != "" {
		return nil, goerr.New("HMAC secret and JWKS URL are mutually exclusive")
	}
	return uc, nil
}

func (uc *TokenAuthUseCase) IsNoAuthn() bool {
	return false
}

// Authenticate verifies signature and expiry, then resolves the role from the account profile.
// Users without a profile are employees.
func (uc *TokenAuthUseCase) Authenticate(ctx context.Context, token string) (*auth.User, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "empty token")
	}

	options := []jwt.ParseOption{
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(tokenClockSkew),
	}
	if uc.audience != "" {
		options = append(options, jwt.WithAudience(uc.audience))
	}
	if uc.issuer != "" {
		options = append(options, jwt.WithIssuer(uc.issuer))
	}

	if len(uc.secret) > 0 {
		options = append(options, jwt.WithKey(jwa.HS256, uc.secret))
	} else {
		keySet, err := uc.getKeySet(ctx)
		if err != nil {
			return nil, err
		}
		options = append(options, jwt.WithKeySet(keySet))
	}

	parsed, err := jwt.Parse([]byte(token), options...)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, err.Error())
	}

	userID := types.UserID(parsed.Subject())
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "invalid sub claim", goerr.V("sub", parsed.Subject()))
	}

	user := &auth.User{
		ID:   userID,
		Role: types.RoleEmployee,
	}
	if email, ok := parsed.Get("email"); ok {
		if s, ok := email.(string); ok {
			user.Email = s
		}
	}

	account, err := uc.repo.Account().Get(ctx, userID)
	switch {
	case err == nil:
		user.Role = account.Role.Normalize()
		if user.Email == "" {
			user.Email = account.Email
		}
	case errors.Is(err, interfaces.ErrNotFound):
	default:
		return nil, goerr.Wrap(err, "failed to get account", goerr.V(UserIDKey, userID))
	}

	return user, nil
}

func (uc *TokenAuthUseCase) getKeySet(ctx context.Context) (jwk.Set, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.keySet != nil && time.Since(uc.fetchedAt) < keySetCacheTTL {
		return uc.keySet, nil
	}

	keySet, err := jwk.Fetch(ctx, uc.jwksURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch JWK set", goerr.V("jwks_url", uc.jwksURL))
	}
	uc.keySet = keySet
	uc.fetchedAt = time.Now()
	return keySet, nil
}

// NoAuthnUseCase accepts every request as the anonymous administrator (for development/testing)
type NoAuthnUseCase struct{}

func NewNoAuthnUseCase() *NoAuthnUseCase {
	return &NoAuthnUseCase{}
}

func (uc *NoAuthnUseCase) Authenticate(ctx context.Context, token string) (*auth.User, error) {
	return auth.NewAnonymousUser(), nil
}

func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

func requireUser(ctx context.Context) (*auth.User, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "no user in context")
	}
	return user, nil
}

func requireAdmin(ctx context.Context) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return goerr.Wrap(ErrAccessDenied, "administrator role required", goerr.V(UserIDKey, user.ID))
	}
	return nil
}
