package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for access token verification
type Auth struct {
	secret   string `masq:"secret"`
	jwksURL  string
	audience string
	issuer   string
	noAuth   bool
}

func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HMAC secret of the hosted auth backend (HS256 tokens)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("HRA_JWT_SECRET"),
			Destination: &a.secret,
		},
		&cli.StringFlag{
			Name:        "jwks-url",
			Usage:       "JWK set URL of the hosted auth backend (asymmetric tokens)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("HRA_JWKS_URL"),
			Destination: &a.jwksURL,
		},
		&cli.StringFlag{
			Name:        "jwt-audience",
			Usage:       "Expected aud claim",
			Category:    "Authentication",
			Sources:     cli.EnvVars("HRA_JWT_AUDIENCE"),
			Destination: &a.audience,
		},
		&cli.StringFlag{
			Name:        "jwt-issuer",
			Usage:       "Expected iss claim",
			Category:    "Authentication",
			Sources:     cli.EnvVars("HRA_JWT_ISSUER"),
			Destination: &a.issuer,
		},
		&cli.BoolFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and act as an anonymous administrator (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("HRA_NO_AUTH"),
			Destination: &a.noAuth,
		},
	}
}

func (a Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("secret_set", a.secret != ""),
		slog.String("jwks_url", a.jwksURL),
		slog.String("audience", a.audience),
		slog.String("issuer", a.issuer),
		slog.Bool("no_auth", a.noAuth),
	)
}

// IsNoAuthMode reports whether --no-auth was given
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuth
}

// Configure returns the token verifier for the API
func (a *Auth) Configure(repo interfaces.Repository) (usecase.Authenticator, error) {
	if a.noAuth {
		if a.secret != "" || a.jwksURL != "" {
			return nil, goerr.New("--no-auth cannot be combined with token verification settings")
		}
		logging.Default().Warn("Running in no-auth mode (development only)")
		return usecase.NewNoAuthnUseCase(), nil
	}

	opts := []usecase.TokenAuthOption{}
	if a.secret != "" {
		opts = append(opts, usecase.WithHMACSecret(a.secret))
	}
	if a.jwksURL != "" {
		opts = append(opts, usecase.WithJWKSURL(a.jwksURL))
	}
	if a.audience != "" {
		opts = append(opts, usecase.WithAudience(a.audience))
	}
	if a.issuer != "" {
		opts = append(opts, usecase.WithIssuer(a.issuer))
	}

	authUC, err := usecase.NewTokenAuthUseCase(repo, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure authentication (use --no-auth for development)")
	}
	return authUC, nil
}
