package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model/auth"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/errutil"
	"github.com/secmon-lab/hra/pkg/utils/logging"
)

// authMiddleware verifies the bearer token and puts the caller into the request context
func authMiddleware(authn usecase.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var user *auth.User
			if authn == nil || authn.IsNoAuthn() {
				user = auth.NewAnonymousUser()
			} else {
				header := r.Header.Get("Authorization")
				if header == "" {
					errutil.HandleHTTP(ctx, w, goerr.Wrap(usecase.ErrUnauthenticated, "missing Authorization header"), http.StatusUnauthorized)
					return
				}

				authenticated, err := authn.Authenticate(ctx, header)
				if err != nil {
					errutil.HandleHTTP(ctx, w, err, statusOf(err))
					return
				}
				user = authenticated
			}

			ctx = auth.ContextWithUser(ctx, user)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
