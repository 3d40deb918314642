package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eskrenkovic/products-go/internal/modules/auth/domain"
	"github.com/eskrenkovic/products-go/internal/modules/core"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

var (
	ErrNotValidToken              = errors.New("not valid token")
	ErrMissingAuthorizationHeader = errors.New("missing authorization header")
)

type TokenValidator interface {
	ParseToken(accessToken string) (*domain.Claims, error)
}

// Gate authenticates requests from the Authorization header. Every
// protected route goes through one of its middlewares.
type Gate struct {
	tokens TokenValidator
}

func NewGate(tokens TokenValidator) *Gate {
	return &Gate{tokens: tokens}
}

// Authenticate attaches the caller's session when a valid bearer token is
// present. Requests without the header pass through anonymous.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := g.session(r)
		switch {
		case errors.Is(err, ErrMissingAuthorizationHeader):
			next.ServeHTTP(w, r)
			return
		case err != nil:
			core.WriteUnauthorized(w, r, core.NewCommandError(http.StatusUnauthorized, err))
			return
		}

		next.ServeHTTP(w, r.WithContext(core.WithSession(r.Context(), session)))
	})
}

// RequireAuthority must run after Authenticate.
func (g *Gate) RequireAuthority(authority string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := core.Session(r.Context())
			if !ok {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			if !session.HasAuthority(authority) {
				core.WriteForbidden(w, r, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireBearerToken rejects requests without a valid bearer token. A
// missing header is answered with an empty 401.
func (g *Gate) RequireBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := g.session(r)
		switch {
		case errors.Is(err, ErrMissingAuthorizationHeader):
			core.WriteUnauthorized(w, r, nil)
			return
		case err != nil:
			core.WriteUnauthorized(w, r, core.NewCommandError(http.StatusUnauthorized, err))
			return
		}

		next.ServeHTTP(w, r.WithContext(core.WithSession(r.Context(), session)))
	})
}

func (g *Gate) session(r *http.Request) (core.ContextSession, error) {
	authorization := r.Header.Get(AuthorizationHeader)
	if authorization == "" {
		return core.ContextSession{}, ErrMissingAuthorizationHeader
	}

	claims, err := g.validate(authorization)
	if err != nil {
		return core.ContextSession{}, err
	}

	return core.ContextSession{
		UserID:      claims.UserID,
		Authorities: claims.Authorities,
	}, nil
}

func (g *Gate) validate(authorization string) (*domain.Claims, error) {
	if !strings.HasPrefix(authorization, BearerPrefix) {
		return nil, ErrNotValidToken
	}

	accessToken := authorization[len(BearerPrefix):]

	claims, err := g.tokens.ParseToken(accessToken)
	if err != nil || claims == nil {
		return nil, ErrNotValidToken
	}

	return claims, nil
}
