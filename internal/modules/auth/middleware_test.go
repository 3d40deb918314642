package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eskrenkovic/products-go/internal/modules/auth/domain"
	"github.com/eskrenkovic/products-go/internal/modules/core"

	"github.com/stretchr/testify/require"
)

var codec = domain.NewTokenCodec([]byte("middleware-test-secret"), time.Hour)

func issue(t *testing.T, user domain.User) string {
	t.Helper()

	token, err := codec.IssueToken(user)
	require.NoError(t, err)

	return token
}

type recordingHandler struct {
	called  bool
	session core.ContextSession
	found   bool
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.session, h.found = core.Session(r.Context())
	w.WriteHeader(http.StatusOK)
}

func serve(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPatch, "/products/1", nil)
	if authorization != "" {
		r.Header.Set(AuthorizationHeader, authorization)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	return w
}

func Test_RequireBearerToken_Returns_401_With_Empty_Body_When_Header_Missing(t *testing.T) {
	// Arrange
	next := &recordingHandler{}
	handler := NewGate(codec).RequireBearerToken(next)

	// Act
	w := serve(handler, "")

	// Assert
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, w.Body.String())
	require.False(t, next.called)
}

func Test_RequireBearerToken_Returns_401_When_Token_Invalid(t *testing.T) {
	validToken := issue(t, domain.User{ID: 1, Authority: domain.AuthorityUser})

	tests := []struct {
		name          string
		authorization string
	}{
		{name: "bad token", authorization: "Bearer badtoken"},
		{name: "no bearer prefix", authorization: validToken},
		{name: "wrong scheme", authorization: "Basic " + validToken},
		{name: "prefix only", authorization: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			next := &recordingHandler{}
			handler := NewGate(codec).RequireBearerToken(next)

			// Act
			w := serve(handler, tt.authorization)

			// Assert
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Contains(t, w.Body.String(), ErrNotValidToken.Error())
			require.False(t, next.called)
		})
	}
}

func Test_RequireBearerToken_Passes_Session_When_Token_Valid(t *testing.T) {
	// Arrange
	next := &recordingHandler{}
	handler := NewGate(codec).RequireBearerToken(next)

	token := issue(t, domain.User{ID: 9, Authority: domain.AuthorityUser})

	// Act
	w := serve(handler, BearerPrefix+token)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, next.called)
	require.True(t, next.found)
	require.Equal(t, int64(9), next.session.UserID)
}

func Test_RequireBearerToken_Does_Not_Check_Authority(t *testing.T) {
	// Arrange
	next := &recordingHandler{}
	handler := NewGate(codec).RequireBearerToken(next)

	token := issue(t, domain.User{ID: 3})

	// Act
	w := serve(handler, BearerPrefix+token)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, next.called)
}

func Test_Authenticate_And_RequireAuthority(t *testing.T) {
	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{
			name:           "anonymous",
			authorization:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authorization:  "Bearer badtoken",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "authenticated without authority",
			authorization:  BearerPrefix + issue(t, domain.User{ID: 2}),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "authenticated user",
			authorization:  BearerPrefix + issue(t, domain.User{ID: 2, Authority: domain.AuthorityUser}),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			gate := NewGate(codec)
			next := &recordingHandler{}
			handler := gate.Authenticate(gate.RequireAuthority(domain.AuthorityUser)(next))

			// Act
			w := serve(handler, tt.authorization)

			// Assert
			require.Equal(t, tt.expectedStatus, w.Code)
			require.Equal(t, tt.expectedStatus == http.StatusOK, next.called)
		})
	}
}
