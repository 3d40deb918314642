package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/eskrenkovic/products-go/internal/modules/auth/domain"
	"github.com/eskrenkovic/products-go/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c LoginCommand) Validate() error {
	var emailErr, passwordErr error

	if c.Email == "" {
		emailErr = fmt.Errorf("invalid Email: '%s'", c.Email)
	}

	if c.Password == "" {
		passwordErr = fmt.Errorf("invalid Password")
	}

	return core.Validate(emailErr, passwordErr)
}

func (c LoginCommand) Redacted() interface{} {
	return LoginCommand{Email: c.Email, Password: "***"}
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[LoginCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[LoginCommand, LoginResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteCreated(w, r, "/session", response)
}

type LoginCommandHandler struct {
	db             *sql.DB
	passwordHasher *domain.PasswordHasher
	tokens         *domain.TokenCodec
}

func NewLoginCommandHandler(
	db *sql.DB,
	passwordHasher *domain.PasswordHasher,
	tokens *domain.TokenCodec,
) *LoginCommandHandler {
	return &LoginCommandHandler{db: db, passwordHasher: passwordHasher, tokens: tokens}
}

func (h *LoginCommandHandler) Handle(ctx context.Context, request LoginCommand) (LoginResponse, error) {
	const query = `
		SELECT
			id, email, name, password_hash, authority
		FROM
			auth.user
		WHERE
			email = $1;`

	email := strings.ToLower(strings.TrimSpace(request.Email))

	user, err := tql.QueryFirst[domain.User](ctx, h.db, query, email)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return LoginResponse{}, core.NewCommandError(http.StatusUnauthorized, ErrInvalidCredentials)
	case err != nil:
		return LoginResponse{}, core.NewCommandError(http.StatusInternalServerError, err)
	}

	if err := user.Authenticate(request.Password, h.passwordHasher); err != nil {
		return LoginResponse{}, core.NewCommandError(http.StatusUnauthorized, ErrInvalidCredentials)
	}

	accessToken, err := h.tokens.IssueToken(user)
	if err != nil {
		return LoginResponse{}, core.NewCommandError(http.StatusInternalServerError, err, core.WithReason("failed to issue access token"))
	}

	return LoginResponse{AccessToken: accessToken}, nil
}
