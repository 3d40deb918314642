package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/eskrenkovic/products-go/internal/modules/auth/domain"
	"github.com/eskrenkovic/products-go/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

const (
	minPasswordLength = 4
	registerRetries   = 3
)

var ErrEmailTaken = errors.New("email is already registered")

type RegisterUserCommand struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (c RegisterUserCommand) Validate() error {
	var emailErr, nameErr, passwordErr error

	if !strings.Contains(c.Email, "@") {
		emailErr = fmt.Errorf("invalid Email: '%s'", c.Email)
	}

	if strings.TrimSpace(c.Name) == "" {
		nameErr = fmt.Errorf("invalid Name: '%s'", c.Name)
	}

	switch {
	case len(c.Password) < minPasswordLength:
		passwordErr = fmt.Errorf("invalid Password: must be at least %d characters", minPasswordLength)
	case len(c.Password) > domain.MaxPasswordBytes:
		passwordErr = fmt.Errorf("invalid Password: must be at most %d bytes", domain.MaxPasswordBytes)
	}

	return core.Validate(emailErr, nameErr, passwordErr)
}

func (c RegisterUserCommand) Redacted() interface{} {
	return RegisterUserCommand{Email: c.Email, Name: c.Name, Password: "***"}
}

func HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[RegisterUserCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	user, err := mediator.Send[RegisterUserCommand, domain.User](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteCreated(w, r, "/users/"+strconv.FormatInt(user.ID, 10), user)
}

type RegisterUserCommandHandler struct {
	db             *sql.DB
	passwordHasher *domain.PasswordHasher
}

func NewRegisterUserCommandHandler(db *sql.DB, passwordHasher *domain.PasswordHasher) *RegisterUserCommandHandler {
	return &RegisterUserCommandHandler{db: db, passwordHasher: passwordHasher}
}

func (h *RegisterUserCommandHandler) Handle(ctx context.Context, request RegisterUserCommand) (domain.User, error) {
	user, err := domain.RegisterUser(request.Email, request.Name, request.Password, h.passwordHasher)
	if err != nil {
		return domain.User{}, core.NewCommandError(http.StatusInternalServerError, err, core.WithReason("user registration failed"))
	}

	user.ID, err = core.TxValue(ctx, h.db, func(ctx context.Context, tx *sql.Tx) (int64, error) {
		const existingUserQuery = `
			SELECT
				count(id)
			FROM
				auth.user
			WHERE
				email = $1;`

		count, err := tql.QueryFirst[int](ctx, tx, existingUserQuery, user.Email)
		if err != nil {
			return 0, err
		}

		if count > 0 {
			return 0, core.NewCommandError(http.StatusConflict, ErrEmailTaken)
		}

		const stmt = `
			INSERT INTO
				auth.user (email, name, password_hash, authority)
			VALUES
				($1, $2, $3, $4)
			RETURNING id;`

		return tql.QueryFirst[int64](ctx, tx, stmt, user.Email, user.Name, user.PasswordHash, user.Authority)
	}, core.WithIsolationLevel(sql.LevelSerializable), core.WithRetries(registerRetries))

	var commandErr core.CommandError
	switch {
	case err != nil && errors.As(err, &commandErr):
		return domain.User{}, commandErr
	case err != nil && core.IsUniqueViolation(err):
		return domain.User{}, core.NewCommandError(http.StatusConflict, ErrEmailTaken)
	case err != nil:
		return domain.User{}, core.NewCommandError(http.StatusInternalServerError, err, core.WithReason("failed to create new user entry"))
	}

	return user, nil
}
