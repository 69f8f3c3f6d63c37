package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/nhle/notifeed/internal/credential"
)

// validateTimeout bounds the connection check after a token is entered.
const validateTimeout = 15 * time.Second

// Validator checks a token against the notification source and returns
// the account login.
type Validator func(ctx context.Context, token string) (string, error)

// PromptToken asks for a GitHub token, verifies it with validate and
// stores it in the keyring. It returns the token and the account login.
func PromptToken(validate Validator) (token, login string, err error) {
	var save = true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("GitHub access").
				Description("notifeed needs a token with the notifications scope.\n"+
					"Create one at https://github.com/settings/tokens"),
			huh.NewInput().
				Title("Personal Access Token").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(validateToken),
			huh.NewConfirm().
				Title("Save token to the system keyring?").
				Value(&save),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", "", credential.ErrNoToken
		}
		return "", "", fmt.Errorf("running token form: %w", err)
	}
	token = strings.TrimSpace(token)

	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()

	login, err = validate(ctx, token)
	if err != nil {
		return "", "", fmt.Errorf("validating token: %w", err)
	}

	if save {
		if err := credential.Set(credential.TokenKey, token); err != nil {
			return "", "", err
		}
	}

	return token, login, nil
}

// validateToken rejects empty tokens and tokens containing whitespace.
func validateToken(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("token is required")
	}
	if strings.ContainsAny(s, " \t\n") {
		return errors.New("token must not contain whitespace")
	}
	return nil
}
