package services

import (
	"context"
	"strings"

	"github.com/hoshichaam/authportal/internal/models"
	"github.com/hoshichaam/authportal/pkg/validator"
)

// Authenticator is the part of the auth service the sign-in screen needs.
type Authenticator interface {
	AuthCheck(ctx context.Context, email, password, cookieHeader string) (AuthCheckResult, error)
}

type SignInService struct {
	auth Authenticator
}

func NewSignInService(a Authenticator) *SignInService {
	return &SignInService{auth: a}
}

// SignInResult tells the screen where to go and which cookies to hand back.
type SignInResult struct {
	Redirect   string
	SetCookies []string
}

// SignIn validates form and, only if it is valid, checks the credentials.
func (s *SignInService) SignIn(ctx context.Context, form models.SignInForm, cookieHeader string) (SignInResult, error) {
	if fields, err := validator.ValidateStruct(form); err != nil {
		return SignInResult{}, &ValidationError{Fields: fields}
	}
	res, err := s.auth.AuthCheck(ctx, form.Email, form.Password, cookieHeader)
	if err != nil {
		return SignInResult{}, err
	}
	redirect := strings.TrimSpace(res.Redirect)
	if redirect == "" {
		redirect = "/"
	}
	return SignInResult{Redirect: redirect, SetCookies: res.SetCookies}, nil
}
