package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hoshichaam/authportal/internal/models"
	"github.com/hoshichaam/authportal/pkg/validator"
)

// Step is the sign-up wizard's state.
type Step int

const (
	StepCredentials Step = iota + 1 // email, password, confirm
	StepProfile                     // gender, locale, birth date, names
	StepSubmitted                   // terminal
)

func (s Step) String() string {
	switch s {
	case StepCredentials:
		return "credentials"
	case StepProfile:
		return "profile"
	case StepSubmitted:
		return "submitted"
	default:
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
}

// Wizard is one visitor's sign-up progress. Form holds whatever was last
// entered on either step, valid or not, so the screen can show it again.
type Wizard struct {
	Step Step              `json:"step"`
	Form models.SignUpForm `json:"form"`
}

func NewWizard() *Wizard {
	return &Wizard{Step: StepCredentials}
}

// AccountService is the part of the auth service the wizard needs.
type AccountService interface {
	CheckEmail(ctx context.Context, email string) error
	CreateUser(ctx context.Context, req models.CreateUserRequest) error
}

type SignUpService struct {
	accounts AccountService
}

func NewSignUpService(a AccountService) *SignUpService {
	return &SignUpService{accounts: a}
}

// Advance moves step 1 to step 2 once the credentials are valid and the email
// is free. Every call that passes validation costs one availability check.
func (s *SignUpService) Advance(ctx context.Context, w *Wizard, in models.Credentials) error {
	if w.Step != StepCredentials {
		return ErrWrongStep
	}
	w.Form.Credentials = in
	if fields, err := validator.ValidateStruct(in); err != nil {
		return &ValidationError{Fields: fields}
	}
	if err := s.CheckEmail(ctx, in.Email); err != nil {
		return err
	}
	w.Step = StepProfile
	return nil
}

// CheckEmail maps any rejection from the availability check to ErrEmailInUse.
func (s *SignUpService) CheckEmail(ctx context.Context, email string) error {
	err := s.accounts.CheckEmail(ctx, email)
	var rej *RejectedError
	if errors.As(err, &rej) {
		return ErrEmailInUse
	}
	return err
}

// Back returns to step 1 without validating or calling out. draft keeps
// whatever was typed on step 2.
func (s *SignUpService) Back(w *Wizard, draft models.Profile) error {
	if w.Step != StepProfile {
		return ErrWrongStep
	}
	w.Form.Profile = draft
	w.Step = StepCredentials
	return nil
}

// Submit validates the whole form and creates the account. On success the
// wizard ends in StepSubmitted with its form cleared; on failure it stays on
// step 2 with everything intact.
func (s *SignUpService) Submit(ctx context.Context, w *Wizard, in models.Profile) error {
	if w.Step != StepProfile {
		return ErrWrongStep
	}
	w.Form.Profile = in
	req, err := s.Prepare(w.Form)
	if err != nil {
		return err
	}
	if err := s.accounts.CreateUser(ctx, req); err != nil {
		return err
	}
	w.Step = StepSubmitted
	w.Form = models.SignUpForm{}
	return nil
}

// Create validates and submits a complete form in one go, for clients that
// keep the wizard state themselves.
func (s *SignUpService) Create(ctx context.Context, form models.SignUpForm) error {
	req, err := s.Prepare(form)
	if err != nil {
		return err
	}
	return s.accounts.CreateUser(ctx, req)
}

// Prepare validates form and builds the /user/create payload.
func (s *SignUpService) Prepare(form models.SignUpForm) (models.CreateUserRequest, error) {
	if fields, err := validator.ValidateStruct(form); err != nil {
		return models.CreateUserRequest{}, &ValidationError{Fields: fields}
	}
	return BuildCreateUserRequest(form), nil
}

// BuildCreateUserRequest assumes form already passed validation.
func BuildCreateUserRequest(form models.SignUpForm) models.CreateUserRequest {
	gender, _ := strconv.Atoi(strings.TrimSpace(string(form.Gender)))
	year, _ := strconv.Atoi(strings.TrimSpace(string(form.BirthYear)))
	month, _ := strconv.Atoi(strings.TrimSpace(string(form.BirthMonth)))
	day, _ := strconv.Atoi(strings.TrimSpace(string(form.BirthDay)))

	return models.CreateUserRequest{
		Email:      form.Email,
		Password:   form.Password,
		NameJa:     DisplayName(form.FamilyName, form.GivenName),
		GivenName:  form.GivenName,
		FamilyName: form.FamilyName,
		Locale:     form.Locale,
		Gender:     gender,
		Birthday:   BirthDate(year, month, day),
	}
}

// DisplayName is family-name-first with a single space.
func DisplayName(family, given string) string {
	return family + " " + given
}

// BirthDate builds the birthday from year/month/(day+1).
// TODO: the +1 is a known off-by-one; drop it once the account service
// confirms it stores the entered day. Days past the month roll over; a
// shifted day above 31 yields nil.
func BirthDate(year, month, day int) *time.Time {
	d := day + 1
	if d < 1 || d > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
	return &t
}
