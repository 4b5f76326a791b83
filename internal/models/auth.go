package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// SignInForm is the sign-in screen's form.
type SignInForm struct {
	Email    string `json:"email"    form:"email"    validate:"required,max=50"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=50"`
}

// Credentials is step 1 of the sign-up wizard. Confirm checks equality first
// so a mismatch always reports as such.
type Credentials struct {
	Email    string `json:"email"    form:"email"    validate:"required,max=50,mailaddr"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=50,passwd"`
	Confirm  string `json:"confirm"  form:"confirm"  validate:"eqfield=Password,required,min=8,max=50,passwd"`
}

// Profile is step 2 of the sign-up wizard. Selections arrive as text from
// <select> and number inputs and are range checked before conversion.
type Profile struct {
	Gender     Numeric `json:"gender"      form:"gender"      validate:"required,oneof=0 1 2 9"`
	Locale     string  `json:"locale"      form:"locale"      validate:"required,oneof=ja en 9"`
	BirthYear  Numeric `json:"birth_year"  form:"birth_year"  validate:"required,intrange=1900 2100"`
	BirthMonth Numeric `json:"birth_month" form:"birth_month" validate:"required,intrange=1 12"`
	BirthDay   Numeric `json:"birth_day"   form:"birth_day"   validate:"required,intrange=1 32"`
	FamilyName string  `json:"family_name" form:"family_name" validate:"required,max=50"`
	GivenName  string  `json:"given_name"  form:"given_name"  validate:"required,max=50"`
}

// Numeric is a number typed into a form. JSON clients may send it either as
// a number or as a string.
type Numeric string

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("numeric: %w", err)
	}
	*n = Numeric(num.String())
	return nil
}

// SignUpForm is everything the wizard accumulates before account creation.
type SignUpForm struct {
	Credentials
	Profile
}

// EmailCheckRequest is the availability check on its own.
type EmailCheckRequest struct {
	Email string `json:"email" form:"email" validate:"required,max=50,mailaddr"`
}

// AuthCheckResponse adalah body sukses dari /authcheck.
type AuthCheckResponse struct {
	Redirect string `json:"redirect"`
}

// UpstreamError is the optional error body the auth service sends on non-OK.
type UpstreamError struct {
	Message string `json:"message"`
}

// CreateUserRequest is the JSON body for /user/create.
type CreateUserRequest struct {
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	NameJa     string     `json:"name_ja"`
	GivenName  string     `json:"given_name"`
	FamilyName string     `json:"family_name"`
	Locale     string     `json:"locale"`
	Gender     int        `json:"gender"`
	Birthday   *time.Time `json:"birthday"`
}
