package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	v10 "github.com/go-playground/validator/v10"
	"golang.org/x/text/message"
)

// Singleton validator dari go-playground
var (
	once sync.Once
	v    *v10.Validate
)

var (
	mailAddrRe = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@+[a-zA-Z0-9-]+\\.+[a-zA-Z0-9-]+$")
	alnumRe    = regexp.MustCompile(`^[0-9a-zA-Z]*$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
)

// New mengembalikan instance validator yang sama (thread-safe).
func New() *v10.Validate {
	once.Do(func() {
		v = v10.New()
		// error key = nama input di form, bukan nama field Go
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("mailaddr", isMailAddr)
		_ = v.RegisterValidation("passwd", isPassword)
		_ = v.RegisterValidation("intrange", isIntInRange)
	})
	return v
}

// IsMailAddr reports whether s looks like local@domain.tld.
func IsMailAddr(s string) bool { return mailAddrRe.MatchString(s) }

// IsPassword reports whether s is ASCII alphanumeric with at least one uppercase letter.
func IsPassword(s string) bool { return alnumRe.MatchString(s) && upperRe.MatchString(s) }

func isMailAddr(fl v10.FieldLevel) bool { return IsMailAddr(fl.Field().String()) }

func isPassword(fl v10.FieldLevel) bool { return IsPassword(fl.Field().String()) }

// intrange=lo hi, untuk angka yang datang sebagai string dari form
func isIntInRange(fl v10.FieldLevel) bool {
	bounds := strings.Fields(fl.Param())
	if len(bounds) != 2 {
		return false
	}
	lo, err1 := strconv.Atoi(bounds[0])
	hi, err2 := strconv.Atoi(bounds[1])
	if err1 != nil || err2 != nil {
		return false
	}
	var n int64
	switch f := fl.Field(); f.Kind() {
	case reflect.String:
		parsed, err := strconv.ParseInt(strings.TrimSpace(f.String()), 10, 64)
		if err != nil {
			return false
		}
		n = parsed
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = f.Int()
	default:
		return false
	}
	return n >= int64(lo) && n <= int64(hi)
}

// FieldError is the first rule a field failed.
type FieldError struct {
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// FieldErrors maps form input names to their failure.
type FieldErrors map[string]FieldError

// Messages renders every failure through p.
func (fe FieldErrors) Messages(p *message.Printer) map[string]string {
	out := make(map[string]string, len(fe))
	for field, e := range fe {
		out[field] = Message(e, p)
	}
	return out
}

// ValidateStruct memvalidasi struct dan merapikan error menjadi map[field]FieldError.
func ValidateStruct(s any) (FieldErrors, error) {
	err := New().Struct(s)
	if err == nil {
		return nil, nil
	}
	var ve v10.ValidationErrors
	if !errors.As(err, &ve) {
		// bukan error validasi terstruktur
		return FieldErrors{"_": {Rule: "invalid"}}, err
	}
	fields := make(FieldErrors, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = FieldError{Rule: fe.Tag(), Param: fe.Param()}
	}
	return fields, err
}

// Message bikin pesan ringkas per rule
func Message(e FieldError, p *message.Printer) string {
	switch e.Rule {
	case "required":
		return p.Sprintf("This field is required")
	case "max":
		n, _ := strconv.Atoi(e.Param)
		return p.Sprintf("Enter at most %d characters", n)
	case "min":
		n, _ := strconv.Atoi(e.Param)
		return p.Sprintf("Enter at least %d characters", n)
	case "mailaddr":
		return p.Sprintf("The email address format is invalid")
	case "passwd":
		return p.Sprintf("Use half-width letters and digits with at least one uppercase letter")
	case "eqfield":
		return p.Sprintf("Passwords do not match")
	case "oneof":
		return p.Sprintf("Please make a selection")
	case "intrange":
		bounds := strings.Fields(e.Param)
		if len(bounds) == 2 {
			return p.Sprintf("Enter a number between %s and %s", bounds[0], bounds[1])
		}
		return p.Sprintf("Enter a valid number")
	default:
		return p.Sprintf("This value is invalid")
	}
}
