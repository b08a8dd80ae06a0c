// Package validation enforces field-level form validation rules before
// any persistence happens.
package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
)

// PasswordSymbols is the fixed punctuation set a password may (and must)
// draw its symbol from.
const PasswordSymbols = "@$!%*?&"

// RegisterForm carries the registration fields.
type RegisterForm struct {
	Name     string `validate:"required,min=6,capitalwords"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=10,strongpassword"`
}

// LoginForm carries the login fields.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SendCodeForm carries the recovery step-1 field.
type SendCodeForm struct {
	Email string `validate:"required,email"`
}

// ResetForm carries the new password pair. Equality of the two fields is
// checked by the handler; complexity is checked here.
type ResetForm struct {
	Password        string `validate:"required,min=10,strongpassword"`
	PasswordConfirm string `validate:"required"`
}

// PostForm carries the blog post authoring fields.
type PostForm struct {
	Title    string `validate:"required,min=10,max=40,titlewords,notspam"`
	Subtitle string `validate:"required,min=10,max=50,firstcap,notspam"`
	ImgURL   string `validate:"required,unsplashurl"`
	Body     string `validate:"required,min=100"`
}

// CommentForm carries a comment submission.
type CommentForm struct {
	Body string `validate:"required,min=30,max=100"`
}

// ContactForm carries the contact-page fields.
type ContactForm struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"required"`
	Message string `validate:"required"`
}

// FormValidator validates form structs and maps violations to
// user-facing messages.
type FormValidator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *FormValidator {
	v := validator.New()
	v.RegisterValidation("capitalwords", capitalWords)
	v.RegisterValidation("strongpassword", strongPassword)
	v.RegisterValidation("titlewords", titleWords)
	v.RegisterValidation("firstcap", firstWordCapital)
	v.RegisterValidation("notspam", notSpam)
	v.RegisterValidation("unsplashurl", unsplashURL)
	return &FormValidator{validate: v}
}

// Validate checks a form struct and returns the first violation as a
// ValidationFailure, or nil when the form passes.
func (fv *FormValidator) Validate(form any) *weberrors.WebError {
	err := fv.validate.Struct(form)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return weberrors.NewValidationError("", "Invalid form data")
	}
	first := validationErrs[0]
	return weberrors.NewValidationError(strings.ToLower(first.Field()), messageFor(first))
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please provide a valid email address."
	case "min":
		if fe.Field() == "Password" {
			return "Password must be at least 10 characters long."
		}
		return "This field is too short."
	case "max":
		return "This field is too long."
	case "capitalwords":
		return "Each word should start with a capital letter, can't contain numbers!"
	case "strongpassword":
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character."
	case "titlewords":
		return "Each word should start with a capital letter or a number!"
	case "firstcap":
		return "The content should start with a capital letter or a number!"
	case "notspam":
		return "Please provide meaningful content"
	case "unsplashurl":
		return "Please provide a URL from Unsplash."
	default:
		return "Invalid value."
	}
}

// capitalWords requires every whitespace-separated word to start with an
// uppercase letter and contain no digits.
func capitalWords(fl validator.FieldLevel) bool {
	words := strings.Fields(fl.Field().String())
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		runes := []rune(word)
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes {
			if unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}

// strongPassword requires at least one lowercase letter, one uppercase
// letter, one digit and one symbol from PasswordSymbols, and permits no
// characters outside those four classes. Length is checked separately.
func strongPassword(fl validator.FieldLevel) bool {
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// titleWords requires every word to start with an uppercase letter or a digit.
func titleWords(fl validator.FieldLevel) bool {
	words := strings.Fields(fl.Field().String())
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		first := []rune(word)[0]
		if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
			return false
		}
	}
	return true
}

// firstWordCapital requires only the first word to start with an
// uppercase letter or a digit.
func firstWordCapital(fl validator.FieldLevel) bool {
	words := strings.Fields(fl.Field().String())
	if len(words) == 0 {
		return false
	}
	first := []rune(words[0])[0]
	return unicode.IsUpper(first) || unicode.IsDigit(first)
}

// notSpam rejects content with more than ten words or a low unique
// character ratio, a cheap repetition heuristic.
func notSpam(fl validator.FieldLevel) bool {
	data := fl.Field().String()
	words := strings.Fields(data)
	if len(words) > 10 {
		return false
	}

	squeezed := strings.ReplaceAll(data, " ", "")
	total := len(squeezed)
	unique := make(map[rune]struct{})
	for _, r := range squeezed {
		unique[r] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(max(1, total))
	return ratio >= 0.3
}

// unsplashURL requires the image URL to come from Unsplash.
func unsplashURL(fl validator.FieldLevel) bool {
	return strings.Contains(fl.Field().String(), "https://images.unsplash.com/photo-")
}
