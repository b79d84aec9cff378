package account

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gameon/apperrors"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,9}$`)

// newValidator builds a validator reporting fields by their json names. now
// anchors the age check.
func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("haslower", hasRune(unicode.IsLower))
	_ = v.RegisterValidation("hasupper", hasRune(unicode.IsUpper))
	_ = v.RegisterValidation("hasdigit", hasRune(unicode.IsDigit))
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("min_age", func(fl validator.FieldLevel) bool {
		dob, err := time.Parse(dateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		minAge, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		t := now()
		return dob.Before(t) && ageAt(dob, t) >= minAge
	})
	return v
}

func hasRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

// ageAt returns the age in whole years on the given day.
func ageAt(dob, t time.Time) int {
	age := t.Year() - dob.Year()
	if t.Month() < dob.Month() || (t.Month() == dob.Month() && t.Day() < dob.Day()) {
		age--
	}
	return age
}

type messages map[string]string

// validationError converts validator output into a Validation error with
// one message per failing field, looking up "field.tag" then "field" in msgs.
func validationError(err error, msgs messages) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Internal(err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// slice elements report as name[i]
		field, _, _ := strings.Cut(fe.Field(), "[")
		if _, ok := fields[field]; ok {
			continue
		}
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg, ok = msgs[field]
		}
		if !ok {
			msg = field + " is invalid"
		}
		fields[field] = msg
	}
	return apperrors.Validation(apperrors.MsgValidation, fields)
}
