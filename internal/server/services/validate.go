package services

import (
	"errors"
	"strconv"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

// newValidator adds utf16min and utf16max, length rules counted in UTF-16
// code units so that lengths match what browser clients measure.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("utf16min", func(fl validator.FieldLevel) bool {
		return utf16Len(fl.Field().String()) >= paramInt(fl)
	}))
	must(v.RegisterValidation("utf16max", func(fl validator.FieldLevel) bool {
		return utf16Len(fl.Field().String()) <= paramInt(fl)
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func paramInt(fl validator.FieldLevel) int {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic("bad length parameter " + fl.Param())
	}
	return n
}

// utf16Len counts UTF-16 code units: characters outside the Basic
// Multilingual Plane count as two.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// failedTag returns the tag of the first failed rule, or "" if err is not
// a validation failure.
func failedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}
