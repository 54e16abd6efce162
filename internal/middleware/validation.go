package middleware

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

var validGenotypes = map[string]bool{
	"AA": true, "AS": true, "SS": true, "AC": true, "SC": true, "CC": true,
}

// SetupValidation registers the domain validators on gin's binding engine
// and makes validation errors report json field names instead of Go ones.
// Call once before the first request.
func SetupValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return validBloodGroups[fl.Field().String()]
	})
	_ = v.RegisterValidation("genotype", func(fl validator.FieldLevel) bool {
		return validGenotypes[strings.ToUpper(fl.Field().String())]
	})
}

var validationMessages = map[string]string{
	"required":   "field is required",
	"email":      "invalid email format",
	"min":        "value is too short",
	"max":        "value is too long",
	"bloodgroup": "must be a valid blood group (A+, A-, B+, B-, AB+, AB-, O+, O-)",
	"genotype":   "must be a valid genotype (AA, AS, SS, AC, SC, CC)",
}

// ValidationMessage renders a bind error as a client-facing message, one
// line per failed field.
func ValidationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := validationMessages[e.Tag()]
		if msg == "" {
			msg = fmt.Sprintf("failed %s validation", e.Tag())
		}
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field(), msg))
	}
	return strings.Join(parts, "; ")
}
