package config

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return token.IsIdentifier(name) && !token.IsKeyword(name)
	})

	return v
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: rule %q failed for %q", fe.Namespace(), ruleText(fe), fmt.Sprint(fe.Value())))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}

	return fe.Tag()
}
