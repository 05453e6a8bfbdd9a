package appointment

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

var validate = validator.New()

// validateInput turns struct-tag failures into a validation error naming the fields.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return httperr.ErrValidation("invalid_input", err.Error())
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	return httperr.ErrValidation("invalid_input", "Invalid fields: "+strings.Join(fields, ", "))
}
