package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-workflow-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Nombres de campo según el tag json, como los ve el cliente.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type validationError struct {
	msg     string
	details []dto.ValidationDetail
}

func (e *validationError) Error() string { return e.msg }

// bindJSON decodifica el body y aplica las reglas validate del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &validationError{msg: "cuerpo inválido"}
	}
	if err := validate.Struct(out); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return &validationError{msg: err.Error()}
		}
		details := make([]dto.ValidationDetail, 0, len(ves))
		for _, fe := range ves {
			details = append(details, dto.ValidationDetail{Field: fieldPath(fe), Message: validationMessage(fe)})
		}
		return &validationError{msg: "validación de la petición falló", details: details}
	}
	return nil
}

// fieldPath ruta del campo sin el nombre del struct raíz (lines[0].product_id).
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "uuid":
		return "uuid inválido"
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	default:
		return "valor inválido"
	}
}

// uuidParam valida un parámetro de ruta con formato uuid.
func uuidParam(c *fiber.Ctx, name string) (string, error) {
	v := c.Params(name)
	if err := validate.Var(v, "required,uuid"); err != nil {
		return "", &validationError{
			msg:     name + " inválido",
			details: []dto.ValidationDetail{{Field: name, Message: "uuid inválido"}},
		}
	}
	return v, nil
}
