package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// requestError request que no pasó la validación de tags. Fields: campo (nombre JSON) -> mensaje.
type requestError struct {
	Fields map[string]string
}

func (e *requestError) Error() string {
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			return field + ": " + msg
		}
	}
	return "datos inválidos"
}

func (e *requestError) Unwrap() error { return domain.ErrInvalidInput }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// bindBody parsea el cuerpo JSON en out y valida sus tags.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{Fields: map[string]string{"body": "cuerpo inválido: " + err.Error()}}
	}
	return validateStruct(out)
}

// bindQuery parsea la query string en out y valida sus tags.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return &requestError{Fields: map[string]string{"query": "parámetros inválidos: " + err.Error()}}
	}
	return validateStruct(out)
}

func validateStruct(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make(map[string]string, len(ves))
	for _, ve := range ves {
		fields[fieldPath(ve)] = tagMessage(ve)
	}
	return &requestError{Fields: fields}
}

// fieldPath "CreateInvoiceRequest.lines[0].quantity" -> "lines[0].quantity".
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ve.Field()
}

func tagMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "es obligatorio"
	case "min":
		if ve.Kind() == reflect.Slice {
			return fmt.Sprintf("debe tener al menos %s elemento(s)", ve.Param())
		}
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", ve.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", ve.Param())
	case "max":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("no puede superar %s caracteres", ve.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", ve.Param())
	case "uuid":
		return "debe ser un UUID válido"
	case "oneof":
		return "debe ser uno de: " + ve.Param()
	case "email":
		return "debe ser un email válido"
	}
	return "no cumple la regla " + ve.Tag()
}
