// Package validator 注册自定义校验规则并把校验错误转成可读的提示
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"activity-portal/tools"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	categoryPattern   = regexp.MustCompile(`^[a-zA-Z0-9 áéíóúÁÉÍÓÚñÑ]+$`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

var rules = map[string]validator.Func{
	// timerange: "HH:mm - HH:mm" 且结束晚于开始
	"timerange": func(fl validator.FieldLevel) bool {
		_, _, err := tools.ParseTimeRange(fl.Field().String())
		return err == nil
	},
	"enrollstatus": oneOf("Inscrito", "Cancelado"),
	"modality":     oneOf("Presencial", "Híbrida", "Virtual"),
	"schedule":     oneOf("Matutina", "Vespertina", "Nocturna"),
	"role":         oneOf("Estudiante", "Organizador", "Admin"),
	"personname":   matches(personNamePattern),
	"categoryname": matches(categoryPattern),
	"phone":        matches(phonePattern),
}

var once sync.Once

// Init 把规则注册到 gin 的校验引擎，可重复调用
func Init() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := Register(v); err != nil {
			panic(err)
		}
	})
}

func Register(v *validator.Validate) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

var messages = map[string]string{
	"required":     "es obligatorio",
	"email":        "no es un correo válido",
	"timerange":    "debe tener el formato 'HH:mm - HH:mm'",
	"enrollstatus": "debe ser 'Inscrito' o 'Cancelado'",
	"modality":     "debe ser 'Presencial', 'Híbrida' o 'Virtual'",
	"schedule":     "debe ser 'Matutina', 'Vespertina' o 'Nocturna'",
	"role":         "debe ser 'Estudiante', 'Organizador' o 'Admin'",
	"personname":   "solo puede contener letras y espacios",
	"categoryname": "solo puede contener letras, números y espacios",
	"phone":        "debe contener de 7 a 15 números y puede incluir +",
}

// Describe 把绑定错误转换成一行西语提示
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describeField(fe))
	}
	return strings.Join(parts, "; ")
}

func describeField(fe validator.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf("%s %s", fe.Field(), msg)
	}
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("%s debe ser al menos %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s no puede superar %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no es válido (%s)", fe.Field(), fe.Tag())
	}
}
