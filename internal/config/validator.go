package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	stackNamePattern   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)
	envNamePattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	portMappingPattern = regexp.MustCompile(`^((\d{1,3}\.){3}\d{1,3}:)?\d{1,5}(-\d{1,5})?(:\d{1,5}(-\d{1,5})?)?(/(tcp|udp|sctp))?$`)

	tagMessages = map[string]string{
		"required":     "is required",
		"stack_name":   "must start with a letter or digit and contain only letters, digits, '_', '.' or '-'",
		"env_name":     "must be a valid environment variable name",
		"port_mapping": "must be a port mapping such as 8080, 8080:80 or 127.0.0.1:8080:80/tcp",
		"env_value":    "must fit on one line (no line breaks or control characters)",
	}
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(fld.Name)
			}
			return name
		})

		_ = v.RegisterValidation("stack_name", func(fl validator.FieldLevel) bool {
			return stackNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("env_name", func(fl validator.FieldLevel) bool {
			return envNamePattern.MatchString(fl.Field().String())
		})

		// Values are rendered inside a single Dockerfile line.
		_ = v.RegisterValidation("env_value", func(fl validator.FieldLevel) bool {
			return !strings.ContainsFunc(fl.Field().String(), func(r rune) bool {
				return r != '\t' && unicode.IsControl(r)
			})
		})

		_ = v.RegisterValidation("port_mapping", func(fl validator.FieldLevel) bool {
			return portMappingPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return voilaerrors.NewValidationError("", "configuration is empty", nil, nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(cfg.Stacks))
	for i, stack := range cfg.Stacks {
		if first, exists := seen[stack.Name]; exists {
			return voilaerrors.NewValidationError(fieldForStack(i, "name"), fmt.Sprintf("duplicate stack name (first declared at stacks[%d])", first), stack.Name, nil)
		}
		seen[stack.Name] = i

		if err := validateActions(i, stack.Stages.Build.Actions); err != nil {
			return err
		}
	}

	return nil
}

func validateActions(stackIndex int, actions []Action) error {
	for j, action := range actions {
		if action.Kind != ActionExecute || action.Execute == nil || !action.Execute.IsLine() {
			continue
		}
		if _, err := action.Execute.Words(); err != nil {
			field := fieldForStack(stackIndex, fmt.Sprintf("stages.build.actions[%d].execute", j))
			return voilaerrors.NewValidationError(field, "command line cannot be tokenized", action.Execute.Line, err)
		}
	}
	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlFieldPath(ve)
		msg, ok := tagMessages[ve.Tag()]
		switch {
		case ve.Tag() == "min":
			msg = fmt.Sprintf("must contain at least %s item(s)", ve.Param())
		case !ok:
			msg = fmt.Sprintf("failed validation for tag '%s'", ve.Tag())
		}
		return voilaerrors.NewValidationError(field, msg, ve.Value(), err)
	}

	return voilaerrors.NewValidationError("", err.Error(), nil, err)
}

// yamlFieldPath drops the root struct name from the validator namespace,
// e.g. "Config.stacks[0].name" becomes "stacks[0].name".
func yamlFieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func fieldForStack(index int, field string) string {
	return fmt.Sprintf("stacks[%d].%s", index, field)
}
