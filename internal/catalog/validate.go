package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/runger/cmdpal/internal/palette"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	// commandIDPattern allows dotted, dashed and underscored identifiers.
	commandIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:/-]*$`)
)

// ValidationError describes an invalid catalog field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterStructValidation(validateCandidate, palette.Candidate{})
		validateInst = v
	})
	return validateInst
}

// validateCandidate checks one palette.Candidate. The engine type carries no
// validation tags, so the rules live here.
func validateCandidate(sl validator.StructLevel) {
	c, ok := sl.Current().Interface().(palette.Candidate)
	if !ok {
		return
	}
	switch {
	case strings.TrimSpace(c.ID) == "":
		sl.ReportError(c.ID, "id", "ID", "required", "")
	case !commandIDPattern.MatchString(c.ID):
		sl.ReportError(c.ID, "id", "ID", "command_id", "")
	}
	if strings.TrimSpace(c.Label) == "" {
		sl.ReportError(c.Label, "label", "Label", "required", "")
	}
}

// Validate checks every command and rejects duplicate IDs. Recent IDs that
// name no command are allowed; they simply never boost anything.
func Validate(cat *Catalog) error {
	if cat == nil {
		return &ValidationError{Field: "catalog", Message: "catalog is nil"}
	}

	if err := validatorInstance().Struct(cat); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(cat.Commands))
	for i, cmd := range cat.Commands {
		if first, dup := seen[cmd.ID]; dup {
			return &ValidationError{
				Field:   fieldForCommand(i, "id"),
				Message: fmt.Sprintf("%s: duplicate id %q (first defined at commands[%d])", fieldForCommand(i, "id"), cmd.ID, first),
			}
		}
		seen[cmd.ID] = i
	}
	return nil
}

// convertValidationError turns validator errors into a ValidationError that
// names the first offending field.
func convertValidationError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		field := fieldName(fe)
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag()),
			Err:     err,
		}
	}
	return &ValidationError{Field: "catalog", Message: err.Error(), Err: err}
}

// fieldName renders "Catalog.Commands[3].ID" as "commands[3].id".
func fieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func fieldForCommand(index int, field string) string {
	return fmt.Sprintf("commands[%d].%s", index, field)
}
