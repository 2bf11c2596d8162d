package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	hodDepartmentTag  = "hod_department"
	hodDepartmentText = "a head of department must have a department"
)

// InitValidators registers the user validations on `validate`.
// core.InitValidators must have been called on it first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	validate.RegisterStructValidation(seedStructValidation, Seed{})
	core.RegisterCustomTranslation(validate, translator, hodDepartmentTag, hodDepartmentText)
}

// Custom Validators

// roleValidation checks that the role is one of AllRoles.
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).IsValid()
}

// seedStructValidation requires HOD seeds to carry a department.
func seedStructValidation(sl validator.StructLevel) {
	seed := sl.Current().Interface().(Seed)
	if seed.Role == RoleHOD && core.CleanString(seed.Department) == "" {
		sl.ReportError(seed.Department, "department", "Department", hodDepartmentTag, "")
	}
}
