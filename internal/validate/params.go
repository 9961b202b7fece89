package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amcards/amcards-go/internal/apierrors"
)

// Params are the scalar inputs of a send, checked after the shipping address.
type Params struct {
	// ResourceName is the payload key of the resource id ("template_id",
	// "campaign_id"). Empty for sends that target no resource.
	ResourceName    string `json:"-"`
	ResourceID      int    `json:"resource_id" validate:"required_with=ResourceName,gte=0"`
	SendDate        string `json:"send_date" validate:"omitempty,ymd"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,phone10"`
	BirthDate       string `json:"birth_date" validate:"omitempty,ymd"`
	AnniversaryDate string `json:"anniversary_date" validate:"omitempty,ymd"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "ymd", func(fl validator.FieldLevel) bool {
		return IsValidDate(fl.Field().String())
	})
	mustRegister(v, "phone10", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err) //coverage:ignore
	}
}

// Check validates p and returns the first failure as an *apierrors.Error.
func (p Params) Check() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apierrors.InvalidRequest("%v", err) //coverage:ignore
	}

	fe := fieldErrs[0]
	value := fe.Value()
	str, _ := value.(string)

	switch fe.Tag() {
	case "ymd":
		return apierrors.DateFormat(fe.Field(), str)
	case "phone10":
		return apierrors.PhoneFormat(str)
	case "required_with":
		return apierrors.InvalidRequest("%s is required", p.ResourceName)
	case "gte":
		return apierrors.InvalidRequest("%s must be positive, got %d", p.ResourceName, p.ResourceID)
	}
	return apierrors.InvalidRequest("%s failed on %q validation", fe.Field(), fe.Tag()) //coverage:ignore
}
