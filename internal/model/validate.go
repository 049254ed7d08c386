package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sandeepkv93/routined/internal/period"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("recurrence", func(fl validator.FieldLevel) bool {
		return Recurrence(fl.Field().String()).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("register recurrence validator: %v", err))
	}
	if err := validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return period.Weekday(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("register weekday validator: %v", err))
	}
	if err := validate.RegisterValidation("tasktype", func(fl validator.FieldLevel) bool {
		return TaskType(fl.Field().String()).IsValid()
	}); err != nil {
		panic(fmt.Sprintf("register tasktype validator: %v", err))
	}
}

// checkStruct runs tag validation and maps the first failure onto the
// package's sentinel errors.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "recurrence":
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, fe.Value())
	case "weekday":
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, fe.Value())
	case "tasktype":
		return fmt.Errorf("%w: %q", ErrInvalidTaskType, fe.Value())
	}
	if fe.Field() == "WeekOfMonth" {
		return fmt.Errorf("%w: %v", ErrInvalidWeekOfMonth, fe.Value())
	}
	return fmt.Errorf("model: %s failed %q", fe.Namespace(), fe.Tag())
}
