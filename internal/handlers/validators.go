package handlers

import (
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators wires the closed domain enums into the binding
// layer so invalid tokens are rejected before they reach a service.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("txcategory", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategory(fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("budgetperiod", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseBudgetPeriod(fl.Field().String())
		return err == nil
	})
}
