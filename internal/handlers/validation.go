package handlers

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

// RegisterValidators installs the custom binding tags used by request models.
// It must run before the router serves requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	rules := map[string]validator.Func{
		"leadstatus": validateLeadStatus,
		"userrole":   validateUserRole,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validateLeadStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || models.LeadStatus(s).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.Role(fl.Field().String()) {
	case "", models.RoleAdmin, models.RoleTeamLeader, models.RoleUser:
		return true
	}
	return false
}
