package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"festas/pkg/logger"
	"festas/pkg/model"

	"github.com/go-playground/validator/v10"
)

var hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	if err := v.RegisterValidation("bookingdate", validateBookingDate); err != nil {
		log.Fatal("Failed to register 'bookingdate' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

// Dates are plain resource-local calendar days, YYYY-MM-DD.
func validateBookingDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// ValidateDraft checks a creation request: tagged field rules, the interval
// ordering, and the resource-rules consent flag.
func (v *BookingValidator) ValidateDraft(draft *model.BookingDraft) error {
	if err := v.validate.Struct(draft); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	start, _ := model.MinutesOfDay(draft.Start)
	end, _ := model.MinutesOfDay(draft.End)
	if start >= end {
		errs = append(errs, ValidationError{
			Field:   "End",
			Message: "end must be after start",
		})
	}

	if !draft.RulesAccepted {
		errs = append(errs, ValidationError{
			Field:   "RulesAccepted",
			Message: "the area rules must be accepted before booking",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateInterval checks the raw query inputs of a conflict lookup.
func (v *BookingValidator) ValidateInterval(areaID, date, start, end string) error {
	var errs ValidationErrors

	if areaID == "" {
		errs = append(errs, ValidationError{Field: "AreaID", Message: "area_id is required"})
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		errs = append(errs, ValidationError{Field: "Date", Message: "date must be YYYY-MM-DD"})
	}
	if !hhmmRegex.MatchString(start) {
		errs = append(errs, ValidationError{Field: "Start", Message: "start must be HH:MM"})
	}
	if !hhmmRegex.MatchString(end) {
		errs = append(errs, ValidationError{Field: "End", Message: "end must be HH:MM"})
	}

	if len(errs) == 0 {
		s, _ := model.MinutesOfDay(start)
		e, _ := model.MinutesOfDay(end)
		if s >= e {
			errs = append(errs, ValidationError{Field: "End", Message: "end must be after start"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "hhmm":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "bookingdate":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid document ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
