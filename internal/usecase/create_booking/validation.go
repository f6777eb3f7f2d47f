package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return ErrServiceRequired
	}

	if req.ResourceID != nil && *req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.Client.Name) == "" {
		return ErrClientRequired
	}

	if utf8.RuneCountInString(req.Client.Name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: client name exceeds %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.Client.ClientID != nil && *req.Client.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.Deposit.IsNegative() {
		return fmt.Errorf("%w: deposit must not be negative", ErrInvalidDeposit)
	}

	if !domain.HasMoneyScale(req.Deposit) {
		return fmt.Errorf("%w: deposit %s has more than %d decimal places", ErrInvalidDeposit, req.Deposit, domain.MoneyScale)
	}

	if err := validateLength("notes", req.Notes, domain.MaxNotesLength); err != nil {
		return err
	}
	if err := validateLength("vehicleInfo", req.VehicleInfo, domain.MaxVehicleInfoLength); err != nil {
		return err
	}
	if err := validateLength("clinicalNotes", req.ClinicalNotes, domain.MaxClinicalNotesLength); err != nil {
		return err
	}

	return nil
}

func validateLength(field string, value *string, max int) error {
	if value != nil && utf8.RuneCountInString(*value) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, field, max)
	}
	return nil
}

// validateCapabilities проверяет отраслевые поля записи
func validateCapabilities(req *Request, caps domain.Capabilities) error {
	if req.VehicleInfo != nil && !caps.VehicleInfo {
		return fmt.Errorf("%w: vehicleInfo", ErrCapabilityDisabled)
	}
	if req.ClinicalNotes != nil && !caps.ClinicalNotes {
		return fmt.Errorf("%w: clinicalNotes", ErrCapabilityDisabled)
	}
	return nil
}

// validateDeposit проверяет предоплату относительно цены услуги
func validateDeposit(deposit, price decimal.Decimal, caps domain.Capabilities) error {
	if deposit.GreaterThan(price) {
		return fmt.Errorf("%w: deposit %s exceeds price %s", ErrInvalidDeposit, deposit, price)
	}
	if deposit.IsPositive() && deposit.LessThan(price) && !caps.PartialPayment {
		return fmt.Errorf("%w: partialPayment", ErrCapabilityDisabled)
	}
	return nil
}

// normalizePhone приводит номер к формату E.164, регион берется из настроек бизнеса
func normalizePhone(phone *string, region string) (*string, error) {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil, nil
	}

	num, err := phonenumbers.Parse(*phone, strings.ToUpper(region))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhone, *phone)
	}

	formatted := phonenumbers.Format(num, phonenumbers.E164)
	return &formatted, nil
}

// validateSlot проверяет, что слот не в прошлом и помещается в часы работы
func validateSlot(candidate domain.Interval, hours domain.OpeningHours, now time.Time) error {
	if !candidate.Start.After(now) {
		return ErrInvalidDate
	}

	open, ok := hours.OpenIntervalForDate(candidate.Start)
	if !ok {
		return fmt.Errorf("%w: closed on %s", ErrOutsideOpeningHours, candidate.Start.Weekday())
	}
	if !open.Contains(candidate) {
		return fmt.Errorf("%w: %s-%s", ErrOutsideOpeningHours,
			candidate.Start.Format(domain.TimeFormat), candidate.End.Format(domain.TimeFormat))
	}
	return nil
}
