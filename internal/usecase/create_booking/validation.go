package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/m04kA/SMC-BikeRepairService/internal/domain"
)

// validateRequest валидирует входные данные запроса и возвращает нормализованный телефон
func validateRequest(req *Request) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !req.Slot.IsValid() {
		return "", fmt.Errorf("%w: unknown slot %q", ErrInvalidInput, req.Slot)
	}

	if !req.BikeType.IsValid() {
		return "", fmt.Errorf("%w: unknown bike type %q", ErrInvalidInput, req.BikeType)
	}

	if !req.Locale.IsValid() {
		return "", fmt.Errorf("%w: unsupported locale %q", ErrInvalidInput, req.Locale)
	}

	if len(req.ServiceIDs) == 0 {
		return "", fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return "", fmt.Errorf("%w: too many services (max %d)", ErrInvalidInput, domain.MaxServicesPerBooking)
	}
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return "", fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	if req.QuotedTotalOre <= 0 {
		return "", fmt.Errorf("%w: total must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return "", fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > domain.MaxCustomerNameLength {
		return "", fmt.Errorf("%w: customer name is too long", ErrInvalidInput)
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return "", err
	}

	if req.Email != nil && *req.Email != "" && !looksLikeEmail(*req.Email) {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return "", fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if len([]rune(address)) > domain.MaxAddressLength {
		return "", fmt.Errorf("%w: address is too long", ErrInvalidInput)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return "", fmt.Errorf("%w: notes are too long (max %d)", ErrInvalidInput, domain.MaxNotesLength)
	}

	return phone, nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate, today time.Time, maxAdvanceDays int) error {
	if domain.IsDateInPast(bookingDate, today) {
		return ErrInvalidDate
	}

	// Если maxAdvanceDays = 0, нет ограничений на дату
	if maxAdvanceDays == 0 {
		return nil
	}

	if domain.DaysBetween(today, bookingDate) > maxAdvanceDays {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// normalizePhone оставляет цифры и ведущий плюс: "+45 12 34-56 78" -> "+4512345678"
func normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	digits := 0
	for i, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
		}
	}

	if digits < domain.MinPhoneDigits || digits > domain.MaxPhoneDigits {
		return "", fmt.Errorf("%w: phone must contain %d-%d digits", ErrInvalidInput,
			domain.MinPhoneDigits, domain.MaxPhoneDigits)
	}

	return b.String(), nil
}

func looksLikeEmail(v string) bool {
	at := strings.LastIndex(v, "@")
	return at > 0 && at < len(v)-1 && !strings.ContainsAny(v, " \t\n") && strings.Contains(v[at:], ".")
}

// uniqueIDs убирает повторы, сохраняя порядок
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
