package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Значения по умолчанию
const (
	DefaultCalendarDays   = 28 // Календарь виджета бронирования
	DefaultMaxRangeDays   = 62
	DefaultMaxAdvanceDays = 90
	DefaultAssignAttempts = 3
	DefaultCurrency       = "dkk"
	DefaultTimeZone       = "Europe/Copenhagen"
)

// Ограничения бизнес-валидации
const (
	MaxNotesLength              = 500
	MaxAddressLength            = 300
	MaxCustomerNameLength       = 120
	MaxCancellationReasonLength = 500
	MinPhoneDigits              = 6
	MaxPhoneDigits              = 15
	MaxServicesPerBooking       = 20
)

// Locale язык клиента (сайт локализован на датский, английский и румынский)
type Locale string

const (
	LocaleDanish   Locale = "da"
	LocaleEnglish  Locale = "en"
	LocaleRomanian Locale = "ro"
)

// IsValid returns true if the locale is supported by the site
func (l Locale) IsValid() bool {
	switch l {
	case LocaleDanish, LocaleEnglish, LocaleRomanian:
		return true
	}
	return false
}
