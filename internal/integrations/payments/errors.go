package payments

import "errors"

var (
	// ErrInvalidRequest возвращается при некорректных параметрах платежной сессии
	ErrInvalidRequest = errors.New("payments client: invalid checkout request")

	// ErrCheckoutFailed возвращается, когда провайдер отклонил создание сессии
	ErrCheckoutFailed = errors.New("payments client: checkout session creation failed")

	// ErrProviderUnavailable возвращается, пока circuit breaker разомкнут
	ErrProviderUnavailable = errors.New("payments client: provider unavailable")

	// ErrWebhookNotConfigured возвращается, если не задан секрет вебхука
	ErrWebhookNotConfigured = errors.New("payments client: webhook secret is not configured")

	// ErrInvalidSignature возвращается при неверной подписи вебхука
	ErrInvalidSignature = errors.New("payments client: invalid webhook signature")

	// ErrInvalidPayload возвращается, когда тело события не удалось разобрать
	ErrInvalidPayload = errors.New("payments client: invalid webhook payload")
)
