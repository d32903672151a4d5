package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BikeRepairService/internal/api/handlers"
)

// AdminTokenHeader заголовок с токеном back-office
const AdminTokenHeader = "X-Admin-Token"

const msgUnauthorized = "missing or invalid admin token"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AdminAuth пропускает запрос, только если X-Admin-Token совпадает с token.
// Пустой token закрывает доступ полностью
func AdminAuth(token string, logger Logger) mux.MiddlewareFunc {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(AdminTokenHeader))
			if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
				logger.Warn("AdminAuth: rejected request: method=%s, path=%s, remote=%s", r.Method, r.URL.Path, r.RemoteAddr)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
