package session

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/apperrors"
)

// HeaderSessionID заголовок, в котором клиент передаёт id сессии
const HeaderSessionID = "x-session-id"

var (
	errSessionRequired = errors.New("session_id is required")
	errSessionInvalid  = errors.New("session is invalid or expired")
)

// Middleware читает x-session-id, резолвит его через store и кладёт user_id в context.
// Нет заголовка или сессии -> 401, ошибка хранилища -> 500.
func Middleware(store Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := r.Header.Get(HeaderSessionID)
			if sid == "" {
				apperrors.WriteError(w, http.StatusUnauthorized, errSessionRequired)
				return
			}

			userID, err := store.Lookup(r.Context(), sid)
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					apperrors.WriteError(w, http.StatusUnauthorized, errSessionInvalid)
					return
				}
				logger.Error("session lookup failed", zap.Error(err))
				apperrors.WriteError(w, http.StatusInternalServerError, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
