package middlewares

import (
	"fmt"
	"net/http"

	"github.com/Gamequic/DigCardBackend/utils"

	"go.uber.org/zap"
)

// StoreError is panicked by handlers to end a request with a status and a
// message. IsStore marks failures that came back from the profile store.
type StoreError struct {
	Code    int
	Message string
	IsStore bool
}

func (e StoreError) Error() string {
	return e.Message
}

// ErrorHandler recovers panics and turns them into {"message": ...} bodies.
func ErrorHandler(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				switch e := rec.(type) {
				case StoreError:
					if e.Code >= http.StatusInternalServerError {
						logger.Error("Request failed",
							zap.String("path", r.URL.Path),
							zap.Int("status", e.Code),
							zap.Bool("store", e.IsStore),
							zap.String("error", e.Message))
					}
					utils.WriteJSON(w, e.Code, map[string]string{"message": e.Message})
				case error:
					logger.Error("Unhandled error", zap.String("path", r.URL.Path), zap.Error(e))
					utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": e.Error()})
				default:
					logger.Error("Unhandled panic", zap.String("path", r.URL.Path), zap.Any("panic", rec))
					utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": fmt.Sprint(rec)})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
