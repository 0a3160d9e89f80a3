package middlewares

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the json name of a field, not the Go one.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatorHandler decodes the body into a new value of t and validates it.
// The body is restored so the handler can decode it again.
func ValidatorHandler(t reflect.Type) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				panic(StoreError{Code: http.StatusBadRequest, Message: "Invalid request body"})
			}
			r.Body.Close()

			target := reflect.New(t).Interface()
			if err := json.Unmarshal(body, target); err != nil {
				panic(StoreError{Code: http.StatusBadRequest, Message: decodeMessage(err)})
			}

			if err := validate.Struct(target); err != nil {
				panic(StoreError{Code: http.StatusBadRequest, Message: validationMessage(err)})
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("Invalid value for field %s", typeErr.Field)
	}
	return "Invalid request payload"
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.SplitN(fe.Namespace(), ".", 2)
		name := field[len(field)-1]
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", name))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", name))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", name, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed on %s", name, fe.Tag()))
		}
	}
	return strings.Join(messages, "; ")
}
