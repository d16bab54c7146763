package httputil

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is the shared request validator for handler payloads.
var Validator = validator.New(validator.WithRequiredStructEnabled())

// ValidationError writes a 400 with one line per failed field.
func ValidationError(log *slog.Logger, w http.ResponseWriter, err error) {
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
		}
	}
	message := "invalid request"
	if len(fields) > 0 {
		message = "invalid request: " + strings.Join(fields, "; ")
	}
	log.Warn("request validation failed", "err", err)
	http.Error(w, message, http.StatusBadRequest)
}
