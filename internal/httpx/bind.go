package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeValid parses the JSON body into v and applies its validate tags.
// On failure the 400 response has already been written; callers just
// return.
func decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}
