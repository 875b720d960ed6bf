package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ariefcatur/go-shop-api.git/internal/shop"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"msg": msg})
}

// writeError maps domain errors to their status + {msg} body. Anything
// unrecognized is logged and answered with a bare 500; detail stays
// server-side.
func writeError(w http.ResponseWriter, err error) {
	var notFound *shop.ProductNotFoundError
	var noStock *shop.InsufficientStockError
	switch {
	case errors.As(err, &notFound):
		writeMsg(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &noStock):
		writeMsg(w, http.StatusBadRequest, noStock.Error())
	case errors.Is(err, shop.ErrOrderNotFound):
		writeMsg(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, shop.ErrEmailTaken):
		writeMsg(w, http.StatusBadRequest, "User already exists")
	default:
		log.Printf("server error: %v", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
