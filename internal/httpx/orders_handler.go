package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-shop-api.git/internal/shop"
	"github.com/go-chi/chi/v5"
)

type OrderStore interface {
	Place(ctx context.Context, userID string, items []shop.OrderItem) (shop.Order, error)
	ListByUser(ctx context.Context, userID string) ([]shop.OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID, status string) (shop.Order, error)
}

type OrdersHandler struct {
	Orders OrderStore
	Auth   func(http.Handler) http.Handler
}

type placeOrderReq struct {
	Products []orderItemReq `json:"products" validate:"required,min=1,dive"`
}

type orderItemReq struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(h.Auth)
		r.Post("/", h.place)
		r.Get("/", h.history)
		r.Put("/{id}", h.updateStatus)
	})
}

func (h *OrdersHandler) place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if !decodeValid(w, r, &req) {
		return
	}

	items := make([]shop.OrderItem, 0, len(req.Products))
	for _, it := range req.Products {
		items = append(items, shop.OrderItem{ProductID: it.Product, Quantity: it.Quantity})
	}

	o, err := h.Orders.Place(r.Context(), UserID(r.Context()), items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) history(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListByUser(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if !decodeValid(w, r, &req) {
		return
	}
	o, err := h.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
