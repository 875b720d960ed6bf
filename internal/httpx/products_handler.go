package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-shop-api.git/internal/shop"
	"github.com/go-chi/chi/v5"
)

type ProductStore interface {
	Create(ctx context.Context, in shop.ProductInput) (shop.Product, error)
	Get(ctx context.Context, id string) (shop.Product, error)
	List(ctx context.Context, page, limit int) ([]shop.Product, int, error)
	Update(ctx context.Context, id string, patch shop.ProductPatch) (shop.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductsHandler struct {
	Products ProductStore
	Auth     func(http.Handler) http.Handler
}

type createProductReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	PriceCents  int    `json:"price_cents" validate:"gte=0"`
	Category    string `json:"category"`
	Stock       int    `json:"stock" validate:"gte=0"`
}

type updateProductReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int    `json:"price_cents" validate:"omitempty,gte=0"`
	Category    *string `json:"category"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
}

type productPageResp struct {
	Products    []shop.Product `json:"products"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list) // the only public catalog route
		r.Group(func(r chi.Router) {
			r.Use(h.Auth)
			r.Post("/", h.create)
			r.Get("/{id}", h.get)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if !decodeValid(w, r, &req) {
		return
	}
	p, err := h.Products.Create(r.Context(), shop.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	products, count, err := h.Products.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productPageResp{
		Products:    products,
		TotalPages:  (count + limit - 1) / limit,
		CurrentPage: page,
	})
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProductReq
	if !decodeValid(w, r, &req) {
		return
	}
	p, err := h.Products.Update(r.Context(), chi.URLParam(r, "id"), shop.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMsg(w, http.StatusOK, "Product removed")
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}
