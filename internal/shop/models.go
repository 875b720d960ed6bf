package shop

import "time"

// DefaultOrderStatus is what a freshly placed order carries. Status is
// free text after that; callers may set any label via the update endpoint.
const DefaultOrderStatus = "Pending"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int       `json:"price_cents"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Status    string      `json:"status"`
	Items     []OrderItem `json:"products"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is one line of an order: which product, how many.
type OrderItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// OrderDetail is the history view: same order, but with each line item's
// product reference resolved to the full product record. Product is nil
// when the product has been deleted since the order was placed.
type OrderDetail struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Status    string            `json:"status"`
	Items     []OrderItemDetail `json:"products"`
	CreatedAt time.Time         `json:"created_at"`
}

type OrderItemDetail struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}
