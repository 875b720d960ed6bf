package shop

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderRepo(t *testing.T) (*OrderRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &OrderRepo{DB: mock}, mock
}

const lockProductSQL = `SELECT name, stock FROM products WHERE id = $1 FOR UPDATE`

func TestPlaceDecrementsStockOnce(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProductSQL)).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "stock"}).AddRow("Widget", 10))
	mock.ExpectQuery(regexp.QuoteMeta(lockProductSQL)).
		WithArgs("p2").
		WillReturnRows(pgxmock.NewRows([]string{"name", "stock"}).AddRow("Gadget", 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(pgxmock.AnyArg(), "u1", DefaultOrderStatus, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(pgxmock.AnyArg(), "p1", 2).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $2`)).
		WithArgs("p1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(pgxmock.AnyArg(), "p2", 3).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $2`)).
		WithArgs("p2", 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	items := []OrderItem{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 3}}
	o, err := repo.Place(context.Background(), "u1", items)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, DefaultOrderStatus, o.Status)
	assert.Equal(t, items, o.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceInsufficientStockWritesNothing(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProductSQL)).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "stock"}).AddRow("Widget", 1))
	mock.ExpectRollback()

	_, err := repo.Place(context.Background(), "u1", []OrderItem{{ProductID: "p1", Quantity: 3}})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Widget", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceUnknownProductWritesNothing(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProductSQL)).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Place(context.Background(), "u1", []OrderItem{{ProductID: "ghost", Quantity: 1}})

	var nfErr *ProductNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "ghost", nfErr.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceAbortsBeforeAnyWriteOnLaterInvalidItem(t *testing.T) {
	repo, mock := newOrderRepo(t)

	// first item is fine, second is short; still no insert may happen
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProductSQL)).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "stock"}).AddRow("Widget", 10))
	mock.ExpectQuery(regexp.QuoteMeta(lockProductSQL)).
		WithArgs("p2").
		WillReturnRows(pgxmock.NewRows([]string{"name", "stock"}).AddRow("Gadget", 0))
	mock.ExpectRollback()

	_, err := repo.Place(context.Background(), "u1",
		[]OrderItem{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 1}})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Gadget", stockErr.ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUserResolvesProducts(t *testing.T) {
	repo, mock := newOrderRepo(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "status", "created_at", "quantity",
		"pid", "pname", "pdesc", "pprice", "pcat", "pstock", "pcreated", "pupdated",
	}).
		AddRow("o1", "Pending", now, 2,
			ptr("p1"), ptr("Widget"), ptr("A widget"), ptr(100), ptr("tools"), ptr(8), ptr(now), ptr(now)).
		AddRow("o1", "Pending", now, 1,
			nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders o`)).
		WithArgs("u1").
		WillReturnRows(rows)

	out, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Items, 2)

	require.NotNil(t, out[0].Items[0].Product)
	assert.Equal(t, "Widget", out[0].Items[0].Product.Name)
	assert.Equal(t, 100, out[0].Items[0].Product.PriceCents)
	assert.Equal(t, 2, out[0].Items[0].Quantity)

	// product deleted since placement: reference stays, record is gone
	assert.Nil(t, out[0].Items[1].Product)
	assert.Equal(t, 1, out[0].Items[1].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusAcceptsAnyLabel(t *testing.T) {
	repo, mock := newOrderRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE orders SET status = $2`)).
		WithArgs("o1", "On a boat").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "status", "created_at"}).
			AddRow("o1", "u1", "On a boat", now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, quantity FROM order_items`)).
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "quantity"}).AddRow("p1", 2))

	o, err := repo.UpdateStatus(context.Background(), "o1", "On a boat")
	require.NoError(t, err)
	assert.Equal(t, "On a boat", o.Status)
	assert.Equal(t, []OrderItem{{ProductID: "p1", Quantity: 2}}, o.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE orders SET status = $2`)).
		WithArgs("ghost", "Shipped").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), "ghost", "Shipped")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func ptr[T any](v T) *T { return &v }
