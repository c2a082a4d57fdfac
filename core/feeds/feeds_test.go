package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestDBFeed_FetchProducts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT sku, price FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"sku", "price"}).
			AddRow("SKU-001", "19.99").
			AddRow([]byte("SKU-002"), 25.5))

	priceFeed, _, err := New(Config{Source: SourceDatabase, ProductTable: "products", LedgerTable: "inventory_ledger"}, db)
	require.NoError(t, err)

	products, err := priceFeed.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, Product{SKU: "SKU-001", Price: "19.99"}, products[0])
	assert.Equal(t, "SKU-002", products[1].SKU)
	assert.Equal(t, "25.5", products[1].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBFeed_FetchLedger(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT sku, recorded_at, initial_qty, received_qty, shipped_qty FROM inventory_ledger").
		WillReturnRows(sqlmock.NewRows([]string{"sku", "recorded_at", "initial_qty", "received_qty", "shipped_qty"}).
			AddRow("100", "2024-06-01 10:00:00", "5", "3", "1"))

	_, ledgerFeed, err := New(Config{Source: SourceDatabase, ProductTable: "products", LedgerTable: "inventory_ledger"}, db)
	require.NoError(t, err)

	entries, err := ledgerFeed.FetchLedger(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "100", entries[0].SKU)
	assert.Equal(t, "2024-06-01 10:00:00", entries[0].Timestamp)
	assert.Equal(t, "5", entries[0].Initial)
	assert.Equal(t, "3", entries[0].Received)
	assert.Equal(t, "1", entries[0].Shipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBFeed_QueryErrorIsFatal(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT sku, price FROM products").
		WillReturnError(assert.AnError)

	priceFeed, _, err := New(Config{Source: SourceDatabase, ProductTable: "products", LedgerTable: "inventory_ledger"}, db)
	require.NoError(t, err)

	_, err = priceFeed.FetchProducts(context.Background())
	assert.Error(t, err)
}

func TestHTTPFeed_FetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"sku": "SKU-001", "price": "19.99"}, {"sku": "SKU-002", "price": "5.00"}]`))
	}))
	defer srv.Close()

	priceFeed, _, err := New(Config{
		Source:         SourceHTTP,
		ProductURL:     srv.URL,
		LedgerURL:      srv.URL,
		TimeoutSeconds: 5,
	}, nil)
	require.NoError(t, err)

	products, err := priceFeed.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "SKU-001", products[0].SKU)
}

func TestHTTPFeed_NonCollectionResponseIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "not what you expected"}`))
	}))
	defer srv.Close()

	priceFeed, _, err := New(Config{
		Source:         SourceHTTP,
		ProductURL:     srv.URL,
		LedgerURL:      srv.URL,
		TimeoutSeconds: 5,
	}, nil)
	require.NoError(t, err)

	_, err = priceFeed.FetchProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-collection")
}

func TestHTTPFeed_FetchLedger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"sku": "100", "timestamp": "2024-06-01", "initial": "5", "received": "0", "shipped": "2"}]`))
	}))
	defer srv.Close()

	_, ledgerFeed, err := New(Config{
		Source:         SourceHTTP,
		ProductURL:     srv.URL,
		LedgerURL:      srv.URL,
		TimeoutSeconds: 5,
	}, nil)
	require.NoError(t, err)

	entries, err := ledgerFeed.FetchLedger(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "5", entries[0].Initial)
}

func TestNew_Validation(t *testing.T) {
	_, _, err := New(Config{Source: "carrier-pigeon"}, nil)
	assert.Error(t, err)

	_, _, err = New(Config{Source: SourceDatabase}, nil)
	assert.Error(t, err, "database source without a connection must fail")

	_, _, err = New(Config{Source: SourceHTTP}, nil)
	assert.Error(t, err, "http source without URLs must fail")
}
