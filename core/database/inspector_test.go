package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func columnRows(fields ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f, "VARCHAR(64)", "YES", "", nil, "")
	}
	return rows
}

func TestGetTableColumns(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `products`").
		WillReturnRows(columnRows("SKU", "Price"))

	columns, err := GetTableColumns(db, "products")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	// Field and type come back lowercased regardless of schema casing.
	assert.Equal(t, "sku", columns[0].Field)
	assert.Equal(t, "varchar(64)", columns[0].Type)
	assert.Equal(t, "price", columns[1].Field)
}

func TestVerifyTable(t *testing.T) {
	t.Run("all required columns present", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `inventory_ledger`").
			WillReturnRows(columnRows("sku", "recorded_at", "initial_qty", "received_qty", "shipped_qty"))

		err := VerifyTable(db, "inventory_ledger", []string{"sku", "recorded_at", "initial_qty", "received_qty", "shipped_qty"})
		assert.NoError(t, err)
	})

	t.Run("missing columns listed", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `products`").
			WillReturnRows(columnRows("sku"))

		err := VerifyTable(db, "products", []string{"sku", "price"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("query failure propagates", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `nope`").
			WillReturnError(assert.AnError)

		err := VerifyTable(db, "nope", []string{"sku"})
		assert.Error(t, err)
	})
}
