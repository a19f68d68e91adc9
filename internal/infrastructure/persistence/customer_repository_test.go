package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/salesledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by a mocked SQL driver
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestNewGormCustomerRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()

		repo := NewGormCustomerRepository(db)
		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "type", "name", "contact_name", "phone", "address", "active"}).
			AddRow(customerID, "company", "Acme Builders", "Jane", "13800000000", "1 Main St", true)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.NoError(t, err)
		assert.NotNil(t, customer)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "Acme Builders", customer.Name)
		assert.True(t, customer.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for non-existent customer", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.NoError(t, err)
		assert.Nil(t, customer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindByName(t *testing.T) {
	t.Run("finds customer by exact name", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "type", "name", "contact_name", "phone", "address", "active"}).
			AddRow(customerID, "personal", "Wang Wei", "Wang Wei", "13900000000", "2 Side St", true)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Wang Wei", 1).
			WillReturnRows(rows)

		customer, err := repo.FindByName(context.Background(), "Wang Wei")

		assert.NoError(t, err)
		require.NotNil(t, customer)
		assert.Equal(t, "Wang Wei", customer.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for missing name", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Nobody", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByName(context.Background(), "Nobody")

		assert.NoError(t, err)
		assert.Nil(t, customer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	t.Run("deletes existing customer", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), customerID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), customerID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_CountSales(t *testing.T) {
	t.Run("counts the customer's sales", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "sales" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountSales(context.Background(), customerID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_SumSalesTotal(t *testing.T) {
	t.Run("returns zero when the customer has no sales", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT SUM\(total_amount\) FROM "sales" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

		sum, err := repo.SumSalesTotal(context.Background(), customerID)

		assert.NoError(t, err)
		assert.True(t, sum.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
