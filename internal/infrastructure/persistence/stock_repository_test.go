package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/marketlens/backend/internal/domain/market"
	"github.com/marketlens/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB creates a GORM DB backed by a mocked SQL connection
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockStockRepository(t *testing.T) (*GormStockRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormStockRepository(gormDB), mock, mockDB
}

func stockRows(id uuid.UUID, name, symbol string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "symbol", "founded", "description", "created_at", "updated_at", "version"}).
		AddRow(id, name, symbol, now, "", now, now, 1)
}

func TestNewGormStockRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormStockRepository_FindByID(t *testing.T) {
	t.Run("finds existing stock", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stockID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stocks" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(stockID, 1).
			WillReturnRows(stockRows(stockID, "Apple Inc.", "AAPL"))

		stock, err := repo.FindByID(context.Background(), stockID)

		assert.NoError(t, err)
		assert.NotNil(t, stock)
		assert.Equal(t, stockID, stock.ID)
		assert.Equal(t, "AAPL", stock.Symbol)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent stock", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stockID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stocks" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(stockID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		stock, err := repo.FindByID(context.Background(), stockID)

		assert.Error(t, err)
		assert.Nil(t, stock)
		assert.Equal(t, market.ErrStockNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_FindBySymbol(t *testing.T) {
	t.Run("finds stock by symbol", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stockID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stocks" WHERE symbol = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("AAPL", 1).
			WillReturnRows(stockRows(stockID, "Apple Inc.", "AAPL"))

		stock, err := repo.FindBySymbol(context.Background(), "aapl") // lowercase to test uppercasing

		assert.NoError(t, err)
		assert.NotNil(t, stock)
		assert.Equal(t, "AAPL", stock.Symbol)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for unknown symbol", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "stocks" WHERE symbol = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		stock, err := repo.FindBySymbol(context.Background(), "NOPE")

		assert.Error(t, err)
		assert.Nil(t, stock)
		assert.Equal(t, market.ErrStockNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_FindAll(t *testing.T) {
	t.Run("applies search and pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		rows := stockRows(uuid.New(), "Apple Inc.", "AAPL")

		mock.ExpectQuery(`SELECT \* FROM "stocks" WHERE LOWER\(name\) LIKE LOWER\(\$1\) OR LOWER\(symbol\) LIKE LOWER\(\$2\) ORDER BY name ASC LIMIT .*`).
			WithArgs("%apple%", "%apple%", 10).
			WillReturnRows(rows)

		filter := shared.Filter{
			Search:   "apple",
			Page:     1,
			PageSize: 10,
			OrderBy:  "name",
			OrderDir: "asc",
		}
		stocks, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		assert.Len(t, stocks, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to created_at for unknown sort field", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "stocks" ORDER BY created_at DESC`).
			WillReturnRows(stockRows(uuid.New(), "Apple Inc.", "AAPL"))

		filter := shared.Filter{OrderBy: "password; DROP TABLE stocks"}
		stocks, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		assert.Len(t, stocks, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Count(t *testing.T) {
	t.Run("counts stocks", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stocks"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.Count(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_ExistsBySymbol(t *testing.T) {
	t.Run("returns true when symbol exists", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stocks" WHERE symbol = \$1`).
			WithArgs("AAPL").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsBySymbol(context.Background(), "aapl")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when symbol does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stocks" WHERE symbol = \$1`).
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsBySymbol(context.Background(), "nope")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Save(t *testing.T) {
	t.Run("saves stock", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stock, err := market.NewStock("Apple Inc.", "AAPL", time.Date(1976, 4, 1, 0, 0, 0, 0, time.UTC), "")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "stocks" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), stock)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Delete(t *testing.T) {
	t.Run("deletes existing stock", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stockID := uuid.New()

		mock.ExpectExec(`DELETE FROM "stocks" WHERE id = \$1`).
			WithArgs(stockID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), stockID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent stock", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stockID := uuid.New()

		mock.ExpectExec(`DELETE FROM "stocks" WHERE id = \$1`).
			WithArgs(stockID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), stockID)

		assert.Error(t, err)
		assert.Equal(t, market.ErrStockNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
