package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockUnitOfWork creates a GormUnitOfWork with a mocked SQL connection
func newMockUnitOfWork(t *testing.T) (*GormUnitOfWork, *gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormUnitOfWork(gormDB), gormDB, mock, mockDB
}

func TestGormUnitOfWork_Run(t *testing.T) {
	t.Run("commits all writes together", func(t *testing.T) {
		uow, gormDB, mock, mockDB := newMockUnitOfWork(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "contacts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "versions"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := uow.Run(context.Background(), func(ctx context.Context) error {
			if err := conn(ctx, gormDB).Exec(`UPDATE "contacts" SET comment = 'x'`).Error; err != nil {
				return err
			}
			return conn(ctx, gormDB).Exec(`INSERT INTO "versions" (event) VALUES ('update')`).Error
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back every write when the function fails", func(t *testing.T) {
		uow, gormDB, mock, mockDB := newMockUnitOfWork(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "contacts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := uow.Run(context.Background(), func(ctx context.Context) error {
			if err := conn(ctx, gormDB).Exec(`UPDATE "contacts" SET comment = 'x'`).Error; err != nil {
				return err
			}
			return errors.New("version append failed")
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("joins an enclosing unit of work", func(t *testing.T) {
		uow, gormDB, mock, mockDB := newMockUnitOfWork(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "contacts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "versions"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := uow.Run(context.Background(), func(ctx context.Context) error {
			if err := conn(ctx, gormDB).Exec(`UPDATE "contacts" SET comment = 'x'`).Error; err != nil {
				return err
			}
			return uow.Run(ctx, func(ctx context.Context) error {
				return conn(ctx, gormDB).Exec(`INSERT INTO "versions" (event) VALUES ('update')`).Error
			})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConn_WithoutUnitOfWorkUsesBaseConnection(t *testing.T) {
	_, gormDB, mock, mockDB := newMockUnitOfWork(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "contacts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := conn(context.Background(), gormDB).Exec(`UPDATE "contacts" SET comment = 'x'`).Error

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
