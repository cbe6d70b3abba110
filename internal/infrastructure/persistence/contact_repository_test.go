package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// newMockContactRepository creates a GormContactRepository with a mocked SQL connection
func newMockContactRepository(t *testing.T) (*GormContactRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormContactRepository(gormDB), mock, mockDB
}

func TestNewGormContactRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormContactRepository_FindByID(t *testing.T) {
	t.Run("finds existing person", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "contact_type", "first_name", "last_name", "gender", "nationality"}).
			AddRow(contactID, "person", "Max", "Mustermann", "male", "DE")

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(contactID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), contactID)

		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, contactID, c.ID)
		assert.Equal(t, contact.TypePerson, c.ContactType)
		assert.Equal(t, "Mustermann", c.LastName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing contact", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(contactID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByID(context.Background(), contactID)

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormContactRepository_FindByIDs(t *testing.T) {
	t.Run("finds multiple contacts by IDs", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		id1 := uuid.New()
		id2 := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "contact_type", "first_name", "last_name", "organization_name"}).
			AddRow(id1, "person", "Max", "Mustermann", "").
			AddRow(id2, "organization", "", "", "ACME Holding GmbH")

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE id IN \(\$1,\$2\)`).
			WithArgs(id1, id2).
			WillReturnRows(rows)

		contacts, err := repo.FindByIDs(context.Background(), []uuid.UUID{id1, id2})

		assert.NoError(t, err)
		assert.Len(t, contacts, 2)
		assert.Equal(t, "ACME Holding GmbH", contacts[1].OrganizationName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for empty IDs", func(t *testing.T) {
		repo, _, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contacts, err := repo.FindByIDs(context.Background(), []uuid.UUID{})

		assert.NoError(t, err)
		assert.Empty(t, contacts)
	})
}

func TestGormContactRepository_FindAll(t *testing.T) {
	t.Run("lists contacts with pagination", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "contacts"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))

		rows := sqlmock.NewRows([]string{"id", "contact_type", "first_name", "last_name"}).
			AddRow(contactID, "person", "Max", "Mustermann")

		mock.ExpectQuery(`SELECT \* FROM "contacts" ORDER BY last_name asc LIMIT .*`).
			WillReturnRows(rows)

		contacts, total, err := repo.FindAll(context.Background(), shared.Filter{Page: 1, PageSize: 10})

		assert.NoError(t, err)
		assert.Len(t, contacts, 1)
		assert.Equal(t, int64(23), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies search across person and organization names", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "contacts" WHERE first_name ILIKE \$1 OR last_name ILIKE \$2 OR organization_name ILIKE \$3`).
			WithArgs("%muster%", "%muster%", "%muster%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "contact_type", "first_name", "last_name"}).
			AddRow(uuid.New(), "person", "Max", "Mustermann")

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE first_name ILIKE \$1 OR last_name ILIKE \$2 OR organization_name ILIKE \$3 ORDER BY last_name asc`).
			WithArgs("%muster%", "%muster%", "%muster%").
			WillReturnRows(rows)

		contacts, total, err := repo.FindAll(context.Background(), shared.Filter{Search: "Muster"})

		assert.NoError(t, err)
		assert.Len(t, contacts, 1)
		assert.Equal(t, int64(1), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by contact type", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "contacts" WHERE contact_type = \$1`).
			WithArgs("organization").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "contacts" WHERE contact_type = \$1 ORDER BY last_name asc`).
			WithArgs("organization").
			WillReturnRows(sqlmock.NewRows([]string{"id", "contact_type"}))

		contacts, total, err := repo.FindAll(context.Background(), shared.Filter{
			Filters: map[string]interface{}{"contact_type": "organization"},
		})

		assert.NoError(t, err)
		assert.Empty(t, contacts)
		assert.Equal(t, int64(0), total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormContactRepository_Save(t *testing.T) {
	t.Run("saves contact", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		person, err := contact.NewPerson("Max", "Mustermann", contact.GenderMale)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "contacts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), person)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormContactRepository_Delete(t *testing.T) {
	t.Run("deletes existing contact", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		mock.ExpectExec(`DELETE FROM "contacts" WHERE id = \$1`).
			WithArgs(contactID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), contactID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing contact", func(t *testing.T) {
		repo, mock, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		contactID := uuid.New()

		mock.ExpectExec(`DELETE FROM "contacts" WHERE id = \$1`).
			WithArgs(contactID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), contactID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormContactRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements contact.Repository interface", func(t *testing.T) {
		repo, _, mockDB := newMockContactRepository(t)
		defer mockDB.Close()

		var _ contact.Repository = repo
	})
}
