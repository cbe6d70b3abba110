package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence"
)

func TestContactRepository_RoundTrip(t *testing.T) {
	tdb := NewTestDB(t)
	repo := persistence.NewGormContactRepository(tdb.DB)
	ctx := context.Background()

	person, err := contact.NewPerson("Max", "Mustermann", contact.GenderMale)
	require.NoError(t, err)
	org, err := contact.NewOrganization("ACME Holding GmbH", "gmbh")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, person))
	require.NoError(t, repo.Save(ctx, org))

	t.Run("finds saved contact by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, person.ID)

		require.NoError(t, err)
		assert.Equal(t, person.ID, found.ID)
		assert.Equal(t, "Max", found.FirstName)
		assert.Equal(t, "Mustermann", found.LastName)
		assert.True(t, found.IsPerson())
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())

		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("search matches case-insensitively across name columns", func(t *testing.T) {
		contacts, total, err := repo.FindAll(ctx, shared.Filter{Search: "ACME"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, contacts, 1)
		assert.Equal(t, "ACME Holding GmbH", contacts[0].OrganizationName)
	})

	t.Run("search escapes LIKE wildcards", func(t *testing.T) {
		_, total, err := repo.FindAll(ctx, shared.Filter{Search: "%"})

		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("filters by contact type", func(t *testing.T) {
		contacts, total, err := repo.FindAll(ctx, shared.Filter{
			Filters: map[string]interface{}{"contact_type": string(contact.TypePerson)},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, contacts, 1)
		assert.Equal(t, person.ID, contacts[0].ID)
	})

	t.Run("updates an existing contact", func(t *testing.T) {
		person.Comment = "updated remark"
		require.NoError(t, repo.Save(ctx, person))

		found, err := repo.FindByID(ctx, person.ID)
		require.NoError(t, err)
		assert.Equal(t, "updated remark", found.Comment)
	})

	t.Run("deletes a contact", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, org.ID))

		_, err := repo.FindByID(ctx, org.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
