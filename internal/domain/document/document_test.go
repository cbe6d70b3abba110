package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	owner, err := shared.NewOwnerRef(shared.OwnerContact, uuid.New())
	require.NoError(t, err)
	d, err := NewDocument(owner, "passport.pdf", CategoryKYC, "documents/abc123", uuid.New())
	require.NoError(t, err)
	return d
}

func TestNewDocument_Validation(t *testing.T) {
	owner, err := shared.NewOwnerRef(shared.OwnerMandate, uuid.New())
	require.NoError(t, err)

	_, err = NewDocument(owner, "", CategoryKYC, "key", uuid.New())
	assert.Error(t, err)

	_, err = NewDocument(owner, "a.pdf", Category("selfie"), "key", uuid.New())
	assert.Error(t, err)

	_, err = NewDocument(shared.OwnerRef{}, "a.pdf", CategoryKYC, "key", uuid.New())
	assert.Error(t, err)
}

func TestDocument_ValidityRange(t *testing.T) {
	d := newTestDocument(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(-1, 0, 0)
	d.Validity = shared.DateRange{ValidFrom: &from, ValidTo: &to}

	assert.True(t, d.Validate().On("valid_to"))
}

func TestDocument_ReadOnlyAfter24Hours(t *testing.T) {
	d := newTestDocument(t)

	within := d.CreatedAt.Add(23 * time.Hour)
	past := d.CreatedAt.Add(25 * time.Hour)

	assert.NoError(t, d.EnsureMutable(within))
	assert.ErrorIs(t, d.EnsureMutable(past), shared.ErrReadOnlyRecord)

	require.NoError(t, d.Rename("passport-2024.pdf", within))
	assert.Equal(t, "passport-2024.pdf", d.Name)

	err := d.Rename("too-late.pdf", past)
	assert.ErrorIs(t, err, shared.ErrReadOnlyRecord)
	assert.Equal(t, "passport-2024.pdf", d.Name)
}
