package contact

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerson(t *testing.T) {
	c, err := NewPerson("Maria", "Muster", GenderFemale)
	require.NoError(t, err)

	assert.True(t, c.IsPerson())
	assert.Equal(t, "Maria Muster", c.Name())
}

func TestNewPerson_Invalid(t *testing.T) {
	_, err := NewPerson("", "Muster", GenderFemale)
	require.Error(t, err)

	verrs, ok := err.(*shared.ValidationErrors)
	require.True(t, ok)
	assert.True(t, verrs.On("first_name"))
}

func TestNewOrganization(t *testing.T) {
	c, err := NewOrganization("Muster Vermögensverwaltung GmbH", "gmbh")
	require.NoError(t, err)

	assert.True(t, c.IsOrganization())
	assert.Equal(t, "Muster Vermögensverwaltung GmbH", c.Name())
}

func TestContact_TypeConditionalFields(t *testing.T) {
	insured := true

	t.Run("insurance flags only for persons", func(t *testing.T) {
		org, err := NewOrganization("Acme GmbH", "gmbh")
		require.NoError(t, err)
		org.HealthInsured = &insured

		errs := org.Validate()
		assert.True(t, errs.On("health_insured"))
	})

	t.Run("vat and lei only for organizations", func(t *testing.T) {
		person, err := NewPerson("Max", "Muster", GenderMale)
		require.NoError(t, err)
		person.VATNumber = "DE123456789"
		person.LEI = "529900T8BM49AURSDO55"

		errs := person.Validate()
		assert.True(t, errs.On("vat_number"))
		assert.True(t, errs.On("lei"))
	})

	t.Run("valid organization with vat and lei", func(t *testing.T) {
		org, err := NewOrganization("Acme GmbH", "gmbh")
		require.NoError(t, err)
		org.VATNumber = "DE123456789"
		org.LEI = "529900T8BM49AURSDO55"

		assert.False(t, org.Validate().HasErrors())
	})
}

func TestContact_DateOfDeathRange(t *testing.T) {
	c, err := NewPerson("Max", "Muster", GenderMale)
	require.NoError(t, err)

	born := time.Date(1960, 5, 1, 0, 0, 0, 0, time.UTC)
	died := born.AddDate(-1, 0, 0)
	c.DateOfBirth = &born
	c.DateOfDeath = &died

	assert.True(t, c.Validate().On("date_of_death"))
}

func TestContact_LegalAddressBackReference(t *testing.T) {
	c, err := NewPerson("Max", "Muster", GenderMale)
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()

	c.DesignateLegalAddress(first)
	require.NotNil(t, c.LegalAddressID)
	assert.Equal(t, first, *c.LegalAddressID)

	// Designating another address swaps the back-reference.
	c.DesignateLegalAddress(second)
	assert.Equal(t, second, *c.LegalAddressID)

	// Clearing via an address that is not designated leaves it untouched.
	c.ClearLegalAddress(first)
	require.NotNil(t, c.LegalAddressID)
	assert.Equal(t, second, *c.LegalAddressID)

	// Clearing via the designated address removes it.
	c.ClearLegalAddress(second)
	assert.Nil(t, c.LegalAddressID)
}

func TestRelationship_RoleVocabularyPerPairing(t *testing.T) {
	person1, err := NewPerson("Max", "Muster", GenderMale)
	require.NoError(t, err)
	person2, err := NewPerson("Maria", "Muster", GenderFemale)
	require.NoError(t, err)
	org1, err := NewOrganization("Acme GmbH", "gmbh")
	require.NoError(t, err)
	org2, err := NewOrganization("Acme Holding AG", "ag")
	require.NoError(t, err)

	tests := []struct {
		name   string
		source *Contact
		target *Contact
		role   string
		valid  bool
	}{
		{"spouse person->person", person1, person2, "spouse", true},
		{"shareholder org->org", org1, org2, "shareholder", true},
		{"shareholder person->org", person1, org1, "shareholder", true},
		{"shareholder person->person", person1, person2, "shareholder", false},
		{"spouse org->org", org1, org2, "spouse", false},
		{"subsidiary person->org", person1, org1, "subsidiary", false},
		{"unknown role", person1, person2, "best_friend", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := NewRelationship(tt.source, tt.target, tt.role)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.role, rel.Role)
			} else {
				require.Error(t, err)
				assert.True(t, shared.IsValidation(err))
			}
		})
	}
}

func TestRelationship_SelfReference(t *testing.T) {
	p, err := NewPerson("Max", "Muster", GenderMale)
	require.NoError(t, err)

	_, err = NewRelationship(p, p, "spouse")
	require.Error(t, err)
	verrs := err.(*shared.ValidationErrors)
	assert.True(t, verrs.On("target_contact"))
}

func TestTaxDetail_ForeignTaxNumbers(t *testing.T) {
	d, err := NewTaxDetail(uuid.New())
	require.NoError(t, err)

	require.NoError(t, d.AddForeignTaxNumber("AT", "123/4567"))
	err = d.AddForeignTaxNumber("at", "999/9999")
	assert.Error(t, err, "duplicate country rejected")

	d.USPerson = true
	assert.True(t, d.Validate().On("us_tax_number"))
}
