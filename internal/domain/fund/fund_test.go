package fund

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFund(t *testing.T) *Fund {
	t.Helper()
	f, err := NewFund("HQT Private Equity II", "private_equity", "EUR", 2019)
	require.NoError(t, err)
	return f
}

func newSignedInvestor(t *testing.T, fundID uuid.UUID) *Investor {
	t.Helper()
	inv, err := NewInvestor(fundID, uuid.New(), uuid.New(), decimal.NewFromInt(500000))
	require.NoError(t, err)
	require.NoError(t, inv.AttachSubscriptionAgreement(uuid.New()))
	require.NoError(t, inv.Sign(time.Now()))
	return inv
}

func TestNewFund_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fundName string
		currency string
		year     int
		wantErr  bool
	}{
		{"valid", "Fund I", "EUR", 2020, false},
		{"empty name", "", "EUR", 2020, true},
		{"bad currency", "Fund I", "EURO", 2020, true},
		{"year out of range", "Fund I", "EUR", 1850, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFund(tt.fundName, "private_equity", tt.currency, tt.year)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFund_CloseReopen(t *testing.T) {
	f := newTestFund(t)
	assert.True(t, f.AcceptsInvestors())

	require.NoError(t, f.Close())
	assert.False(t, f.AcceptsInvestors())
	assert.ErrorIs(t, f.Close(), shared.ErrInvalidTransition)

	require.NoError(t, f.Reopen())
	assert.True(t, f.AcceptsInvestors())
}

func TestInvestor_SignRequiresAgreement(t *testing.T) {
	f := newTestFund(t)
	inv, err := NewInvestor(f.ID, uuid.New(), uuid.New(), decimal.NewFromInt(250000))
	require.NoError(t, err)

	err = inv.Sign(time.Now())
	require.Error(t, err)
	verrs, ok := err.(*shared.ValidationErrors)
	require.True(t, ok)
	assert.True(t, verrs.On("fund_subscription_agreement"))
	assert.Equal(t, InvestorCreated, inv.State, "failed sign leaves the investor unsigned")

	require.NoError(t, inv.AttachSubscriptionAgreement(uuid.New()))
	require.NoError(t, inv.Sign(time.Now()))
	assert.Equal(t, InvestorSigned, inv.State)
	assert.NotNil(t, inv.InvestmentDate, "sign sets investment_date when absent")
}

func TestInvestor_SignKeepsExplicitInvestmentDate(t *testing.T) {
	f := newTestFund(t)
	inv, err := NewInvestor(f.ID, uuid.New(), uuid.New(), decimal.NewFromInt(100000))
	require.NoError(t, err)
	explicit := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	inv.InvestmentDate = &explicit
	require.NoError(t, inv.AttachSubscriptionAgreement(uuid.New()))

	require.NoError(t, inv.Sign(time.Now()))
	assert.Equal(t, explicit, *inv.InvestmentDate)
}

func TestInvestor_SignedStateInvariant(t *testing.T) {
	f := newTestFund(t)
	inv := newSignedInvestor(t, f.ID)

	assert.ErrorIs(t, inv.Sign(time.Now()), shared.ErrInvalidTransition)

	// Forcing the invariant fields away from a signed investor must fail
	// validation.
	inv.InvestmentDate = nil
	assert.True(t, inv.Validate().On("investment_date"))
}

func TestInvestor_SignWithoutAgreementLeavesInvestorUntouched(t *testing.T) {
	f := newTestFund(t)
	inv, err := NewInvestor(f.ID, uuid.New(), uuid.New(), decimal.NewFromInt(100000))
	require.NoError(t, err)
	before := inv.UpdatedAt

	require.Error(t, inv.Sign(time.Now()))
	assert.Equal(t, InvestorCreated, inv.State)
	assert.Nil(t, inv.InvestmentDate)
	assert.Equal(t, before, inv.UpdatedAt)
}

func TestInvestorCashflow_RequiresSignedInvestorOfSameFund(t *testing.T) {
	f := newTestFund(t)
	fc, err := NewFundCashflow(f.ID, 1, time.Now())
	require.NoError(t, err)

	t.Run("unsigned investor", func(t *testing.T) {
		unsigned, err := NewInvestor(f.ID, uuid.New(), uuid.New(), decimal.NewFromInt(100))
		require.NoError(t, err)
		_, err = fc.AddLine(unsigned, LineAmounts{CapitalCall: decimal.NewFromInt(50)})
		require.Error(t, err)
		assert.True(t, err.(*shared.ValidationErrors).On("investor"))
	})

	t.Run("investor of another fund", func(t *testing.T) {
		foreign := newSignedInvestor(t, uuid.New())
		_, err := fc.AddLine(foreign, LineAmounts{CapitalCall: decimal.NewFromInt(50)})
		require.Error(t, err)
		assert.True(t, err.(*shared.ValidationErrors).On("investor"))
	})

	t.Run("signed investor of the fund", func(t *testing.T) {
		inv := newSignedInvestor(t, f.ID)
		line, err := fc.AddLine(inv, LineAmounts{CapitalCall: decimal.NewFromInt(50), Distribution: decimal.NewFromInt(80)})
		require.NoError(t, err)
		assert.Equal(t, CashflowOpen, line.State)

		_, err = fc.AddLine(inv, LineAmounts{})
		assert.Error(t, err, "one line per investor and batch")
	})
}

func TestInvestorCashflow_Finish(t *testing.T) {
	f := newTestFund(t)
	fc, err := NewFundCashflow(f.ID, 1, time.Now())
	require.NoError(t, err)
	line, err := fc.AddLine(newSignedInvestor(t, f.ID), LineAmounts{CapitalCall: decimal.NewFromInt(100)})
	require.NoError(t, err)

	require.NoError(t, line.Finish())
	assert.Equal(t, CashflowFinished, line.State)
	assert.ErrorIs(t, line.Finish(), shared.ErrInvalidTransition)
}

func TestLineAmounts_ComponentsBoundedByDistribution(t *testing.T) {
	f := newTestFund(t)
	fc, err := NewFundCashflow(f.ID, 1, time.Now())
	require.NoError(t, err)

	_, err = fc.AddLine(newSignedInvestor(t, f.ID), LineAmounts{
		Distribution: decimal.NewFromInt(100),
		Dividends:    decimal.NewFromInt(80),
		Interest:     decimal.NewFromInt(30),
	})
	require.Error(t, err)
	assert.True(t, err.(*shared.ValidationErrors).On("amounts"))

	line, err := fc.AddLine(newSignedInvestor(t, f.ID), LineAmounts{
		Distribution: decimal.NewFromInt(100),
		Dividends:    decimal.NewFromInt(70),
		Interest:     decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.True(t, line.DistributionDividends.Equal(decimal.NewFromInt(70)))
	assert.True(t, line.DistributionInterest.Equal(decimal.NewFromInt(30)))
}

func TestFundCashflow_NetAmount(t *testing.T) {
	f := newTestFund(t)
	fc, err := NewFundCashflow(f.ID, 2, time.Now())
	require.NoError(t, err)

	_, err = fc.AddLine(newSignedInvestor(t, f.ID), LineAmounts{CapitalCall: decimal.NewFromInt(100), Distribution: decimal.NewFromInt(30)})
	require.NoError(t, err)
	_, err = fc.AddLine(newSignedInvestor(t, f.ID), LineAmounts{CapitalCall: decimal.NewFromInt(50), Distribution: decimal.NewFromInt(200)})
	require.NoError(t, err)

	// (30-100) + (200-50) = 80
	assert.True(t, fc.NetCashflowAmount().Equal(decimal.NewFromInt(80)), fc.NetCashflowAmount())
}

func TestNewFundReport(t *testing.T) {
	_, err := NewFundReport(uuid.Nil, time.Now(), decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
	assert.Error(t, err)

	r, err := NewFundReport(uuid.New(), time.Now(), decimal.NewFromFloat(0.12), decimal.NewFromFloat(1.4), decimal.NewFromFloat(0.6), decimal.NewFromFloat(0.8))
	require.NoError(t, err)
	assert.True(t, r.TVPI.Equal(decimal.NewFromFloat(1.4)))
}
