package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sehyun-dev/gobank/pkg/domain"
)

func TestNewWithdrawHistory(t *testing.T) {
	accountID := uuid.New()
	h, err := domain.NewWithdrawHistory(accountID, 200, 800)
	require.NoError(t, err)

	require.NotNil(t, h.WithdrawAccountID)
	assert.Equal(t, accountID, *h.WithdrawAccountID)
	require.NotNil(t, h.WithdrawBalanceAfter)
	assert.Equal(t, int64(800), *h.WithdrawBalanceAfter)
	assert.Nil(t, h.DepositAccountID)
	assert.Nil(t, h.DepositBalanceAfter)
}

func TestNewDepositHistory(t *testing.T) {
	accountID := uuid.New()
	h, err := domain.NewDepositHistory(accountID, 50, 850)
	require.NoError(t, err)

	assert.Nil(t, h.WithdrawAccountID)
	require.NotNil(t, h.DepositAccountID)
	assert.Equal(t, accountID, *h.DepositAccountID)
	require.NotNil(t, h.DepositBalanceAfter)
	assert.Equal(t, int64(850), *h.DepositBalanceAfter)
}

func TestNewTransferHistory(t *testing.T) {
	from, to := uuid.New(), uuid.New()
	h, err := domain.NewTransferHistory(from, to, 300, 550, 800)
	require.NoError(t, err)

	assert.Equal(t, from, *h.WithdrawAccountID)
	assert.Equal(t, to, *h.DepositAccountID)
	assert.Equal(t, int64(550), *h.WithdrawBalanceAfter)
	assert.Equal(t, int64(800), *h.DepositBalanceAfter)
}

func TestNewHistory_RejectsNonPositiveAmount(t *testing.T) {
	_, err := domain.NewDepositHistory(uuid.New(), 0, 100)
	assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)
}

func TestHistory_Matches(t *testing.T) {
	from, to, other := uuid.New(), uuid.New(), uuid.New()
	h, err := domain.NewTransferHistory(from, to, 10, 90, 110)
	require.NoError(t, err)

	assert.True(t, h.Matches(from, domain.HistoryTypeAll))
	assert.True(t, h.Matches(from, domain.HistoryTypeWithdraw))
	assert.False(t, h.Matches(from, domain.HistoryTypeDeposit))
	assert.True(t, h.Matches(to, domain.HistoryTypeDeposit))
	assert.False(t, h.Matches(to, domain.HistoryTypeWithdraw))
	assert.False(t, h.Matches(other, domain.HistoryTypeAll))
}

func TestParseHistoryType(t *testing.T) {
	for raw, want := range map[string]domain.HistoryType{
		"":         domain.HistoryTypeAll,
		"all":      domain.HistoryTypeAll,
		"deposit":  domain.HistoryTypeDeposit,
		"withdraw": domain.HistoryTypeWithdraw,
	} {
		got, err := domain.ParseHistoryType(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := domain.ParseHistoryType("bogus")
	assert.Error(t, err)
}
