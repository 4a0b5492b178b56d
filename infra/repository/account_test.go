package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sehyun-dev/gobank/pkg/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:         uuid.New(),
		Number:     "1001",
		Credential: "hash",
		Balance:    1000,
		OwnerID:    uuid.New(),
		Version:    1,
	}
}

func TestAccountRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Insert(context.Background(), testAccount()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Insert_RowCountMismatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Insert(context.Background(), testAccount())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestAccountRepository_UpdateByID_BumpsVersion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}
	a := testAccount()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateByID(context.Background(), a))
	assert.Equal(t, int64(2), a.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A version mismatch updates zero rows; that is the stale-write signal the
// coordinator retries on.
func TestAccountRepository_UpdateByID_StaleVersion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}
	a := testAccount()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateByID(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	assert.Equal(t, int64(1), a.Version, "version must not advance on a rejected write")
}

func TestAccountRepository_FindByNumber_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	a, err := repo.FindByNumber(context.Background(), "9999")
	require.NoError(t, err, "absence is not an error")
	assert.Nil(t, a)
}

func TestAccountRepository_FindByIDForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := accountRepository{db: db}
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "accounts" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "number", "credential", "balance", "owner_id", "version"},
		).AddRow(id, "1001", "hash", 1000, uuid.New(), 1))

	a, err := repo.FindByIDForUpdate(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, int64(1000), a.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
