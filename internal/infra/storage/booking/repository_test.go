package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/pkg/ptr"
)

const (
	testBookingID = "7d8e9f10-1112-4314-a516-171819202122"
	testSlotID    = "5f0c6f1e-7a7e-4d0b-9a53-0c1f7d1f3a01"
	testCreatorID = "0b7f6b1a-2d3e-4c5f-8a9b-1c2d3e4f5a6b"
	testPayer     = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (id,slot_id,creator_id,payer_wallet,amount_sol,name,email,call_for,access_token)")).
		WithArgs(sqlmock.AnyArg(), testSlotID, testCreatorID, testPayer, sqlmock.AnyArg(), "Bob", nil, nil, "tok").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	b, err := repo.Create(context.Background(), &domain.Booking{
		SlotID:      testSlotID,
		CreatorID:   testCreatorID,
		PayerWallet: testPayer,
		AmountSol:   decimal.RequireFromString("2"),
		Name:        ptr.Ptr("Bob"),
		AccessToken: "tok",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, now, b.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateSlot(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "bookings_slot_id_key"})

	_, err := repo.Create(context.Background(), &domain.Booking{SlotID: testSlotID})
	require.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestRepository_Create_OtherError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), &domain.Booking{SlotID: testSlotID})
	require.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "slot_id", "creator_id", "payer_wallet", "amount_sol", "name", "email", "call_for", "access_token", "created_at",
		}).AddRow(testBookingID, testSlotID, testCreatorID, testPayer, "0.5", nil, "bob@example.com", nil, "tok", now))

	b, err := repo.GetByID(context.Background(), testBookingID)
	require.NoError(t, err)
	assert.Equal(t, testSlotID, b.SlotID)
	assert.True(t, b.AmountSol.Equal(decimal.RequireFromString("0.5")))
	assert.Nil(t, b.Name)
	require.NotNil(t, b.Email)
	assert.Equal(t, "bob@example.com", *b.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("FROM bookings").
		WithArgs(testBookingID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), testBookingID)
	require.ErrorIs(t, err, ErrBookingNotFound)

	_, err = repo.GetByID(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
