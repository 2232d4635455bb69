package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BlinkBooking/pkg/psqlbuilder"
)

const pqForeignKeyViolation = "23503"

// Repository репозиторий слотов
// Единственное место, где меняется статус слота
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот вместе с его создателем
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	if _, err := uuid.Parse(id); err != nil {
		// Невалидный идентификатор не может существовать в таблице
		return nil, ErrSlotNotFound
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.creator_id",
		"s.start_time",
		"s.end_time",
		"s.price",
		"s.status",
		"s.meet_link",
		"s.created_at",
		"s.updated_at",
		"c.id",
		"c.wallet",
		"c.username",
		"c.profile_image_url",
		"c.bio",
		"c.x_handle",
		"c.created_at",
	).
		From("slots s").
		Join("creators c ON c.id = s.creator_id").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.Slot
	var creator domain.Creator
	var meetLink, image, bio, xHandle sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.CreatorID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Price,
		&slot.Status,
		&meetLink,
		&slot.CreatedAt,
		&slot.UpdatedAt,
		&creator.ID,
		&creator.Wallet,
		&creator.Username,
		&image,
		&bio,
		&xHandle,
		&creator.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	slot.MeetLink = nullString(meetLink)
	creator.ProfileImageURL = nullString(image)
	creator.Bio = nullString(bio)
	creator.XHandle = nullString(xHandle)
	slot.Creator = &creator

	return &slot, nil
}

// MarkBooked переводит слот available -> booked одним условным UPDATE
// Цена входит в условие: слот бронируется только по той цене, что была прочитана
// Если в контексте есть транзакция, запрос выполняется в ней
func (r *Repository) MarkBooked(ctx context.Context, id string, price decimal.Decimal) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("status", domain.SlotStatusBooked).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.SlotStatusAvailable}).
		Where(squirrel.Eq{"price": price}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotAvailable
	}

	return nil
}

// Create создает новый слот в статусе available
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	slot.Status = domain.SlotStatusAvailable

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"id",
			"creator_id",
			"start_time",
			"end_time",
			"price",
			"status",
			"meet_link",
		).
		Values(
			slot.ID,
			slot.CreatorID,
			slot.StartTime,
			slot.EndTime,
			slot.Price,
			slot.Status,
			slot.MeetLink,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return nil, ErrCreatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// CreatorExists проверяет существование создателя
func (r *Repository) CreatorExists(ctx context.Context, creatorID string) (bool, error) {
	if _, err := uuid.Parse(creatorID); err != nil {
		return false, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("creators").
		Where(squirrel.Eq{"id": creatorID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CreatorExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CreatorExists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
