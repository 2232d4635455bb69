package txbuilder

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/pkg/actions"
)

// PacketDataSize максимальный размер сериализованной транзакции
const PacketDataSize = 1232

// MemoProgramID программа SPL Memo
var MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

var tracer = otel.Tracer("github.com/m04kA/SMC-BlinkBooking/internal/service/txbuilder")

// Service собирает неподписанные транзакции оплаты
// Приватных ключей у сервиса нет: транзакцию подписывает кошелек плательщика
type Service struct {
	ledger CheckpointSource
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(ledger CheckpointSource, logger Logger) *Service {
	return &Service{
		ledger: ledger,
		logger: logger,
	}
}

// BuildMemo формирует текст memo-инструкции
func BuildMemo(slotID, creatorHandle, name, email, callFor string) string {
	parts := []string{
		"Book slot " + slotID,
		"Creator: " + creatorHandle,
	}
	if name != "" {
		parts = append(parts, "Name: "+name)
	}
	if email != "" {
		parts = append(parts, "Email: "+email)
	}
	if callFor != "" {
		parts = append(parts, "Purpose: "+callFor)
	}
	return strings.Join(parts, " | ")
}

// BuildMessage формирует текст, который кошелек покажет плательщику
// joinURL добавляется только если он не пустой
func BuildMessage(slot *domain.Slot, joinURL string) string {
	msg := fmt.Sprintf("Pay %s %s to book slot with %s", slot.PriceLabel(), domain.AssetSymbol, slot.Creator.Username)
	if joinURL != "" {
		msg += ". Join link: " + joinURL
	}
	return msg
}

// Build получает свежий blockhash и собирает транзакцию: перевод, затем memo
// Повторов при ошибке нет
func (s *Service) Build(ctx context.Context, p Params) (*actions.ActionPostResponse, error) {
	ctx, span := tracer.Start(ctx, "txbuilder.Build")
	defer span.End()

	resp, err := s.build(ctx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (s *Service) build(ctx context.Context, p Params) (*actions.ActionPostResponse, error) {
	payer, err := solana.PublicKeyFromBase58(p.Payer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayer, err)
	}

	recipient, err := solana.PublicKeyFromBase58(p.CreatorWallet)
	if err != nil {
		s.logger.Error("TxBuilder: creator wallet %q is invalid: %v", p.CreatorWallet, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}

	// Blockhash запрашивается только после фиксации бронирования
	cp, err := s.ledger.GetLatestCheckpoint(ctx)
	if err != nil {
		s.logger.Error("TxBuilder: checkpoint fetch failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCheckpointUnavailable, err)
	}

	blockhash, err := solana.HashFromBase58(cp.Blockhash)
	if err != nil {
		return nil, fmt.Errorf("%w: bad blockhash %q: %v", ErrCheckpointUnavailable, cp.Blockhash, err)
	}

	transfer := system.NewTransferInstruction(p.Lamports, payer, recipient).Build()
	memo := solana.NewInstruction(MemoProgramID, solana.AccountMetaSlice{}, []byte(p.Memo))

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transfer, memo},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: assemble transaction: %v", ErrInternal, err)
	}

	// Пустые подписи: кошелек заполнит их сам
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: serialize transaction: %v", ErrInternal, err)
	}
	if len(raw) > PacketDataSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTransactionTooLarge, len(raw))
	}

	s.logger.Info("TxBuilder: built transfer of %d lamports, blockhash=%s, valid until height %d",
		p.Lamports, cp.Blockhash, cp.LastValidBlockHeight)

	return &actions.ActionPostResponse{
		Type:        actions.TypeTransaction,
		Transaction: base64.StdEncoding.EncodeToString(raw),
		Message:     p.Message,
	}, nil
}
