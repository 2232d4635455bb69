package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/pkg/metrics"
)

// Commitment уровень подтверждения для всех запросов к ноде
const Commitment = rpc.CommitmentConfirmed

var tracer = otel.Tracer("github.com/m04kA/SMC-BlinkBooking/internal/integrations/ledger")

// Client клиент для RPC ноды Solana
// Ничего не кэширует и не повторяет запросы: каждый вызов идет в ноду
type Client struct {
	rpc     RPC
	timeout time.Duration
	metrics *metrics.Metrics
	log     Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(rpcClient RPC, timeout time.Duration, m *metrics.Metrics, log Logger) *Client {
	return &Client{
		rpc:     rpcClient,
		timeout: timeout,
		metrics: m,
		log:     log,
	}
}

// NewRPC создает клиент solana-go для указанного endpoint
func NewRPC(endpoint string) *rpc.Client {
	return rpc.New(endpoint)
}

// GetLatestCheckpoint получает свежий blockhash и высоту, до которой он действителен
func (c *Client) GetLatestCheckpoint(ctx context.Context) (*domain.Checkpoint, error) {
	ctx, span := tracer.Start(ctx, "ledger.GetLatestCheckpoint")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cp, err := c.latestBlockhash(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return cp, nil
}

// GetCheckpoint получает blockhash, текущий слот и высоту блока параллельно
func (c *Client) GetCheckpoint(ctx context.Context) (*domain.Checkpoint, error) {
	ctx, span := tracer.Start(ctx, "ledger.GetCheckpoint")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		cp          *domain.Checkpoint
		slot        uint64
		blockHeight uint64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cp, err = c.latestBlockhash(gctx)
		return err
	})
	g.Go(func() error {
		started := time.Now()
		var err error
		slot, err = c.rpc.GetSlot(gctx, Commitment)
		c.metrics.ObserveLedgerCall("getSlot", started, err)
		if err != nil {
			return fmt.Errorf("%w: getSlot: %v", ErrUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		started := time.Now()
		var err error
		blockHeight, err = c.rpc.GetBlockHeight(gctx, Commitment)
		c.metrics.ObserveLedgerCall("getBlockHeight", started, err)
		if err != nil {
			return fmt.Errorf("%w: getBlockHeight: %v", ErrUnavailable, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn("ledger: checkpoint fetch failed: %v", err)
		return nil, err
	}

	cp.Slot = slot
	cp.BlockHeight = blockHeight
	return cp, nil
}

func (c *Client) latestBlockhash(ctx context.Context) (*domain.Checkpoint, error) {
	started := time.Now()
	out, err := c.rpc.GetLatestBlockhash(ctx, Commitment)
	c.metrics.ObserveLedgerCall("getLatestBlockhash", started, err)
	if err != nil {
		return nil, fmt.Errorf("%w: getLatestBlockhash: %v", ErrUnavailable, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("%w: getLatestBlockhash: empty value", ErrInvalidResponse)
	}

	return &domain.Checkpoint{
		Blockhash:            out.Value.Blockhash.String(),
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}
