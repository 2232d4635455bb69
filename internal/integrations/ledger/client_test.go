package ledger

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BlinkBooking/pkg/logger"
)

type fakeRPC struct {
	hash        solana.Hash
	blockhashFn func(ctx context.Context) error
	slotErr     error
	commitments []rpc.CommitmentType
}

func (f *fakeRPC) GetLatestBlockhash(ctx context.Context, c rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	f.commitments = append(f.commitments, c)
	if f.blockhashFn != nil {
		if err := f.blockhashFn(ctx); err != nil {
			return nil, err
		}
	}
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: f.hash, LastValidBlockHeight: 300},
	}, nil
}

func (f *fakeRPC) GetSlot(context.Context, rpc.CommitmentType) (uint64, error) {
	return 1234, f.slotErr
}

func (f *fakeRPC) GetBlockHeight(context.Context, rpc.CommitmentType) (uint64, error) {
	return 250, nil
}

func newTestClient(f *fakeRPC, timeout time.Duration) *Client {
	return NewClient(f, timeout, nil, logger.NewWriter(io.Discard, "error"))
}

func TestClient_GetLatestCheckpoint(t *testing.T) {
	f := &fakeRPC{hash: solana.Hash{1, 2, 3}}

	cp, err := newTestClient(f, time.Second).GetLatestCheckpoint(context.Background())
	require.NoError(t, err)

	assert.Equal(t, f.hash.String(), cp.Blockhash)
	assert.Equal(t, uint64(300), cp.LastValidBlockHeight)
	assert.Equal(t, []rpc.CommitmentType{rpc.CommitmentConfirmed}, f.commitments)
}

func TestClient_GetLatestCheckpoint_Timeout(t *testing.T) {
	f := &fakeRPC{blockhashFn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	_, err := newTestClient(f, 20*time.Millisecond).GetLatestCheckpoint(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestClient_GetCheckpoint(t *testing.T) {
	f := &fakeRPC{hash: solana.Hash{9}}

	cp, err := newTestClient(f, time.Second).GetCheckpoint(context.Background())
	require.NoError(t, err)

	assert.Equal(t, f.hash.String(), cp.Blockhash)
	assert.Equal(t, uint64(1234), cp.Slot)
	assert.Equal(t, uint64(250), cp.BlockHeight)
}

func TestClient_GetCheckpoint_UpstreamError(t *testing.T) {
	f := &fakeRPC{slotErr: errors.New("node is behind")}

	_, err := newTestClient(f, time.Second).GetCheckpoint(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "node is behind")
}
