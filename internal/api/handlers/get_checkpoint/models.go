package get_checkpoint

import "github.com/m04kA/SMC-BlinkBooking/internal/domain"

// CheckpointResponse ответ GET /api/solana/blockhash
type CheckpointResponse struct {
	Blockhash            string `json:"blockhash"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	Slot                 uint64 `json:"slot"`
	BlockHeight          uint64 `json:"blockHeight"`
}

func fromDomain(cp *domain.Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		Blockhash:            cp.Blockhash,
		LastValidBlockHeight: cp.LastValidBlockHeight,
		Slot:                 cp.Slot,
		BlockHeight:          cp.BlockHeight,
	}
}
