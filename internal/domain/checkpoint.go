package domain

// Checkpoint is a recent ledger blockhash together with its validity window
type Checkpoint struct {
	Blockhash            string
	LastValidBlockHeight uint64
	Slot                 uint64
	BlockHeight          uint64
}
