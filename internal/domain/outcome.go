package domain

// Outcome is the tri-state result of classifying one transaction:
// *ClassifiedSwap, *SplitSwapPair, or *ErasureResult. The unexported
// marker keeps the union closed so callers can switch exhaustively.
type Outcome interface {
	isOutcome()
}

func (*ClassifiedSwap) isOutcome() {}
func (*SplitSwapPair) isOutcome()  {}
func (*ErasureResult) isOutcome()  {}
