package params

const (
	// EnvelopeGasBudget is the gas budget attached to send and claim transactions.
	EnvelopeGasBudget uint64 = 100000000

	// FaucetSufficiencyThreshold is the balance (in SUI) above which the faucet
	// is no longer requested.
	FaucetSufficiencyThreshold = "3"

	// RandomObjectID is the shared on-chain randomness object.
	RandomObjectID = "0x8"

	// SuiCoinType is the native asset type argument of the envelope program.
	SuiCoinType = "0x2::sui::SUI"

	// Envelope program entry points.
	EnvelopeModule        = "lucky"
	EnvelopeSendFunction  = "send"
	EnvelopeClaimFunction = "claim"

	// MaxEnvelopeCount is the largest share count the program accepts (u8).
	MaxEnvelopeCount = 255
)
