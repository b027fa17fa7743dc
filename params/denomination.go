package params

// These are the multipliers for SUI denominations.
// Example: To get the MIST value of an amount in 'SUI', use
//
//	new(big.Int).Mul(value, big.NewInt(params.SUI))
const (
	MIST = 1
	SUI  = 1e9

	// SUIDecimals is the exponent of the MIST-per-SUI scale factor.
	SUIDecimals = 9
)
