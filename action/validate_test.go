package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", " ", "abc", "0", "0.0", "-1", "-0.5", "1.0000000001", "NaN", "5abc"} {
		_, err := ParseAmount(in, MsgInvalidAmount)
		require.Errorf(t, err, "input %q", in)
		assert.Equal(t, ClassValidation, ClassOf(err), "input %q", in)
		assert.Equal(t, MsgInvalidAmount, err.Error(), "input %q", in)
	}
}

func TestParseAmountScalesToMist(t *testing.T) {
	tests := []struct {
		in   string
		mist uint64
	}{
		{"1", 1_000_000_000},
		{"0.5", 500_000_000},
		{" 2.25 ", 2_250_000_000},
		{"0.000000001", 1},
		{"10", 10_000_000_000},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in, MsgInvalidAmount)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.mist, got.Mist, tt.in)
	}
}

func TestParseCount(t *testing.T) {
	for _, in := range []string{"", "0", "-3", "1.5", "x", "256"} {
		_, err := ParseCount(in)
		require.Errorf(t, err, "input %q", in)
		assert.Equal(t, MsgInvalidCount, err.Error())
	}
	n, err := ParseCount("255")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), n)
}

func TestValidateTransfer(t *testing.T) {
	_, err := ValidateTransfer(TransferPayload{Recipient: "", Amount: "5"})
	require.Error(t, err)
	assert.Equal(t, MsgMissingRecipient, err.Error())

	// Amount is checked before the recipient.
	_, err = ValidateTransfer(TransferPayload{Recipient: "", Amount: "0"})
	require.Error(t, err)
	assert.Equal(t, MsgInvalidAmount, err.Error())

	tr, err := ValidateTransfer(TransferPayload{Recipient: " 0xbeef ", Amount: "1.5"})
	require.NoError(t, err)
	assert.Equal(t, "0xbeef", tr.Recipient)
	assert.Equal(t, uint64(1_500_000_000), tr.Amount.Mist)
}

func TestValidateSendEnvelope(t *testing.T) {
	tests := []struct {
		total, count string
		msg          string
	}{
		{"10", "0", MsgInvalidCount},
		{"10", "", MsgInvalidCount},
		{"0", "3", MsgInvalidTotal},
		{"-1", "3", MsgInvalidTotal},
		{"ten", "3", MsgInvalidTotal},
	}
	for _, tt := range tests {
		_, err := ValidateSendEnvelope(SendEnvelopePayload{TotalAmount: tt.total, Count: tt.count})
		require.Error(t, err)
		assert.Equal(t, tt.msg, err.Error(), "total=%q count=%q", tt.total, tt.count)
	}
	se, err := ValidateSendEnvelope(SendEnvelopePayload{TotalAmount: "10", Count: "4"})
	require.NoError(t, err)
	assert.Equal(t, uint8(4), se.Count)
	assert.Equal(t, uint64(10_000_000_000), se.Total.Mist)
}

func TestValidateClaimEnvelope(t *testing.T) {
	_, err := ValidateClaimEnvelope(ClaimEnvelopePayload{EnvelopeID: "  "})
	require.Error(t, err)
	assert.Equal(t, MsgMissingEnvelopeID, err.Error())

	c, err := ValidateClaimEnvelope(ClaimEnvelopePayload{EnvelopeID: "0xabc"})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", c.EnvelopeID)
}
