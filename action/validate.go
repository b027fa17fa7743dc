package action

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tos-network/redenvelope/params"
)

// Validation messages shown to the user.
const (
	MsgNoAddress         = "未找到 SUI 地址"
	MsgBalanceSufficient = "您的 SUI 余额已经足够！"
	MsgInvalidAmount     = "无效的金额"
	MsgMissingRecipient  = "请输入接收者地址"
	MsgInvalidTotal      = "总金额无效"
	MsgInvalidCount      = "红包个数无效"
	MsgMissingEnvelopeID = "请输入红包 ID"
)

// Amount is a validated positive SUI amount.
type Amount struct {
	SUI  decimal.Decimal
	Mist uint64
}

// Transfer is a validated TRANSFER request.
type Transfer struct {
	Recipient string
	Amount    Amount
}

// SendEnvelope is a validated SEND_ENVELOPE request.
type SendEnvelope struct {
	Total Amount
	Count uint8
}

// ClaimEnvelope is a validated CLAIM_ENVELOPE request.
type ClaimEnvelope struct {
	EnvelopeID string
}

// ParseAmount parses a user-entered SUI amount. Non-numeric, zero, negative
// and sub-MIST amounts are rejected with msg.
func ParseAmount(s string, msg string) (Amount, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !v.IsPositive() {
		return Amount{}, Validation(msg)
	}
	mist := v.Shift(params.SUIDecimals)
	if !mist.IsInteger() {
		return Amount{}, Validation(msg)
	}
	n := mist.BigInt()
	if !n.IsUint64() {
		return Amount{}, Validation(msg)
	}
	return Amount{SUI: v, Mist: n.Uint64()}, nil
}

// ParseCount parses the envelope share count.
func ParseCount(s string) (uint8, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > params.MaxEnvelopeCount {
		return 0, Validation(MsgInvalidCount)
	}
	return uint8(n), nil
}

// ValidateTransfer checks the amount first, then the recipient.
func ValidateTransfer(p TransferPayload) (*Transfer, error) {
	amount, err := ParseAmount(p.Amount, MsgInvalidAmount)
	if err != nil {
		return nil, err
	}
	recipient := strings.TrimSpace(p.Recipient)
	if recipient == "" {
		return nil, Validation(MsgMissingRecipient)
	}
	return &Transfer{Recipient: recipient, Amount: amount}, nil
}

// ValidateSendEnvelope checks the total amount, then the share count.
func ValidateSendEnvelope(p SendEnvelopePayload) (*SendEnvelope, error) {
	total, err := ParseAmount(p.TotalAmount, MsgInvalidTotal)
	if err != nil {
		return nil, err
	}
	count, err := ParseCount(p.Count)
	if err != nil {
		return nil, err
	}
	return &SendEnvelope{Total: total, Count: count}, nil
}

// ValidateClaimEnvelope checks that an envelope id was given.
func ValidateClaimEnvelope(p ClaimEnvelopePayload) (*ClaimEnvelope, error) {
	id := strings.TrimSpace(p.EnvelopeID)
	if id == "" {
		return nil, Validation(MsgMissingEnvelopeID)
	}
	return &ClaimEnvelope{EnvelopeID: id}, nil
}
