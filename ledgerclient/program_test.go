package ledgerclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramAdd(t *testing.T) {
	var prog Program
	coin := prog.Add(Command{SplitCoins: &SplitCoins{Coin: Gas(), Amounts: []Arg{U64(1000)}}})
	assert.Equal(t, Result(0), coin)

	next := prog.Add(Command{TransferObjects: &TransferObjects{Objects: []Arg{coin}, Recipient: Address("0x1")}})
	assert.Equal(t, Result(1), next)
	require.Len(t, prog.Commands, 2)
}

func TestSplitTarget(t *testing.T) {
	pkg, module, function, err := splitTarget(Target("0xabc", "lucky", "send"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0xabc", "lucky", "send"}, []string{pkg, module, function})

	for _, bad := range []string{"", "0xabc::lucky", "0xabc::::send", "a::b::c::d"} {
		_, _, _, err := splitTarget(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseStructTag(t *testing.T) {
	tag, err := parseStructTag("0x2::sui::SUI")
	require.NoError(t, err)
	require.NotNil(t, tag.Struct)
	assert.EqualValues(t, "sui", tag.Struct.Module)
	assert.EqualValues(t, "SUI", tag.Struct.Name)

	_, err = parseStructTag("0x2::coin::Coin<0x2::sui::SUI>::x")
	assert.Error(t, err)
}

func TestEncodeTransactionRejectsBadPrograms(t *testing.T) {
	tests := []struct {
		name string
		prog Program
	}{
		{"empty command", Program{Commands: []Command{{}}}},
		{"forward result", Program{Commands: []Command{
			{TransferObjects: &TransferObjects{Objects: []Arg{Result(0)}, Recipient: Address("0x1")}},
		}}},
		{"bad recipient", Program{Commands: []Command{
			{SplitCoins: &SplitCoins{Coin: Gas(), Amounts: []Arg{U64(1)}}},
			{TransferObjects: &TransferObjects{Objects: []Arg{Result(0)}, Recipient: Address("bob")}},
		}}},
		{"unresolved shared", Program{Commands: []Command{
			{MoveCall: &MoveCall{Target: Target("0x5", "lucky", "claim"), Args: []Arg{Shared("0x8", false)}}},
		}}},
		{"bad package", Program{Commands: []Command{
			{MoveCall: &MoveCall{Target: Target("pkg", "lucky", "claim")}},
		}}},
	}
	for _, tt := range tests {
		_, err := encodeTransaction(&tt.prog, nil, nil, nil, 1)
		assert.Error(t, err, tt.name)
	}
}
