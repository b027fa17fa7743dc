package ledgerclient

import (
	"fmt"
	"strings"
)

// ArgKind selects the variant of an Arg.
type ArgKind int

const (
	ArgGas ArgKind = iota
	ArgResult
	ArgU64
	ArgU8
	ArgAddress
	ArgShared
)

// Arg is a transaction argument. Only the field matching Kind is meaningful.
type Arg struct {
	Kind     ArgKind
	Result   int
	U64      uint64
	U8       uint8
	Address  string
	ObjectID string
	Mutable  bool
}

// Gas refers to the gas payment coin.
func Gas() Arg { return Arg{Kind: ArgGas} }

// Result refers to the output of an earlier command.
func Result(i int) Arg { return Arg{Kind: ArgResult, Result: i} }

// U64 is a pure u64 input.
func U64(v uint64) Arg { return Arg{Kind: ArgU64, U64: v} }

// U8 is a pure u8 input.
func U8(v uint8) Arg { return Arg{Kind: ArgU8, U8: v} }

// Address is a pure address input.
func Address(addr string) Arg { return Arg{Kind: ArgAddress, Address: addr} }

// Shared is a shared object input. Its initial version is resolved at
// submission time.
func Shared(id string, mutable bool) Arg {
	return Arg{Kind: ArgShared, ObjectID: id, Mutable: mutable}
}

// SplitCoins splits Amounts off Coin.
type SplitCoins struct {
	Coin    Arg
	Amounts []Arg
}

// TransferObjects sends Objects to Recipient.
type TransferObjects struct {
	Objects   []Arg
	Recipient Arg
}

// MoveCall invokes Target, written as package::module::function.
type MoveCall struct {
	Target   string
	TypeArgs []string
	Args     []Arg
}

// Command is one step of a Program. Exactly one field is set.
type Command struct {
	SplitCoins      *SplitCoins
	TransferObjects *TransferObjects
	MoveCall        *MoveCall
}

// Program is a ledger-independent description of a programmable transaction.
type Program struct {
	Commands  []Command
	GasBudget uint64
	Options   ResponseOptions
}

// ResponseOptions selects what the ledger reports back after execution.
type ResponseOptions struct {
	Effects        bool
	Events         bool
	BalanceChanges bool
	ObjectChanges  bool
}

// Add appends cmd and returns an argument referring to its result.
func (p *Program) Add(cmd Command) Arg {
	p.Commands = append(p.Commands, cmd)
	return Result(len(p.Commands) - 1)
}

// Target joins the parts of a Move function path.
func Target(pkg, module, function string) string {
	return pkg + "::" + module + "::" + function
}

func splitTarget(target string) (pkg, module, function string, err error) {
	parts := strings.Split(target, "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed move target %q", target)
	}
	return parts[0], parts[1], parts[2], nil
}
