package ledgerclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fardream/go-bcs/bcs"
	"github.com/pattonkan/sui-go/sui"
	"github.com/pattonkan/sui-go/sui/serialization"
	"github.com/pattonkan/sui-go/sui/suiptb"
	"github.com/pattonkan/sui-go/suiclient"
)

// resolveAll looks up the initial shared version of every shared object prog
// references.
func (ec *Client) resolveAll(ctx context.Context, prog *Program) (map[string]suiptb.SharedObjectArg, error) {
	shared := make(map[string]suiptb.SharedObjectArg)
	for _, cmd := range prog.Commands {
		if cmd.MoveCall == nil {
			continue
		}
		for _, arg := range cmd.MoveCall.Args {
			if arg.Kind != ArgShared {
				continue
			}
			if _, ok := shared[arg.ObjectID]; ok {
				continue
			}
			ref, err := ec.resolveShared(ctx, arg.ObjectID)
			if err != nil {
				return nil, err
			}
			shared[arg.ObjectID] = ref
		}
	}
	return shared, nil
}

func (ec *Client) resolveShared(ctx context.Context, id string) (suiptb.SharedObjectArg, error) {
	if !ValidAddress(id) {
		return suiptb.SharedObjectArg{}, fmt.Errorf("%w: object %q", ErrInvalidAddress, id)
	}
	obj, err := ec.c.GetObject(ctx, &suiclient.GetObjectRequest{
		ObjectId: sui.MustObjectIdFromHex(id),
		Options:  &suiclient.SuiObjectDataOptions{ShowOwner: true},
	})
	if err != nil {
		return suiptb.SharedObjectArg{}, fmt.Errorf("fetch object %s: %w", id, err)
	}
	if obj == nil || obj.Data == nil {
		return suiptb.SharedObjectArg{}, fmt.Errorf("object %s not found", id)
	}
	version, err := initialSharedVersion(obj.Data)
	if err != nil {
		return suiptb.SharedObjectArg{}, fmt.Errorf("%w: object %s", err, id)
	}
	return suiptb.SharedObjectArg{Id: obj.Data.ObjectId, InitialSharedVersion: version}, nil
}

// initialSharedVersion returns the version at which the object became shared.
// It differs from the current version once the object has been mutated.
func initialSharedVersion(data *suiclient.SuiObjectData) (sui.SequenceNumber, error) {
	owner := data.Owner
	if owner == nil || owner.ObjectOwnerInternal == nil || owner.Shared == nil || owner.Shared.InitialSharedVersion == nil {
		return 0, ErrNotShared
	}
	return *owner.Shared.InitialSharedVersion, nil
}

// encodeTransaction builds prog into BCS-encoded transaction data paid for by
// the gas coins of sender.
func encodeTransaction(prog *Program, shared map[string]suiptb.SharedObjectArg, sender *sui.Address, gas []*sui.ObjectRef, budget uint64) ([]byte, error) {
	ptb := suiptb.NewTransactionDataTransactionBuilder()
	results := make([]suiptb.Argument, 0, len(prog.Commands))

	convert := func(arg Arg) (suiptb.Argument, error) {
		switch arg.Kind {
		case ArgGas:
			return suiptb.Argument{GasCoin: &serialization.EmptyEnum{}}, nil
		case ArgResult:
			if arg.Result < 0 || arg.Result >= len(results) {
				return suiptb.Argument{}, fmt.Errorf("result %d referenced before it is produced", arg.Result)
			}
			return results[arg.Result], nil
		case ArgU64:
			return ptb.MustPure(arg.U64), nil
		case ArgU8:
			return ptb.MustPure(arg.U8), nil
		case ArgAddress:
			addr, err := parseAddress(arg.Address)
			if err != nil {
				return suiptb.Argument{}, err
			}
			return ptb.MustPure(*addr), nil
		case ArgShared:
			ref, ok := shared[arg.ObjectID]
			if !ok {
				return suiptb.Argument{}, fmt.Errorf("unresolved shared object %s", arg.ObjectID)
			}
			ref.Mutable = arg.Mutable
			return ptb.MustObj(suiptb.ObjectArg{SharedObject: &ref}), nil
		}
		return suiptb.Argument{}, fmt.Errorf("unknown argument kind %d", arg.Kind)
	}
	convertAll := func(args []Arg) ([]suiptb.Argument, error) {
		out := make([]suiptb.Argument, 0, len(args))
		for _, a := range args {
			c, err := convert(a)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	}

	for i, cmd := range prog.Commands {
		var next suiptb.Command
		switch {
		case cmd.SplitCoins != nil:
			coin, err := convert(cmd.SplitCoins.Coin)
			if err != nil {
				return nil, err
			}
			amounts, err := convertAll(cmd.SplitCoins.Amounts)
			if err != nil {
				return nil, err
			}
			next.SplitCoins = &suiptb.ProgrammableSplitCoins{Coin: coin, Amount: amounts}

		case cmd.TransferObjects != nil:
			objects, err := convertAll(cmd.TransferObjects.Objects)
			if err != nil {
				return nil, err
			}
			recipient, err := convert(cmd.TransferObjects.Recipient)
			if err != nil {
				return nil, err
			}
			next.TransferObjects = &suiptb.ProgrammableTransferObjects{Objects: objects, Address: recipient}

		case cmd.MoveCall != nil:
			pkg, module, function, err := splitTarget(cmd.MoveCall.Target)
			if err != nil {
				return nil, err
			}
			if !ValidAddress(pkg) {
				return nil, fmt.Errorf("%w: package %q", ErrInvalidAddress, pkg)
			}
			typeArgs := make([]sui.TypeTag, 0, len(cmd.MoveCall.TypeArgs))
			for _, t := range cmd.MoveCall.TypeArgs {
				tag, err := parseStructTag(t)
				if err != nil {
					return nil, err
				}
				typeArgs = append(typeArgs, tag)
			}
			args, err := convertAll(cmd.MoveCall.Args)
			if err != nil {
				return nil, err
			}
			next.MoveCall = &suiptb.ProgrammableMoveCall{
				Package:       sui.MustPackageIdFromHex(pkg),
				Module:        sui.Identifier(module),
				Function:      sui.Identifier(function),
				TypeArguments: typeArgs,
				Arguments:     args,
			}

		default:
			return nil, fmt.Errorf("command %d is empty", i)
		}
		results = append(results, ptb.Command(next))
	}
	pt := ptb.Finish()
	tx := suiptb.NewTransactionData(sender, pt, gas, budget, suiclient.DefaultGasPrice)
	return bcs.Marshal(tx)
}

// parseStructTag parses a non-generic type such as 0x2::sui::SUI.
func parseStructTag(s string) (sui.TypeTag, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 || !ValidAddress(parts[0]) || parts[1] == "" || parts[2] == "" {
		return sui.TypeTag{}, fmt.Errorf("unsupported type argument %q", s)
	}
	return sui.TypeTag{Struct: &sui.StructTag{
		Address: sui.MustAddressFromHex(parts[0]),
		Module:  sui.Identifier(parts[1]),
		Name:    sui.Identifier(parts[2]),
	}}, nil
}
