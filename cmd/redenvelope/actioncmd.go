package main

import (
	"github.com/tos-network/redenvelope/action"
	"github.com/urfave/cli/v2"
)

var (
	toFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "Recipient address",
		Required: true,
	}
	amountFlag = &cli.StringFlag{
		Name:     "amount",
		Usage:    "Amount in SUI",
		Required: true,
	}
	countFlag = &cli.StringFlag{
		Name:     "count",
		Usage:    "Number of shares in the envelope (1-255)",
		Required: true,
	}
	envelopeFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "Object id of the envelope to claim",
		Required: true,
	}
)

var (
	faucetCommand = &cli.Command{
		Action:    faucet,
		Name:      "faucet",
		Usage:     "Request test SUI for the logged in address",
		ArgsUsage: " ",
		Description: `
The faucet is only asked while the balance is at most 3 SUI.`,
	}
	transferCommand = &cli.Command{
		Action: transfer,
		Name:   "transfer",
		Usage:  "Transfer SUI to another address",
		Flags:  []cli.Flag{toFlag, amountFlag},
	}
	sendCommand = &cli.Command{
		Action: send,
		Name:   "send",
		Usage:  "Send a red envelope",
		Flags:  []cli.Flag{amountFlag, countFlag},
		Description: `
Locks --amount SUI into a new envelope split into --count random shares. The
envelope id printed on success is what claimers pass to the claim command.`,
	}
	claimCommand = &cli.Command{
		Action: claim,
		Name:   "claim",
		Usage:  "Claim a share of a red envelope",
		Flags:  []cli.Flag{envelopeFlag},
	}
)

func faucet(ctx *cli.Context) error {
	return runAction(ctx, action.MustNewRequest(action.KindFaucet, nil))
}

func transfer(ctx *cli.Context) error {
	return runAction(ctx, action.MustNewRequest(action.KindTransfer, action.TransferPayload{
		Recipient: ctx.String(toFlag.Name),
		Amount:    ctx.String(amountFlag.Name),
	}))
}

func send(ctx *cli.Context) error {
	return runAction(ctx, action.MustNewRequest(action.KindSendEnvelope, action.SendEnvelopePayload{
		TotalAmount: ctx.String(amountFlag.Name),
		Count:       ctx.String(countFlag.Name),
	}))
}

func claim(ctx *cli.Context) error {
	return runAction(ctx, action.MustNewRequest(action.KindClaimEnvelope, action.ClaimEnvelopePayload{
		EnvelopeID: ctx.String(envelopeFlag.Name),
	}))
}
