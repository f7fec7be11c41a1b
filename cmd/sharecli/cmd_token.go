package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/sharepool"
	sharepoold "github.com/iov-one/sharepool/cmd/sharepoold/app"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/token"
)

func cmdCreateAsset(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction registering a new asset.
		`)
		fl.PrintDefaults()
	}
	var (
		tickerFl   = fl.String("ticker", "", "Ticker of the new asset, for example IOV.")
		nameFl     = fl.String("name", "", "Human readable name of the asset.")
		decimalsFl = fl.Uint("decimals", 9, "Number of decimal places used when displaying amounts.")
	)
	fl.Parse(args)

	msg := &currency.CreateMsg{
		Metadata: &sharepool.Metadata{Schema: 1},
		Ticker:   *tickerFl,
		Name:     *nameFl,
		Decimals: uint32(*decimalsFl),
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid asset: %s", err)
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}

func cmdCreateAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction opening the canonical token account of the owner for
given asset.
		`)
		fl.PrintDefaults()
	}
	var (
		ownerFl = flAddress(fl, "owner", "", "Address of the account owner.")
		assetFl = fl.String("asset", "IOV", "Ticker of the asset held by the account.")
	)
	fl.Parse(args)

	msg := &token.CreateAccountMsg{
		Metadata: &sharepool.Metadata{Schema: 1},
		Owner:    *ownerFl,
		Asset:    *assetFl,
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid account: %s", err)
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}

func cmdMint(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction issuing new tokens into the canonical account of the
owner. Must be signed by the asset issuer.
		`)
		fl.PrintDefaults()
	}
	var (
		ownerFl  = flAddress(fl, "owner", "", "Owner of the account that receives the tokens.")
		assetFl  = fl.String("asset", "IOV", "Ticker of the minted asset.")
		amountFl = fl.Uint64("amount", 0, "Amount of tokens, in the smallest unit.")
	)
	fl.Parse(args)

	if len(*ownerFl) == 0 {
		flagDie("owner is required")
	}
	msg := &token.MintMsg{
		Metadata:    &sharepool.Metadata{Schema: 1},
		Destination: sharepool.AccountAddress(*ownerFl, *assetFl),
		Asset:       *assetFl,
		Amount:      *amountFl,
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid mint: %s", err)
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}

func cmdSendTokens(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction for transferring funds between the canonical accounts of
the source and the destination owners.
		`)
		fl.PrintDefaults()
	}
	var (
		srcFl    = flAddress(fl, "src", "", "Owner of the account the funds are sent from.")
		dstFl    = flAddress(fl, "dst", "", "Owner of the account the funds are sent to.")
		assetFl  = fl.String("asset", "IOV", "Ticker of the transferred asset.")
		amountFl = fl.Uint64("amount", 0, "Amount of tokens, in the smallest unit.")
		memoFl   = fl.String("memo", "", "A short message attached to the transfer operation.")
	)
	fl.Parse(args)

	if len(*srcFl) == 0 || len(*dstFl) == 0 {
		flagDie("both source and destination owners are required")
	}
	msg := &token.SendMsg{
		Metadata:    &sharepool.Metadata{Schema: 1},
		Source:      sharepool.AccountAddress(*srcFl, *assetFl),
		Destination: sharepool.AccountAddress(*dstFl, *assetFl),
		Asset:       *assetFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid transfer: %s", err)
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}
