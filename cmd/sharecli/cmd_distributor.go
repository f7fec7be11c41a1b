package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/client"
	sharepoold "github.com/iov-one/sharepool/cmd/sharepoold/app"
	"github.com/iov-one/sharepool/payout"
	"github.com/iov-one/sharepool/x/distributor"
)

func cmdInitializePool(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction initializing a new share pool. The pool address is
derived from the configuration, use pool-address to compute it.
		`)
		fl.PrintDefaults()
	}
	var (
		payerFl     = flAddress(fl, "payer", "", "Address paying for the pool creation. Must sign the transaction.")
		authorityFl = flAddress(fl, "authority", "", "Address allowed to trigger distributions.")
		assetFl     = fl.String("asset", "IOV", "Ticker of the distributed asset.")
		secondaryFl = fl.String("secondary", "ETH", "Ticker of the secondary asset scoping the pool.")
		shareSizeFl = fl.Uint64("share-size", 0, "Amount paid out to every receiver.")
		sharesFl    = fl.Uint64("shares", 0, "Number of shares the vault must hold before a distribution.")
	)
	fl.Parse(args)

	msg := &distributor.InitializeMsg{
		Metadata:       &sharepool.Metadata{Schema: 1},
		ShareSize:      *shareSizeFl,
		NumberOfShares: *sharesFl,
		Payer:          *payerFl,
		Asset:          *assetFl,
		SecondaryAsset: *secondaryFl,
		Authority:      *authorityFl,
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid pool configuration: %s", err)
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}

func cmdPoolAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the pool and vault addresses derived from given configuration.
		`)
		fl.PrintDefaults()
	}
	var (
		assetFl     = fl.String("asset", "IOV", "Ticker of the distributed asset.")
		secondaryFl = fl.String("secondary", "ETH", "Ticker of the secondary asset.")
		shareSizeFl = fl.Uint64("share-size", 0, "Amount paid out to every receiver.")
		sharesFl    = fl.Uint64("shares", 0, "Number of shares.")
	)
	fl.Parse(args)

	pool := sharepool.PoolAddress(*assetFl, *secondaryFl, *shareSizeFl, *sharesFl)
	_, err := fmt.Fprintf(output, "pool  %s\nvault %s\n", pool, sharepool.VaultAddress(pool))
	return err
}

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction moving funds from the canonical account of the
depositor into the pool vault.
		`)
		fl.PrintDefaults()
	}
	var (
		poolFl      = flAddress(fl, "pool", "", "Address of the pool.")
		depositorFl = flAddress(fl, "depositor", "", "Owner of the funds. Must sign the transaction.")
		assetFl     = fl.String("asset", "IOV", "Ticker of the deposited asset.")
		amountFl    = fl.Uint64("amount", 0, "Amount of tokens, in the smallest unit.")
	)
	fl.Parse(args)

	if len(*depositorFl) == 0 {
		flagDie("depositor is required")
	}
	msg := &distributor.DepositMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      *poolFl,
		Asset:     *assetFl,
		Depositor: *depositorFl,
		Source:    sharepool.AccountAddress(*depositorFl, *assetFl),
		Amount:    *amountFl,
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid deposit: %s", err)
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}

func cmdDistribute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction paying one share to every receiver. Receivers are given
as arguments after the flags. With -draw, receivers are chosen at random
among the holders of the pool asset, as many as the pool requires.

The transaction must be signed by both the payer and the pool authority.
		`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl    = fl.String("tm", defaultTmAddr(), "Tendermint node address, used with -draw. You can use SHARECLI_TM_ADDR environment variable to set it.")
		poolFl      = flAddress(fl, "pool", "", "Address of the pool.")
		payerFl     = flAddress(fl, "payer", "", "Address paying for the receiver accounts. Must sign the transaction.")
		authorityFl = flAddress(fl, "authority", "", "Pool authority. Must sign the transaction.")
		assetFl     = fl.String("asset", "IOV", "Ticker of the distributed asset.")
		drawFl      = fl.Bool("draw", false, "Draw receivers among the asset holders.")
	)
	fl.Parse(args)

	var receivers []sharepool.Address
	for _, raw := range fl.Args() {
		addr, err := sharepool.ParseAddress(raw)
		if err != nil {
			flagDie("invalid receiver %q: %s", raw, err)
		}
		receivers = append(receivers, addr)
	}
	if *drawFl {
		if len(receivers) != 0 {
			flagDie("receivers cannot be given together with -draw")
		}
		q := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
		drawn, err := drawReceivers(q, *poolFl, *assetFl, rand.New(rand.NewSource(time.Now().UnixNano())))
		if err != nil {
			return fmt.Errorf("cannot draw receivers: %s", err)
		}
		receivers = drawn
	}

	msg := &distributor.DistributeMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      *poolFl,
		Payer:     *payerFl,
		Authority: *authorityFl,
		Asset:     *assetFl,
	}
	for _, r := range receivers {
		msg.Receivers = append(msg.Receivers, distributor.NewReceiver(r, *assetFl))
	}
	if err := msg.Validate(); err != nil {
		flagDie("invalid distribution: %s", err)
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}

// drawReceivers picks as many holders of the pool asset as the pool pays
// out in a single distribution.
func drawReceivers(q client.Querier, pool sharepool.Address, asset string, rnd *rand.Rand) ([]sharepool.Address, error) {
	state, err := client.Pool(q, pool)
	if err != nil {
		return nil, err
	}
	holders, err := payout.Holders(q, asset, pool)
	if err != nil {
		return nil, err
	}
	return payout.DrawWinners(rnd, holders, int(state.NumberOfShares)-1)
}
