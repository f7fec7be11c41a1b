package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/sharepool"
	sharepoold "github.com/iov-one/sharepool/cmd/sharepoold/app"
	"github.com/iov-one/sharepool/x/utils"
)

func cmdUpdateGasConfiguration(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction updating the gas configuration. Only given values are
changed. Must be signed by the current configuration owner.
		`)
		fl.PrintDefaults()
	}
	var (
		ownerFl = flAddress(fl, "owner", "", "New owner of the configuration.")
		limitFl = fl.Int64("default-limit", 0, "Gas limit of transactions that do not declare one.")
		costFl  = fl.Int64("tx-cost", 0, "Gas charged for every transaction.")
	)
	fl.Parse(args)

	if *limitFl < 0 || *costFl < 0 {
		flagDie("gas values cannot be negative")
	}
	msg := &utils.UpdateGasConfigurationMsg{
		Metadata: &sharepool.Metadata{Schema: 1},
		Patch: &utils.GasConfiguration{
			Metadata:     &sharepool.Metadata{Schema: 1},
			Owner:        *ownerFl,
			DefaultLimit: *limitFl,
			TxCost:       *costFl,
		},
	}
	_, err := writeTx(output, sharepoold.NewTx(msg))
	return err
}
