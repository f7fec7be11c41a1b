package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/client"
	"github.com/iov-one/sharepool/x/distributor"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input, submit it and wait
until it is included in a block.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(),
			"Tendermint node address. You can use SHARECLI_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	c := client.NewClient(client.NewHTTPConnection(*tmAddrFl))
	ctx, cancel := requestContext()
	defer cancel()
	res, err := c.CommitTx(ctx, tx)
	if err != nil {
		return fmt.Errorf("cannot submit transaction: %s", err)
	}
	if res.Err != nil {
		return fmt.Errorf("transaction %s failed: %s", res.ID, res.Err)
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Errorf("cannot extract message: %s", err)
	}
	return writeResult(output, msg, res)
}

// writeResult prints a human readable summary of a committed transaction.
func writeResult(w io.Writer, msg sharepool.Msg, res *client.CommitResult) error {
	if _, err := fmt.Fprintf(w, "tx     %s\nheight %d\n", res.ID, res.Height); err != nil {
		return err
	}
	if res.Result == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "gas    %d\n", res.Result.GasUsed); err != nil {
		return err
	}
	if _, ok := msg.(*distributor.InitializeMsg); ok {
		_, err := fmt.Fprintf(w, "pool   %s\n", sharepool.Address(res.Result.Data))
		return err
	}
	return nil
}
