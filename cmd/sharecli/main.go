package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/sharepool"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function takes input and output being stdin and stdout and the
// command line arguments without the program and command name. Commands
// that produce a transaction write it to the output so that they can be
// combined into a pipeline:
//
//	$ sharecli distribute -pool 1A2B... -payer 3C4D... -authority 5E6F... -draw \
//	    | sharecli sign -key payer.key \
//	    | sharecli sign -key authority.key \
//	    | sharecli submit
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"create-account":  cmdCreateAccount,
	"create-asset":    cmdCreateAsset,
	"deposit":         cmdDeposit,
	"distribute":      cmdDistribute,
	"initialize-pool": cmdInitializePool,
	"keyaddr":         cmdKeyaddr,
	"keygen":          cmdKeygen,
	"mint":            cmdMint,
	"pool-address":    cmdPoolAddress,
	"query":           cmdQuery,
	"send-tokens":     cmdSendTokens,
	"sign":            cmdSignTransaction,
	"update-gas":      cmdUpdateGasConfiguration,
	"submit":          cmdSubmitTransaction,
	"version":         cmdVersion,
	"view":            cmdTransactionView,
	"with-gas":        cmdWithGas,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the share pool application.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, sharepool.Version())
	return err
}
