package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/sharepool"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *sharepool.Address {
	var a flagAddress
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			flagDie("Cannot parse %q address flag value. %s", name, err)
		}
	}
	fl.Var(&a, name, usage)
	return (*sharepool.Address)(&a)
}

type flagAddress sharepool.Address

func (a flagAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return sharepool.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := sharepool.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// flagDie terminates the program when an invalid flag value was provided.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}
