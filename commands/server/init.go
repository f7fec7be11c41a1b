package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/sharepool/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const flagOverwrite = "i"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the tendermint genesis file for
// given home directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd adds the application state to a genesis file created by
// "tendermint init" and writes the default node configuration if there is
// none yet.
//
// An existing app_state is never replaced unless the -i flag is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	overwrite := fs.Bool(flagOverwrite, false, "overwrite an existing app_state")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := GenesisPath(home)
	if !fileExists(genFile) {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	cfgFile := ConfigPath(home)
	if !fileExists(cfgFile) {
		if err := WriteConfig(cfgFile, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated node configuration", "path", cfgFile)
	}

	options, err := gen(fs.Args())
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}
	if err := addGenesisOptions(genFile, options, *overwrite); err != nil {
		return err
	}
	logger.Info("Application state written", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, overwrite bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if state, ok := doc["app_state"]; ok && !isEmptyState(state) && !overwrite {
		return errors.Wrap(errors.ErrDuplicate, "app_state already present, use -i to overwrite")
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func isEmptyState(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "{}", `""`:
		return true
	}
	return false
}
