// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chaincfg"
)

const (
	defaultDataDir  = "data"
	defaultDataFile = "bootstrap.dat"
	defaultProgress = 10
)

var activeConfig *ConfigFlags

// ActiveConfig returns the active configuration struct.
func ActiveConfig() *ConfigFlags {
	return activeConfig
}

// ConfigFlags defines the configuration options for addblock.
//
// See loadConfig for details on the configuration load process.
type ConfigFlags struct {
	DataDir  string `short:"b" long:"datadir" description:"Location of the block-index and transaction-index data directory"`
	InFile   string `short:"i" long:"infile" description:"File containing the block(s)"`
	TestNet  bool   `long:"testnet" description:"Load blocks against the test network instead of the main network"`
	Progress int    `short:"p" long:"progress" description:"Show a progress message each time this number of blocks have been accepted -- Use 0 to disable progress announcements"`
}

// NetParams returns the consensus parameters selected by the network
// flags, mainnet unless TestNet is set.
func (c *ConfigFlags) NetParams() *chaincfg.Params {
	if c.TestNet {
		return &chaincfg.TestNetParams
	}
	return &chaincfg.MainNetParams
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*ConfigFlags, []string, error) {
	activeConfig = &ConfigFlags{
		DataDir:  defaultDataDir,
		InFile:   defaultDataFile,
		Progress: defaultProgress,
	}

	parser := flags.NewParser(activeConfig, flags.Default)
	remainingArgs, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); !ok || flagsErr.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	activeConfig.DataDir = filepath.Join(activeConfig.DataDir, activeConfig.NetParams().Name)

	if !fileExists(activeConfig.InFile) {
		str := "%s: the specified block file [%s] does not exist"
		err := errors.Errorf(str, "loadConfig", activeConfig.InFile)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	return activeConfig, remainingArgs, nil
}
