// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// addblock reads a bootstrap block file - a flat sequence of
// [magic 4B][size u32 LE][serialized block] records - and feeds each
// block to a ChainManager in file order, the same way a peer connection
// would feed it blocks received over the wire.
package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/blockchain"
	"github.com/vireo-chain/vireod/chaincfg"
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/logger"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

var log = logger.RegisterSubSystem("BLKI")

func main() {
	cfg, _, err := loadConfig()
	if err != nil {
		os.Exit(1)
	}

	if err := realMain(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain(cfg *ConfigFlags) error {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return errors.Wrapf(err, "failed to create data directory %s", cfg.DataDir)
	}

	db, err := database.Open(cfg.DataDir)
	if err != nil {
		return errors.Wrap(err, "failed to open block database")
	}

	params := cfg.NetParams()
	checkpoints := blockchain.NewCheckpoints(params.Checkpoints, blockchain.CheckpointModeAdvisory)
	validator := blockchain.NewBlockValidator(params, checkpoints)
	chain := blockchain.NewChainManager(params, db, validator, checkpoints)

	file, err := os.Open(cfg.InFile)
	if err != nil {
		return errors.Wrapf(err, "failed to open block file %s", cfg.InFile)
	}
	defer file.Close()

	return loadBlockFile(chain, params, bufio.NewReader(file), cfg.Progress)
}

// loadBlockFile scans r for magic-prefixed block records and submits
// each one to chain.AcceptBlock in order. A record whose magic does not
// match either network's is skipped byte by byte until a valid magic is
// found, the same resynchronization behavior btcd-lineage bootstrap
// loaders use against a truncated or corrupted dump.
func loadBlockFile(chain *blockchain.ChainManager, params *chaincfg.Params, r *bufio.Reader, progressInterval int) error {
	var accepted, skipped int

	for {
		magic, err := readMagic(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to scan for block magic")
		}
		if magic != params.Net {
			skipped++
			continue
		}

		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return errors.Wrap(err, "failed to read block size")
		}
		if size == 0 || size > txvalidate.MaxBlockSize {
			return errors.Errorf("block size %d out of range", size)
		}

		raw := make([]byte, size)
		if _, err := io.ReadFull(r, raw); err != nil {
			return errors.Wrap(err, "failed to read block payload")
		}

		msgBlock := new(wire.MsgBlock)
		if err := msgBlock.Deserialize(bytes.NewReader(raw)); err != nil {
			log.Warnf("skipping malformed block: %s", err)
			skipped++
			continue
		}

		block := util.NewBlock(msgBlock)
		if _, result := chain.AcceptBlock(block, time.Now()); !result.IsOk() {
			if result.Severity == txvalidate.SeverityFatal {
				return errors.New(result.Reason)
			}
			log.Debugf("block %s not accepted: %s", block.Hash(), result.Error())
			skipped++
			continue
		}

		accepted++
		if progressInterval > 0 && accepted%progressInterval == 0 {
			log.Infof("processed %d blocks (height %d)", accepted, chain.TipHeight())
		}
	}

	log.Infof("done: %d blocks accepted, %d skipped, tip height %d", accepted, skipped, chain.TipHeight())
	return nil
}

// readMagic advances r one byte at a time until the last four bytes
// read equal one of the network magics, returning that magic.
func readMagic(r *bufio.Reader) (uint32, error) {
	var window [4]byte
	if _, err := io.ReadFull(r, window[:]); err != nil {
		return 0, err
	}
	for {
		magic := binary.LittleEndian.Uint32(window[:])
		if magic == chaincfg.MainNetMagic || magic == chaincfg.TestNetMagic {
			return magic, nil
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		copy(window[:], window[1:])
		window[3] = b
	}
}
