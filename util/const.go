// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

const (
	// CentPerCoin is the number of atomic units in one cent.
	CentPerCoin = 1000000

	// AtomsPerCoin is the number of atomic units in one coin.
	AtomsPerCoin = 100000000

	// MaxMoney is the maximum transaction amount allowed, in atomic units.
	MaxMoney = 2000000000 * AtomsPerCoin
)
