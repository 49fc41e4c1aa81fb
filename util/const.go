// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

const (
	// SatoshiPerBitcoin is the number of satoshi in one bitcoin (1 BTC).
	SatoshiPerBitcoin = 100000000

	// BaseSubsidy is the value a coinbase pays when nothing overrides it.
	BaseSubsidy = 50 * SatoshiPerBitcoin
)
