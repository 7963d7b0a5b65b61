// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "sort"

// medianTimeSpan is the number of trailing ancestor blocks
// GetMedianTimePast considers, the classic Bitcoin/Peercoin-lineage
// window.
const medianTimeSpan = 11

// GetMedianTimePast returns the median timestamp of node and up to
// medianTimeSpan-1 of its preceding ancestors. A candidate child's
// timestamp must strictly exceed this value, rather than node's own
// timestamp, to keep a single lucky miner from claiming an arbitrary
// past or future time.
func GetMedianTimePast(bi *BlockIndex, node *BlockIndexNode) int64 {
	times := make([]int64, 0, medianTimeSpan)
	for n := node; n != nil && len(times) < medianTimeSpan; n = bi.Parent(n) {
		times = append(times, int64(n.BlockTime))
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times[len(times)/2]
}
