// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/pkg/errors"

	"github.com/vireo-chain/vireod/chaincfg"
	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/database"
	"github.com/vireo-chain/vireod/logger"
	"github.com/vireo-chain/vireod/txvalidate"
	"github.com/vireo-chain/vireod/util"
	"github.com/vireo-chain/vireod/wire"
)

var log = logger.RegisterSubSystem("CHAIN")

// MempoolPurger is the capability ChainManager needs from the mempool:
// dropping transactions that just got confirmed, and putting back
// transactions that a reorganization disconnected. The mempool itself
// lives above this package; ChainManager only ever sees this narrow
// slice of it.
type MempoolPurger interface {
	RemoveConfirmed(txs []*wire.MsgTx)
	Resurrect(txs []*wire.MsgTx)
}

// Subscriber is the capability interface wallet and UI code registers
// to learn about chain activity, per the redesign's decision to keep
// the core from ever calling wallet code directly.
type Subscriber interface {
	OnSyncTx(tx *wire.MsgTx, block *util.Block, connect bool)
	OnSetBestChain(tipHash chainhash.Hash)
	OnUpdatedTransaction(hash chainhash.Hash)
	OnInventory(hash chainhash.Hash)
}

// ChainManager owns the single source of truth for the active chain:
// the block index, the current tip, and the total money supply. It
// is constructed once per process; tests construct isolated instances
// over in-memory storage.
type ChainManager struct {
	params    *chaincfg.Params
	db        database.Database
	validator *BlockValidator

	index       *BlockIndex
	orphans     *OrphanBlockPool
	checkpoints *Checkpoints

	tip         *BlockIndexNode
	moneySupply int64

	mempool    MempoolPurger
	subscriber Subscriber
}

// NewChainManager builds a ChainManager rooted at params.GenesisBlock,
// creating the genesis BlockIndexNode if the index is otherwise empty.
func NewChainManager(params *chaincfg.Params, db database.Database, validator *BlockValidator, checkpoints *Checkpoints) *ChainManager {
	index := NewBlockIndex()
	genesis := NewGenesisNode(&params.GenesisBlock.Header, params.GenesisBlock.Header.Bits)
	index.AddNode(genesis)

	return &ChainManager{
		params:      params,
		db:          db,
		validator:   validator,
		index:       index,
		orphans:     NewOrphanBlockPool(),
		checkpoints: checkpoints,
		tip:         genesis,
	}
}

// SetMempool registers the mempool ChainManager purges/resurrects
// transactions through. Optional; a nil mempool simply skips those
// side effects, useful for tests that only exercise the index.
func (cm *ChainManager) SetMempool(mempool MempoolPurger) {
	cm.mempool = mempool
}

// SetSubscriber registers the capability interface notified of chain
// activity.
func (cm *ChainManager) SetSubscriber(subscriber Subscriber) {
	cm.subscriber = subscriber
}

// Tip returns the current active-chain tip.
func (cm *ChainManager) Tip() *BlockIndexNode {
	return cm.tip
}

// Index returns the block index backing this manager.
func (cm *ChainManager) Index() *BlockIndex {
	return cm.index
}

// Orphans returns the orphan block pool backing this manager.
func (cm *ChainManager) Orphans() *OrphanBlockPool {
	return cm.orphans
}

// TipHeight returns the active tip's height, or -1 before any block
// (including genesis) has been connected.
func (cm *ChainManager) TipHeight() int32 {
	if cm.tip == nil {
		return -1
	}
	return cm.tip.Height
}

// FetchPrevOut resolves outpoint against the on-disk transaction
// index and block store. It is exported for callers outside this
// package - the mempool - that need to validate a transaction against
// confirmed chain state rather than a block-connect overlay.
func (cm *ChainManager) FetchPrevOut(outpoint wire.OutPoint) (*txvalidate.PrevOut, error) {
	ctx := database.NoTx(cm.db)
	fetcher := &connectBlockFetcher{ctx: ctx, cm: cm, overlay: make(map[wire.OutPoint]*txvalidate.PrevOut)}
	return fetcher.FetchPrevOut(outpoint)
}

// ContainsTx reports whether hash already has a transaction index
// entry, i.e. is already confirmed on the active chain.
func (cm *ChainManager) ContainsTx(hash chainhash.Hash) (bool, error) {
	return database.ContainsTx(database.NoTx(cm.db), hash.CloneBytes())
}

// MaybeAdvance decides how a freshly-AcceptBlock'd node affects the
// active chain: ignored if it does not exceed the tip's trust,
// directly connected if it extends the tip, or reorganized onto
// otherwise. node must already be linked into the index (parent set,
// added via AddNode) before this is called; block is node's
// corresponding full block, already persisted to the block store by
// the caller's AcceptBlock.
func (cm *ChainManager) MaybeAdvance(node *BlockIndexNode, block *util.Block) txvalidate.Result {
	if node.Trust.Cmp(cm.tip.Trust) <= 0 {
		log.Debugf("block %s stored as a fork, trust %s does not exceed tip trust %s", node.Hash, node.Trust, cm.tip.Trust)
		return txvalidate.Ok
	}

	if node.parent == cm.tip.id {
		result := cm.connectInner(node, block)
		if !result.IsOk() {
			return result
		}
		cm.tip = node
		cm.notifyBestChain()
		return txvalidate.Ok
	}

	return cm.reorganize(node, block)
}

// connectInner runs ConnectBlock for a single node extending the
// current tip directly, inside its own storage transaction.
func (cm *ChainManager) connectInner(node *BlockIndexNode, block *util.Block) txvalidate.Result {
	ctx, err := database.NewTx(cm.db)
	if err != nil {
		return txvalidate.Fatal("failed to begin storage transaction: " + err.Error())
	}
	defer ctx.RollbackUnlessClosed()

	result := cm.ConnectBlock(ctx, node, block)
	if !result.IsOk() {
		node.Invalid = true
		return result
	}

	if err := database.WriteHashBestChain(ctx, node.Hash.CloneBytes()); err != nil {
		return txvalidate.Fatal("failed to write best chain hash: " + err.Error())
	}
	if err := ctx.Commit(); err != nil {
		return txvalidate.Fatal("failed to commit storage transaction: " + err.Error())
	}

	cm.index.SetNext(cm.index.Parent(node), node)
	cm.purgeConfirmed(block)
	return txvalidate.Ok
}

// reorganize implements Reorganize(target): it walks tip and target
// back to their common ancestor, disconnects everything between tip
// and that ancestor, connects everything between the ancestor and
// target, and - only if every step and the final commit succeed -
// adopts target as the new tip.
func (cm *ChainManager) reorganize(target *BlockIndexNode, targetBlock *util.Block) txvalidate.Result {
	fork, err := cm.findFork(cm.tip, target)
	if err != nil {
		return txvalidate.Fatal(err.Error())
	}

	disconnect := cm.chainBetween(cm.tip, fork)
	connect := cm.chainBetween(target, fork)
	reverse(connect)

	ctx, err := database.NewTx(cm.db)
	if err != nil {
		return txvalidate.Fatal("failed to begin storage transaction: " + err.Error())
	}
	defer ctx.RollbackUnlessClosed()

	var resurrect []*wire.MsgTx
	var purge []*wire.MsgTx

	for _, node := range disconnect {
		block, err := cm.fetchBlock(ctx, node.Hash)
		if err != nil {
			return txvalidate.Fatal("failed to read block being disconnected: " + err.Error())
		}
		result := cm.DisconnectBlock(ctx, node, block)
		if !result.IsOk() {
			return result
		}
		for _, tx := range block.MsgBlock().Transactions {
			if !tx.IsCoinBase() && !tx.IsCoinStake() {
				resurrect = append(resurrect, tx)
			}
		}
	}

	for _, node := range connect {
		var block *util.Block
		if node == target {
			block = targetBlock
		} else {
			var err error
			block, err = cm.fetchBlock(ctx, node.Hash)
			if err != nil {
				return txvalidate.Fatal("failed to read block being connected: " + err.Error())
			}
		}
		result := cm.ConnectBlock(ctx, node, block)
		if !result.IsOk() {
			node.Invalid = true
			return result
		}
		purge = append(purge, block.MsgBlock().Transactions...)
	}

	if err := database.WriteHashBestChain(ctx, target.Hash.CloneBytes()); err != nil {
		return txvalidate.Fatal("failed to write best chain hash: " + err.Error())
	}
	if err := ctx.Commit(); err != nil {
		return txvalidate.Fatal("failed to commit storage transaction: " + err.Error())
	}

	for _, node := range disconnect {
		cm.index.SetNext(cm.index.Parent(node), nil)
	}
	for _, node := range connect {
		cm.index.SetNext(cm.index.Parent(node), node)
	}
	cm.tip = target
	cm.notifyBestChain()

	if cm.mempool != nil {
		cm.mempool.RemoveConfirmed(purge)
		cm.mempool.Resurrect(resurrect)
	}

	return txvalidate.Ok
}

// findFork walks a and b's parent chains back to their common
// ancestor, equalizing heights first and then stepping together.
func (cm *ChainManager) findFork(a, b *BlockIndexNode) (*BlockIndexNode, error) {
	for a.Height > b.Height {
		a = cm.index.Parent(a)
		if a == nil {
			return nil, errors.New("reorganization fork search reached a null parent")
		}
	}
	for b.Height > a.Height {
		b = cm.index.Parent(b)
		if b == nil {
			return nil, errors.New("reorganization fork search reached a null parent")
		}
	}
	for a != b {
		a = cm.index.Parent(a)
		b = cm.index.Parent(b)
		if a == nil || b == nil {
			return nil, errors.New("reorganization fork search reached a null parent")
		}
	}
	return a, nil
}

// chainBetween returns the nodes strictly between fork (exclusive)
// and from (inclusive), ordered from from down to fork's child.
func (cm *ChainManager) chainBetween(from, fork *BlockIndexNode) []*BlockIndexNode {
	var nodes []*BlockIndexNode
	for n := from; n != fork; n = cm.index.Parent(n) {
		nodes = append(nodes, n)
	}
	return nodes
}

func reverse(nodes []*BlockIndexNode) {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}

func (cm *ChainManager) fetchBlock(ctx database.Context, hash chainhash.Hash) (*util.Block, error) {
	raw, err := database.FetchBlock(ctx, hash.CloneBytes())
	if err != nil {
		return nil, err
	}
	return util.NewBlockFromBytes(raw)
}

func (cm *ChainManager) purgeConfirmed(block *util.Block) {
	if cm.mempool != nil {
		cm.mempool.RemoveConfirmed(block.MsgBlock().Transactions)
	}
}

func (cm *ChainManager) notifyBestChain() {
	if cm.subscriber != nil {
		cm.subscriber.OnSetBestChain(cm.tip.Hash)
	}
}

// connectBlockFetcher resolves previous outputs for ConnectBlock's
// per-transaction ConnectInputs call: first against the overlay of
// transactions already connected earlier in the same block, falling
// back to the on-disk transaction index and block store.
type connectBlockFetcher struct {
	ctx     database.Context
	cm      *ChainManager
	overlay map[wire.OutPoint]*txvalidate.PrevOut
}

func (f *connectBlockFetcher) FetchPrevOut(outpoint wire.OutPoint) (*txvalidate.PrevOut, error) {
	if prev, ok := f.overlay[outpoint]; ok {
		return prev, nil
	}

	idx, err := database.ReadTxIndex(f.ctx, outpoint.Hash.CloneBytes())
	if err != nil {
		return nil, err
	}
	var blockHash chainhash.Hash
	copy(blockHash[:], idx.Pos.BlockHash[:])

	block, err := f.cm.fetchBlock(f.ctx, blockHash)
	if err != nil {
		return nil, err
	}

	var prevTx *wire.MsgTx
	for _, tx := range block.MsgBlock().Transactions {
		if tx.TxHash() == outpoint.Hash {
			prevTx = tx
			break
		}
	}
	if prevTx == nil {
		return nil, errors.Errorf("transaction %s indexed in block %s but not found within it", outpoint.Hash, blockHash)
	}

	node := f.cm.index.LookupHash(blockHash)
	var height int32
	if node != nil {
		height = node.Height
	}

	prev := &txvalidate.PrevOut{
		Tx:          prevTx,
		BlockHeight: height,
		BlockTime:   prevTx.Timestamp.Unix(),
		Index:       idx,
	}
	f.overlay[outpoint] = prev
	return prev, nil
}

// ConnectBlock applies block's effect on chain state under ctx:
// verifies and connects every non-coinbase transaction's inputs,
// checks the coinbase/coinstake reward against the schedule, enforces
// masternode and developer payments once their enforcement heights
// are reached, and persists the resulting TxIndex updates and block
// index entry. It does not write the best-chain pointer or advance
// the in-memory tip; MaybeAdvance and reorganize do that once every
// node in the operation has committed.
func (cm *ChainManager) ConnectBlock(ctx database.Context, node *BlockIndexNode, block *util.Block) txvalidate.Result {
	msg := block.MsgBlock()
	fetcher := &connectBlockFetcher{ctx: ctx, cm: cm, overlay: make(map[wire.OutPoint]*txvalidate.PrevOut)}

	var valueIn, valueOut, fees int64
	var allConnected []txvalidate.ConnectedInput

	for _, tx := range msg.Transactions {
		for _, out := range tx.TxOut {
			valueOut += out.Value
		}
		if tx.IsCoinBase() {
			continue
		}

		txValueIn, connected, result := txvalidate.ConnectInputs(tx, fetcher, node.Height, int64(node.BlockTime), int32(cm.params.CoinbaseMaturity))
		if !result.IsOk() {
			return result
		}
		valueIn += txValueIn
		allConnected = append(allConnected, connected...)

		var txValueOut int64
		for _, out := range tx.TxOut {
			txValueOut += out.Value
		}
		fees += txValueIn - txValueOut
	}

	mint := valueOut - valueIn
	node.Mint = mint

	coinbaseOut := sumOutputs(msg.Transactions[0])
	if node.IsProofOfStake {
		stakeReward := coinbaseOut
		if msg.IsProofOfStake() {
			coinstake := msg.Transactions[1]
			stakeReward = sumOutputs(coinstake) - fees
		}
		maxReward := GetProofOfStakeReward(cm.params.PosRewardSchedule, cm.params.PosRewardScheduleCutoffHeight, node.Height, fees)
		if stakeReward > maxReward {
			return txvalidate.Rejected(100, "proof-of-stake reward exceeds the schedule")
		}

		developerPayment := GetDeveloperPayment(cm.params, stakeReward)
		if node.Height >= cm.params.EnforceDeveloperPaymentHeight {
			if !cm.hasPayment(msg.Transactions[1], cm.params.DeveloperPaymentScript, developerPayment) {
				return txvalidate.Rejected(50, "missing or insufficient developer payment")
			}
		} else if msg.IsProofOfStake() && !cm.hasPayment(msg.Transactions[1], cm.params.DeveloperPaymentScript, developerPayment) {
			log.Warnf("block %s at height %d lacks the developer payment (not enforced below height %d)",
				node.Hash, node.Height, cm.params.EnforceDeveloperPaymentHeight)
		}

		masternodePayment := GetMasternodePayment(cm.params, stakeReward, developerPayment)
		if node.Height >= cm.params.EnforceMasternodePaymentHeight {
			if !cm.hasAnyPayment(msg.Transactions[1], masternodePayment) {
				return txvalidate.Rejected(cm.params.MasternodePaymentDoSWeight, "missing or insufficient masternode payment")
			}
		} else if msg.IsProofOfStake() && !cm.hasAnyPayment(msg.Transactions[1], masternodePayment) {
			log.Warnf("block %s at height %d lacks the masternode payment (not enforced below height %d)",
				node.Hash, node.Height, cm.params.EnforceMasternodePaymentHeight)
		}
	} else {
		maxReward := GetProofOfWorkReward(cm.params.PowRewardSchedule, node.Height, fees)
		if coinbaseOut > maxReward {
			return txvalidate.Rejected(100, "proof-of-work reward exceeds the schedule")
		}
	}

	cm.moneySupply += mint
	node.MoneySupply = cm.moneySupply

	thisPos := &database.DiskTxPos{BlockHash: node.Hash, TxOffset: node.FileOffset, TxSize: node.FileSize}
	txvalidate.ApplySpends(allConnected, thisPos)

	for _, tx := range msg.Transactions {
		hash := tx.TxHash()
		index := &database.TxIndex{
			Pos:   database.DiskTxPos{BlockHash: node.Hash, TxOffset: node.FileOffset, TxSize: node.FileSize},
			Spent: make([]*database.DiskTxPos, len(tx.TxOut)),
		}
		if err := database.UpdateTxIndex(ctx, hash.CloneBytes(), index); err != nil {
			return txvalidate.Fatal("failed to write transaction index: " + err.Error())
		}
	}
	for _, c := range allConnected {
		if err := database.UpdateTxIndex(ctx, c.Outpoint.Hash.CloneBytes(), c.PrevIndex); err != nil {
			return txvalidate.Fatal("failed to write spent-output update: " + err.Error())
		}
	}

	var parentHash chainhash.Hash
	if parent := cm.index.Parent(node); parent != nil {
		parentHash = parent.Hash
	}
	serialized, err := serializeBlockIndexNode(node, parentHash)
	if err != nil {
		return txvalidate.Fatal("failed to serialize block index entry: " + err.Error())
	}
	if err := database.WriteBlockIndex(ctx, node.Hash.CloneBytes(), serialized); err != nil {
		return txvalidate.Fatal("failed to write block index entry: " + err.Error())
	}

	if cm.subscriber != nil {
		for _, tx := range msg.Transactions {
			cm.subscriber.OnSyncTx(tx, block, true)
		}
	}

	return txvalidate.Ok
}

// DisconnectBlock undoes ConnectBlock's index writes for node/block:
// it clears the spent marker on every input's previous output and
// erases block's own transaction index entries. It does not remove
// the block from the block store and does not touch parent/child
// links in the index.
func (cm *ChainManager) DisconnectBlock(ctx database.Context, node *BlockIndexNode, block *util.Block) txvalidate.Result {
	msg := block.MsgBlock()

	for i := len(msg.Transactions) - 1; i >= 0; i-- {
		tx := msg.Transactions[i]
		if tx.IsCoinBase() {
			continue
		}
		for _, in := range tx.TxIn {
			idx, err := database.ReadTxIndex(ctx, in.PreviousOutPoint.Hash.CloneBytes())
			if err != nil {
				return txvalidate.Fatal("failed to read transaction index while disconnecting: " + err.Error())
			}
			outIdx := int(in.PreviousOutPoint.Index)
			if outIdx < len(idx.Spent) {
				idx.Spent[outIdx] = nil
			}
			if err := database.UpdateTxIndex(ctx, in.PreviousOutPoint.Hash.CloneBytes(), idx); err != nil {
				return txvalidate.Fatal("failed to write un-spent update: " + err.Error())
			}
		}
	}

	for _, tx := range msg.Transactions {
		hash := tx.TxHash()
		if err := database.EraseTxIndex(ctx, hash.CloneBytes()); err != nil {
			return txvalidate.Fatal("failed to erase transaction index: " + err.Error())
		}
	}

	cm.moneySupply -= node.Mint

	if cm.subscriber != nil {
		for _, tx := range msg.Transactions {
			cm.subscriber.OnSyncTx(tx, block, false)
		}
	}

	return txvalidate.Ok
}

func sumOutputs(tx *wire.MsgTx) int64 {
	var total int64
	for _, out := range tx.TxOut {
		total += out.Value
	}
	return total
}

// hasPayment reports whether tx carries an output paying at least
// amount to exactly script.
func (cm *ChainManager) hasPayment(tx *wire.MsgTx, script []byte, amount int64) bool {
	if amount <= 0 {
		return true
	}
	for _, out := range tx.TxOut {
		if out.Value >= amount && bytesEqualChain(out.PkScript, script) {
			return true
		}
	}
	return false
}

// hasAnyPayment reports whether tx carries an output paying at least
// amount to any script; used for the masternode payment, whose payee
// is chosen dynamically rather than fixed.
func (cm *ChainManager) hasAnyPayment(tx *wire.MsgTx, amount int64) bool {
	if amount <= 0 {
		return true
	}
	for _, out := range tx.TxOut {
		if out.Value >= amount {
			return true
		}
	}
	return false
}

func bytesEqualChain(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
