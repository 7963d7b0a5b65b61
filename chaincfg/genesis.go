package chaincfg

import (
	"time"

	"github.com/vireo-chain/vireod/chainhash"
	"github.com/vireo-chain/vireod/wire"
)

// genesisCoinbaseScript is the scriptSig of the genesis block's sole
// coinbase input; it carries no spendable meaning, only a human-readable
// marker the way the original genesis coinbases commonly do.
var genesisCoinbaseScript = []byte("vireod genesis block")

func newGenesisBlock(timestamp time.Time, bits uint32, nonce uint32) *wire.MsgBlock {
	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.Timestamp = timestamp
	coinbase.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: ^uint32(0)}, genesisCoinbaseScript))
	coinbase.AddTxOut(wire.NewTxOut(0, nil))

	merkleRoot := coinbase.TxHash()
	header := wire.NewBlockHeader(1, &chainhash.ZeroHash, &merkleRoot, bits, nonce)
	header.Timestamp = timestamp

	block := wire.NewMsgBlock(header)
	block.AddTransaction(coinbase)
	return block
}

func init() {
	genesisTime := time.Unix(1393221600, 0)

	mainGenesis := newGenesisBlock(genesisTime, 0x1e0fffff, 164)
	MainNetParams.GenesisBlock = mainGenesis
	MainNetParams.GenesisHash = mainGenesis.BlockHash()

	testGenesis := newGenesisBlock(genesisTime, 0x1e0fffff, 164)
	TestNetParams.GenesisBlock = testGenesis
	TestNetParams.GenesisHash = testGenesis.BlockHash()
}
