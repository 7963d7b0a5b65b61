package chaincfg

import "testing"

func TestGenesisBlockHashIsCached(t *testing.T) {
	if MainNetParams.GenesisBlock == nil {
		t.Fatal("MainNetParams.GenesisBlock was not initialized")
	}
	if MainNetParams.GenesisHash != MainNetParams.GenesisBlock.BlockHash() {
		t.Errorf("cached genesis hash does not match recomputed hash")
	}
}

func TestRegisterRejectsDuplicateNet(t *testing.T) {
	custom := Params{Name: "custom", Net: MainNetMagic}
	if err := Register(&custom); err != ErrDuplicateNet {
		t.Errorf("expected ErrDuplicateNet registering a net already in use, got %v", err)
	}
}

func TestCheckpointsSortedAscending(t *testing.T) {
	for i := 1; i < len(MainNetParams.Checkpoints); i++ {
		if MainNetParams.Checkpoints[i].Height <= MainNetParams.Checkpoints[i-1].Height {
			t.Errorf("checkpoints must be sorted ascending by height")
		}
	}
}
