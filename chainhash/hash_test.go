package chainhash

import (
	"bytes"
	"testing"
)

func TestHashSetBytes(t *testing.T) {
	wantBytes := make([]byte, HashSize)
	wantBytes[HashSize-1] = 0xf2

	hash := Hash{}
	if err := hash.SetBytes(wantBytes); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	if !bytes.Equal(hash[:], wantBytes) {
		t.Errorf("SetBytes: got %x, want %x", hash[:], wantBytes)
	}

	if err := hash.SetBytes(make([]byte, HashSize+1)); err == nil {
		t.Errorf("expected error setting bytes of the wrong length")
	}
}

func TestHashEquality(t *testing.T) {
	hash1 := HashH([]byte("test"))
	hash2 := HashH([]byte("test"))
	if !hash1.IsEqual(&hash2) {
		t.Errorf("expected equal hashes for identical input")
	}

	hash3 := HashH([]byte("different"))
	if hash1.IsEqual(&hash3) {
		t.Errorf("expected different hashes for different input")
	}
}

func TestNewHashFromStrRoundTrip(t *testing.T) {
	original := DoubleHashH([]byte("round trip"))
	str := original.String()

	parsed, err := NewHashFromStr(str)
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}
	if !original.IsEqual(parsed) {
		t.Errorf("round trip mismatch: got %s, want %s", parsed, str)
	}
}

func TestNewHashFromStrTooLong(t *testing.T) {
	longStr := make([]byte, MaxHashStringSize+2)
	for i := range longStr {
		longStr[i] = 'a'
	}
	if _, err := NewHashFromStr(string(longStr)); err == nil {
		t.Errorf("expected error for oversized hash string")
	}
}

func TestDoubleHashMatchesTwoRoundsOfHashH(t *testing.T) {
	data := []byte("some transaction bytes")
	want := HashH(HashB(data))
	got := DoubleHashH(data)
	if want != got {
		t.Errorf("DoubleHashH = %x, want %x", got, want)
	}
}

func TestHashWriterMatchesHashH(t *testing.T) {
	data := []byte("chunked input data")
	w := NewHashWriter()
	if _, err := w.Write(data[:5]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write(data[5:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := w.Finalize(), HashH(data); got != want {
		t.Errorf("HashWriter.Finalize = %x, want %x", got, want)
	}
}

func TestDoubleHashWriterMatchesDoubleHashH(t *testing.T) {
	data := []byte("chunked input data")
	w := NewDoubleHashWriter()
	if _, err := w.Write(data[:5]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write(data[5:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := w.Finalize(), DoubleHashH(data); got != want {
		t.Errorf("DoubleHashWriter.Finalize = %x, want %x", got, want)
	}
}
