package roster

import (
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint digests every persisted, mutable field of the fighter. Two
// fighters with equal fingerprints need no write between them.
// TotalDamageTaken is fight-scoped and left out.
func (f *Fighter) Fingerprint() string {
	h := sha512.New()

	writeString := func(s string) { _, _ = h.Write([]byte(s)); _, _ = h.Write([]byte{0x1f}) }
	writeInt := func(n int) { var b [8]byte; binary.BigEndian.PutUint64(b[:], uint64(n)); _, _ = h.Write(b[:]) }
	writeBool := func(bv bool) {
		if bv {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}

	writeInt(f.ID)
	writeString(f.Name)
	writeString(f.Nickname)
	writeInt(int(f.WeightClass))
	for _, s := range f.statRefs() {
		writeInt(*s)
	}
	writeInt(len(f.Traits))
	for _, t := range f.Traits {
		writeString(t)
	}
	writeInt(f.Record.Wins)
	writeInt(f.Record.Losses)
	writeInt(f.Record.Draws)
	writeBool(f.IsChampion)
	writeInt(f.Rank)
	writeInt(f.Age)
	writeInt(f.Popularity)
	writeInt(f.InjuryMonths)
	writeInt(f.RankingScore)
	writeInt(f.AnnualStats.Wins)
	writeInt(f.AnnualStats.Finishes)
	writeBool(f.Retired)
	writeInt(len(f.History))

	return hex.EncodeToString(h.Sum(nil))
}
