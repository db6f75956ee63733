package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/solver"
)

// ErrCorruptMemo is returned when a stored memo snapshot cannot be decoded.
var ErrCorruptMemo = errors.New("corrupt memo snapshot")

// memoMagic prefixes every encoded snapshot.
var memoMagic = [4]byte{'P', 'G', 'M', '1'}

func memoKey(fingerprint uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", keyMemoPrefix, fingerprint))
}

// SaveMemo stores a solver snapshot under its fingerprint, replacing any
// earlier one.
func (s *Storage) SaveMemo(snap *solver.Snapshot) error {
	if snap == nil {
		return nil
	}
	data := s.enc.EncodeAll(encodeSnapshot(snap), nil)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(memoKey(snap.Fingerprint), data)
	})
}

// LoadMemo returns the snapshot stored for fingerprint, or nil if there is
// none.
func (s *Storage) LoadMemo(fingerprint uint64) (*solver.Snapshot, error) {
	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(memoKey(fingerprint))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptMemo, err)
	}
	snap, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	if snap.Fingerprint != fingerprint {
		return nil, fmt.Errorf("%w: stored fingerprint %016x", ErrCorruptMemo, snap.Fingerprint)
	}
	return snap, nil
}

// DeleteMemo removes the snapshot stored for fingerprint.
func (s *Storage) DeleteMemo(fingerprint uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(memoKey(fingerprint))
	})
}

// encodeSnapshot packs a snapshot as:
//
//	magic[4] fingerprint[8 LE] uvarint(len solvable) uvarint(len unsolvable)
//	delta-coded uvarint states, solvable first
//
// Both state lists must be sorted ascending.
func encodeSnapshot(snap *solver.Snapshot) []byte {
	buf := make([]byte, 0, 16+2*snap.Len())
	buf = append(buf, memoMagic[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, snap.Fingerprint)
	buf = binary.AppendUvarint(buf, uint64(len(snap.Solvable)))
	buf = binary.AppendUvarint(buf, uint64(len(snap.Unsolvable)))
	buf = appendStates(buf, snap.Solvable)
	buf = appendStates(buf, snap.Unsolvable)
	return buf
}

func appendStates(buf []byte, states []board.Bitboard) []byte {
	var prev uint64
	for _, st := range states {
		buf = binary.AppendUvarint(buf, uint64(st)-prev)
		prev = uint64(st)
	}
	return buf
}

func decodeSnapshot(raw []byte) (*solver.Snapshot, error) {
	if len(raw) < 12 || [4]byte(raw[:4]) != memoMagic {
		return nil, fmt.Errorf("%w: bad header", ErrCorruptMemo)
	}
	snap := &solver.Snapshot{Fingerprint: binary.LittleEndian.Uint64(raw[4:12])}
	rest := raw[12:]

	nSolvable, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad solvable count", ErrCorruptMemo)
	}
	rest = rest[n:]
	nUnsolvable, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad unsolvable count", ErrCorruptMemo)
	}
	rest = rest[n:]

	// Every state takes at least one byte.
	if nSolvable+nUnsolvable > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: truncated", ErrCorruptMemo)
	}

	var err error
	if snap.Solvable, rest, err = readStates(rest, int(nSolvable)); err != nil {
		return nil, err
	}
	if snap.Unsolvable, rest, err = readStates(rest, int(nUnsolvable)); err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptMemo, len(rest))
	}
	return snap, nil
}

func readStates(buf []byte, count int) ([]board.Bitboard, []byte, error) {
	if count == 0 {
		return nil, buf, nil
	}
	states := make([]board.Bitboard, count)
	var prev uint64
	for i := range states {
		delta, n := binary.Uvarint(buf)
		if n <= 0 {
			return nil, nil, fmt.Errorf("%w: bad state %d", ErrCorruptMemo, i)
		}
		buf = buf[n:]
		prev += delta
		states[i] = board.Bitboard(prev)
	}
	return states, buf, nil
}
