package storage

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/solver"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTemp(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.Layout != board.DefaultLayout || !prefs.SoundEnabled || prefs.ShowSolution {
		t.Errorf("unexpected defaults: %+v", prefs)
	}

	prefs.Layout = "arrow"
	prefs.ShowSolution = true
	prefs.SoundEnabled = false
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Layout != "arrow" || !got.ShowSolution || got.SoundEnabled {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed not stamped")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTemp(t)

	games := []GameResult{
		{Layout: "english", Solved: false, PegsLeft: 5, Duration: time.Minute},
		{Layout: "english", Solved: true, PegsLeft: 1, Duration: 2 * time.Minute},
		{Layout: "arrow", Solved: false, PegsLeft: 3, Duration: time.Minute},
		{Layout: "english", Solved: false, PegsLeft: 4, Duration: time.Minute},
	}
	for _, g := range games {
		if err := s.RecordGame(g); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 4 || stats.Solved != 1 || stats.Stuck != 3 {
		t.Errorf("counts: %+v", stats)
	}
	if stats.SolvedBy["english"] != 1 || stats.SolvedBy["arrow"] != 0 {
		t.Errorf("SolvedBy = %v", stats.SolvedBy)
	}
	if stats.BestPegsLeft["english"] != 1 || stats.BestPegsLeft["arrow"] != 3 {
		t.Errorf("BestPegsLeft = %v", stats.BestPegsLeft)
	}
	if stats.TotalPlayTime != 5*time.Minute {
		t.Errorf("TotalPlayTime = %v", stats.TotalPlayTime)
	}
	if rate := stats.SolveRate(); rate != 25 {
		t.Errorf("SolveRate = %.2f, want 25", rate)
	}
}

func TestSolveRateEmpty(t *testing.T) {
	if rate := NewGameStats().SolveRate(); rate != 0 {
		t.Errorf("SolveRate = %.2f", rate)
	}
}

func TestMemoRoundTrip(t *testing.T) {
	s := openTemp(t)
	geo, err := board.Layout("diamond")
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if snap, err := s.LoadMemo(geo.Fingerprint()); err != nil || snap != nil {
		t.Fatalf("LoadMemo on empty db = %v, %v", snap, err)
	}

	e := solver.NewEngine(geo)
	e.IsSolvable(geo.Full().Clear(geo.Goal()))
	want := e.Snapshot()
	if err := s.SaveMemo(want); err != nil {
		t.Fatalf("SaveMemo: %v", err)
	}

	got, err := s.LoadMemo(geo.Fingerprint())
	if err != nil {
		t.Fatalf("LoadMemo: %v", err)
	}
	if got.Fingerprint != want.Fingerprint || got.Len() != want.Len() {
		t.Fatalf("got %d entries for %016x, want %d", got.Len(), got.Fingerprint, want.Len())
	}
	for i := range want.Solvable {
		if got.Solvable[i] != want.Solvable[i] {
			t.Fatalf("solvable[%d] = %v, want %v", i, got.Solvable[i], want.Solvable[i])
		}
	}
	for i := range want.Unsolvable {
		if got.Unsolvable[i] != want.Unsolvable[i] {
			t.Fatalf("unsolvable[%d] = %v, want %v", i, got.Unsolvable[i], want.Unsolvable[i])
		}
	}

	fresh := solver.NewEngine(geo)
	if _, err := fresh.Load(got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fresh.Stats().Entries != e.Stats().Entries {
		t.Errorf("restored %d entries, want %d", fresh.Stats().Entries, e.Stats().Entries)
	}

	if err := s.DeleteMemo(geo.Fingerprint()); err != nil {
		t.Fatalf("DeleteMemo: %v", err)
	}
	if snap, _ := s.LoadMemo(geo.Fingerprint()); snap != nil {
		t.Error("memo survived DeleteMemo")
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	good := encodeSnapshot(&solver.Snapshot{
		Fingerprint: 42,
		Solvable:    []board.Bitboard{1, 6, 300},
		Unsolvable:  []board.Bitboard{2},
	})

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("XXXX"), good[4:]...)},
		{"truncated", good[:len(good)-1]},
		{"trailing", append(append([]byte{}, good...), 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeSnapshot(tc.raw); !errors.Is(err, ErrCorruptMemo) {
				t.Errorf("err = %v, want ErrCorruptMemo", err)
			}
		})
	}

	snap, err := decodeSnapshot(good)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Fingerprint != 42 || snap.Len() != 4 || snap.Solvable[2] != 300 {
		t.Errorf("decoded %+v", snap)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir(t.TempDir())
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); err != nil {
		t.Errorf("Database directory was not created: %v", err)
	}
}
