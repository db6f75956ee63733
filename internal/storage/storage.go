package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/hailam/pegplay/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyMemoPrefix  = "memo/"
)

// UserPreferences stores user settings
type UserPreferences struct {
	Layout       string    `json:"layout"`
	ShowSolution bool      `json:"show_solution"`
	SoundEnabled bool      `json:"sound_enabled"`
	ConfirmReset bool      `json:"confirm_reset"`
	LastPlayed   time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Layout:       board.DefaultLayout,
		ShowSolution: false,
		SoundEnabled: true,
		ConfirmReset: true,
		LastPlayed:   time.Now(),
	}
}

// GameStats stores play statistics
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	Solved        int            `json:"solved"`
	Stuck         int            `json:"stuck"`
	SolvedBy      map[string]int `json:"solved_by_layout"`
	BestPegsLeft  map[string]int `json:"best_pegs_left"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty statistics
func NewGameStats() *GameStats {
	return &GameStats{
		SolvedBy:     make(map[string]int),
		BestPegsLeft: make(map[string]int),
	}
}

// GameResult represents the result of a finished game
type GameResult struct {
	Layout   string
	Solved   bool
	PegsLeft int
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	return Open("")
}

// Open opens (or creates) the database under dataDir.
func Open(dataDir string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Storage{db: db, enc: enc, dec: dec}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.enc != nil {
		s.enc.Close()
	}
	if s.dec != nil {
		s.dec.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves play statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads play statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if err := s.getJSON(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.SolvedBy == nil {
		stats.SolvedBy = make(map[string]int)
	}
	if stats.BestPegsLeft == nil {
		stats.BestPegsLeft = make(map[string]int)
	}
	return stats, nil
}

// RecordGame records a finished game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	if result.Solved {
		stats.Solved++
		stats.SolvedBy[result.Layout]++
	} else {
		stats.Stuck++
	}
	if best, ok := stats.BestPegsLeft[result.Layout]; !ok || result.PegsLeft < best {
		stats.BestPegsLeft[result.Layout] = result.PegsLeft
	}

	return s.SaveStats(stats)
}

// SolveRate returns the share of finished games that were solved (0-100)
func (s *GameStats) SolveRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.GamesPlayed) * 100
}

func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value at key into v. A missing key leaves v as is.
func (s *Storage) getJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
