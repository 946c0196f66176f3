package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// MaxAttempts is the number of guesses a Wordle allows.
const MaxAttempts = 6

// Attempts is the number of guesses used to solve a puzzle, or Failed.
type Attempts int

// Failed marks a puzzle that was not solved within MaxAttempts guesses.
const Failed Attempts = -1

// failedRank orders Failed after every winning attempt count.
const failedRank = MaxAttempts + 1

// ErrInvalidAttempts is returned for any attempts token outside 1-6 and X.
var ErrInvalidAttempts = errors.New("invalid attempts")

// ParseAttempts converts the token between the puzzle number and "/6".
func ParseAttempts(tok string) (Attempts, error) {
	if tok == "X" {
		return Failed, nil
	}
	if len(tok) != 1 || tok[0] < '1' || tok[0] > '0'+MaxAttempts {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAttempts, tok)
	}
	return Attempts(tok[0] - '0'), nil
}

// Valid reports whether a is a win in 1..MaxAttempts or Failed.
func (a Attempts) Valid() bool {
	return a == Failed || (a >= 1 && a <= MaxAttempts)
}

// IsFailed reports whether the puzzle went unsolved.
func (a Attempts) IsFailed() bool { return a == Failed }

// Rank is the value used for head-to-head comparison; lower is better.
func (a Attempts) Rank() int {
	if a == Failed {
		return failedRank
	}
	return int(a)
}

func (a Attempts) String() string {
	if a == Failed {
		return "X"
	}
	return fmt.Sprintf("%d", int(a))
}

// ResultRecord is one posted Wordle result.
type ResultRecord struct {
	Player       string
	PuzzleNumber int
	Attempts     Attempts
	Date         time.Time
	Year         int
}

// NewResultRecord validates the fields and derives Year from date.
func NewResultRecord(player string, puzzle int, attempts Attempts, date time.Time) (ResultRecord, error) {
	if player == "" {
		return ResultRecord{}, errors.New("empty player")
	}
	if puzzle < 1 {
		return ResultRecord{}, fmt.Errorf("puzzle number must be >= 1, got %d", puzzle)
	}
	if !attempts.Valid() {
		return ResultRecord{}, fmt.Errorf("%w: %d", ErrInvalidAttempts, int(attempts))
	}
	if date.IsZero() {
		return ResultRecord{}, errors.New("zero date")
	}
	return ResultRecord{
		Player:       player,
		PuzzleNumber: puzzle,
		Attempts:     attempts,
		Date:         date,
		Year:         date.Year(),
	}, nil
}

// Pair names the two participants compared head-to-head.
type Pair struct {
	First  string
	Second string
}

// Validate rejects empty or identical participants.
func (p Pair) Validate() error {
	if p.First == "" || p.Second == "" {
		return errors.New("head-to-head pair needs two names")
	}
	if p.First == p.Second {
		return fmt.Errorf("head-to-head pair names are identical: %q", p.First)
	}
	return nil
}

// ---- Aggregates ----

// PlayerYearKey identifies a PlayerYearStats bucket.
type PlayerYearKey struct {
	Player string
	Year   int
}

// PlayerYearStats summarises one player's results in one calendar year.
type PlayerYearStats struct {
	Player        string
	Year          int
	TotalGames    int
	Wins          int
	Losses        int
	TotalAttempts int
	Distribution  [MaxAttempts + 1]int // Distribution[n] counts wins in n guesses; index 0 unused
}

// Add accumulates a single result. Values outside 1..6 and Failed are ignored.
func (s *PlayerYearStats) Add(a Attempts) {
	if !a.Valid() {
		return
	}
	s.TotalGames++
	if a.IsFailed() {
		s.Losses++
		return
	}
	s.Wins++
	s.Distribution[a]++
	s.TotalAttempts += int(a)
}

// WinRate returns wins as a percentage of games, 0 when no games were played.
func (s *PlayerYearStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalGames) * 100
}

// MeanAttempts returns the average guesses per win, 0 when there are no wins.
func (s *PlayerYearStats) MeanAttempts() float64 {
	if s.Wins == 0 {
		return 0
	}
	return float64(s.TotalAttempts) / float64(s.Wins)
}

// Buckets returns the attempt counts (ascending) that have at least one win.
func (s *PlayerYearStats) Buckets() []int {
	var out []int
	for n := 1; n <= MaxAttempts; n++ {
		if s.Distribution[n] > 0 {
			out = append(out, n)
		}
	}
	return out
}

// PlayerYearTable holds PlayerYearStats keyed by (player, year).
type PlayerYearTable struct {
	buckets map[PlayerYearKey]*PlayerYearStats
}

func NewPlayerYearTable() *PlayerYearTable {
	return &PlayerYearTable{buckets: make(map[PlayerYearKey]*PlayerYearStats)}
}

// GetOrCreate returns the bucket for key, creating an empty one if needed.
func (t *PlayerYearTable) GetOrCreate(key PlayerYearKey) *PlayerYearStats {
	s, ok := t.buckets[key]
	if !ok {
		s = &PlayerYearStats{Player: key.Player, Year: key.Year}
		t.buckets[key] = s
	}
	return s
}

// Get returns the bucket for key, or nil.
func (t *PlayerYearTable) Get(key PlayerYearKey) *PlayerYearStats {
	return t.buckets[key]
}

func (t *PlayerYearTable) Len() int { return len(t.buckets) }

// Players returns the distinct player names in lexicographic order.
func (t *PlayerYearTable) Players() []string {
	seen := make(map[string]struct{})
	var out []string
	for k := range t.buckets {
		if _, ok := seen[k.Player]; ok {
			continue
		}
		seen[k.Player] = struct{}{}
		out = append(out, k.Player)
	}
	sort.Strings(out)
	return out
}

// Years returns the years player has results for, ascending.
func (t *PlayerYearTable) Years(player string) []int {
	var out []int
	for k := range t.buckets {
		if k.Player == player {
			out = append(out, k.Year)
		}
	}
	sort.Ints(out)
	return out
}

// AllYears returns every year seen for any player, ascending.
func (t *PlayerYearTable) AllYears() []int {
	seen := make(map[int]struct{})
	var out []int
	for k := range t.buckets {
		if _, ok := seen[k.Year]; ok {
			continue
		}
		seen[k.Year] = struct{}{}
		out = append(out, k.Year)
	}
	sort.Ints(out)
	return out
}

// Rows returns all buckets ordered by player, then year.
func (t *PlayerYearTable) Rows() []PlayerYearStats {
	out := make([]PlayerYearStats, 0, len(t.buckets))
	for _, s := range t.buckets {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// HeadToHeadYearStats tallies daily outcomes between a Pair for one year.
type HeadToHeadYearStats struct {
	Year       int
	FirstWins  int
	SecondWins int
	Ties       int
}

// Total is the number of puzzles both participants played.
func (s *HeadToHeadYearStats) Total() int {
	return s.FirstWins + s.SecondWins + s.Ties
}

// Share returns n as a percentage of Total, 0 when Total is 0.
func (s *HeadToHeadYearStats) Share(n int) float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// HeadToHeadTable holds HeadToHeadYearStats keyed by year.
type HeadToHeadTable struct {
	Pair  Pair
	years map[int]*HeadToHeadYearStats
}

func NewHeadToHeadTable(pair Pair) *HeadToHeadTable {
	return &HeadToHeadTable{Pair: pair, years: make(map[int]*HeadToHeadYearStats)}
}

// GetOrCreate returns the bucket for year, creating an empty one if needed.
func (t *HeadToHeadTable) GetOrCreate(year int) *HeadToHeadYearStats {
	s, ok := t.years[year]
	if !ok {
		s = &HeadToHeadYearStats{Year: year}
		t.years[year] = s
	}
	return s
}

// Get returns the bucket for year, or nil.
func (t *HeadToHeadTable) Get(year int) *HeadToHeadYearStats {
	return t.years[year]
}

// Years returns the years with at least one shared puzzle, ascending.
func (t *HeadToHeadTable) Years() []int {
	out := make([]int, 0, len(t.years))
	for y := range t.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Rows returns all buckets ordered by year.
func (t *HeadToHeadTable) Rows() []HeadToHeadYearStats {
	out := make([]HeadToHeadYearStats, 0, len(t.years))
	for _, y := range t.Years() {
		out = append(out, *t.years[y])
	}
	return out
}
