package aggregator

import (
	"fmt"

	"github.com/pable/wordle-stats/internal/model"
)

// Result bundles both aggregate views computed from one record stream.
type Result struct {
	PlayerYear *model.PlayerYearTable
	HeadToHead *model.HeadToHeadTable
	Dedup      Dedup
}

// Aggregate computes the per-player/year table and the head-to-head table for pair.
func Aggregate(records []model.ResultRecord, pair model.Pair) (*Result, error) {
	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	h2h, dedup := HeadToHead(records, pair)
	return &Result{
		PlayerYear: PlayerYear(records),
		HeadToHead: h2h,
		Dedup:      dedup,
	}, nil
}

// PlayerYear accumulates every record into its (player, year) bucket.
// The result does not depend on record order. Records with invalid attempts
// are skipped.
func PlayerYear(records []model.ResultRecord) *model.PlayerYearTable {
	tbl := model.NewPlayerYearTable()
	for _, r := range records {
		if !r.Attempts.Valid() {
			continue
		}
		tbl.GetOrCreate(model.PlayerYearKey{Player: r.Player, Year: r.Year}).Add(r.Attempts)
	}
	return tbl
}

// puzzleKey identifies one daily puzzle within a calendar year.
type puzzleKey struct {
	year   int
	puzzle int
}

// Dedup reports repeated (year, puzzle, player) results seen by HeadToHead.
type Dedup struct {
	// Overwritten counts earlier records replaced by a later one for the same key.
	Overwritten int
}

// HeadToHead tallies, per year, which member of pair solved each shared
// puzzle in fewer guesses. A failure ranks below six guesses; equal ranks tie.
// When a player posted the same puzzle more than once in a year, the last
// record in input order is the one compared.
func HeadToHead(records []model.ResultRecord, pair model.Pair) (*model.HeadToHeadTable, Dedup) {
	var dedup Dedup
	puzzles := make(map[puzzleKey]map[string]int)
	order := make([]puzzleKey, 0)
	for _, r := range records {
		if !r.Attempts.Valid() {
			continue
		}
		k := puzzleKey{year: r.Year, puzzle: r.PuzzleNumber}
		players, ok := puzzles[k]
		if !ok {
			players = make(map[string]int)
			puzzles[k] = players
			order = append(order, k)
		}
		if _, seen := players[r.Player]; seen {
			dedup.Overwritten++
		}
		players[r.Player] = r.Attempts.Rank()
	}

	tbl := model.NewHeadToHeadTable(pair)
	for _, k := range order {
		players := puzzles[k]
		first, ok1 := players[pair.First]
		second, ok2 := players[pair.Second]
		if !ok1 || !ok2 {
			continue
		}
		s := tbl.GetOrCreate(k.year)
		switch {
		case first < second:
			s.FirstWins++
		case second < first:
			s.SecondWins++
		default:
			s.Ties++
		}
	}
	return tbl, dedup
}

// Distribution is a player's attempts histogram summed over all years.
type Distribution struct {
	Player string
	Wins   [model.MaxAttempts + 1]int // Wins[n] counts wins in n guesses
	Losses int
}

// Distributions sums each player's yearly buckets, players in name order.
func Distributions(tbl *model.PlayerYearTable) []Distribution {
	var out []Distribution
	for _, p := range tbl.Players() {
		d := Distribution{Player: p}
		for _, y := range tbl.Years(p) {
			s := tbl.Get(model.PlayerYearKey{Player: p, Year: y})
			for n := 1; n <= model.MaxAttempts; n++ {
				d.Wins[n] += s.Distribution[n]
			}
			d.Losses += s.Losses
		}
		out = append(out, d)
	}
	return out
}
