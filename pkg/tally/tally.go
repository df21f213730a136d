// Package tally counts votes per candidate and picks the best candidate.
package tally

import "github.com/squeng/fixadat/pkg/domain"

// Column is the vote count for one candidate.
type Column struct {
	Yes      int
	IfNeedBe int
	No       int
}

// Total is the number of votes that took a stance on the candidate.
func (c Column) Total() int {
	return c.Yes + c.IfNeedBe + c.No
}

// Score is the number of voters who could make it.
func (c Column) Score() int {
	return c.Yes + c.IfNeedBe
}

// beats reports whether c ranks strictly above other.
func (c Column) beats(other Column) bool {
	if c.Score() != other.Score() {
		return c.Score() > other.Score()
	}
	return c.Yes > other.Yes
}

// ColumnsAll counts every vote per candidate. A vote is matched to a candidate
// by minute key; a vote without a stance on a candidate is not counted for it.
func ColumnsAll(candidates []string, votes []domain.Vote) []Column {
	columns := make([]Column, len(candidates))
	for i, c := range candidates {
		for _, v := range votes {
			a, ok := v.For(c)
			if !ok {
				continue
			}
			switch a {
			case domain.AvailabilityYes:
				columns[i].Yes++
			case domain.AvailabilityIfNeedBe:
				columns[i].IfNeedBe++
			case domain.AvailabilityNo:
				columns[i].No++
			}
		}
	}
	return columns
}

// ColumnBest returns the best column. Ties keep the earlier column, and an
// empty slice yields the zero column.
func ColumnBest(columns []Column) Column {
	var best Column
	for i, c := range columns {
		if i == 0 || c.beats(best) {
			best = c
		}
	}
	return best
}

// IsBest reports whether column equals best and best has at least one voter
// who could make it. Every column equal to best is highlighted.
func IsBest(column, best Column) bool {
	return best.Score() > 0 && column == best
}

// Tally is the counted state of an election.
type Tally struct {
	Candidates []string
	Columns    []Column
	Best       Column
}

// Count sorts the election's candidates and counts its votes.
func Count(e *domain.Election) Tally {
	candidates := e.SortedCandidates()
	columns := ColumnsAll(candidates, e.Votes)
	return Tally{Candidates: candidates, Columns: columns, Best: ColumnBest(columns)}
}

// BestCandidates lists the candidates whose column is best.
func (t Tally) BestCandidates() []string {
	var out []string
	for i, c := range t.Columns {
		if IsBest(c, t.Best) {
			out = append(out, t.Candidates[i])
		}
	}
	return out
}
