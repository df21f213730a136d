package tally

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squeng/fixadat/pkg/domain"
)

const (
	mon = "2024-01-01T10:00:00"
	tue = "2024-01-02T10:00:00"
	wed = "2024-01-03T10:00:00"
)

func vote(name string, stances map[string]domain.Availability) domain.Vote {
	keyed := make(map[string]domain.Availability, len(stances))
	for c, a := range stances {
		keyed[domain.CandidateKey(c)] = a
	}
	return domain.Vote{Name: name, Availability: keyed}
}

func TestSingleVoteMatchesByMinuteKey(t *testing.T) {
	votes := []domain.Vote{{
		Name:         "Alice",
		Availability: map[string]domain.Availability{"2024-01-01T10:00": domain.AvailabilityYes},
	}}
	columns := ColumnsAll([]string{mon}, votes)
	assert.Equal(t, []Column{{Yes: 1}}, columns)
	assert.Equal(t, Column{Yes: 1}, ColumnBest(columns))
}

func TestColumnsAll(t *testing.T) {
	votes := []domain.Vote{
		vote("Alice", map[string]domain.Availability{mon: domain.AvailabilityYes, tue: domain.AvailabilityNo}),
		vote("Bob", map[string]domain.Availability{mon: domain.AvailabilityIfNeedBe, tue: domain.AvailabilityYes, wed: domain.AvailabilityYes}),
		vote("Carol", map[string]domain.Availability{tue: domain.AvailabilityIfNeedBe}),
	}

	got := ColumnsAll([]string{mon, tue, wed}, votes)
	want := []Column{
		{Yes: 1, IfNeedBe: 1},
		{Yes: 1, IfNeedBe: 1, No: 1},
		{Yes: 1},
	}
	assert.Equal(t, want, got)

	for i, c := range got {
		assert.LessOrEqual(t, c.Total(), len(votes), "column %d", i)
	}
}

func TestColumnsAllNoVotes(t *testing.T) {
	assert.Equal(t, []Column{{}, {}}, ColumnsAll([]string{mon, tue}, nil))
	assert.Empty(t, ColumnsAll(nil, []domain.Vote{vote("A", nil)}))
}

func TestColumnBest(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		want    Column
	}{
		{"empty", nil, Column{}},
		{"higher score wins", []Column{{Yes: 1}, {Yes: 1, IfNeedBe: 1}}, Column{Yes: 1, IfNeedBe: 1}},
		{"equal score more yes wins", []Column{{Yes: 1, IfNeedBe: 1}, {Yes: 2}}, Column{Yes: 2}},
		{"equal score fewer yes loses", []Column{{Yes: 2}, {Yes: 1, IfNeedBe: 1}}, Column{Yes: 2}},
		{"no votes do not count", []Column{{No: 3}, {IfNeedBe: 1}}, Column{IfNeedBe: 1}},
		{"full tie keeps first", []Column{{Yes: 1, No: 2}, {Yes: 1}}, Column{Yes: 1, No: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnBest(tt.columns))
		})
	}
}

func TestIsBestHighlightsEqualColumns(t *testing.T) {
	columns := []Column{{Yes: 2}, {Yes: 1, IfNeedBe: 1}, {Yes: 2}}
	best := ColumnBest(columns)
	assert.True(t, IsBest(columns[0], best))
	assert.False(t, IsBest(columns[1], best))
	assert.True(t, IsBest(columns[2], best))
}

func TestIsBestNeedsSomeone(t *testing.T) {
	columns := []Column{{No: 1}, {No: 1}}
	assert.False(t, IsBest(columns[0], ColumnBest(columns)))
}

func TestReorderingVotesKeepsTally(t *testing.T) {
	candidates := []string{mon, tue, wed}
	stances := domain.Availabilities
	r := rand.New(rand.NewPCG(1, 2))

	var votes []domain.Vote
	for i := range 20 {
		m := map[string]domain.Availability{}
		for _, c := range candidates {
			if r.IntN(4) == 0 {
				continue
			}
			m[c] = stances[r.IntN(len(stances))]
		}
		votes = append(votes, vote(string(rune('A'+i)), m))
	}

	want := ColumnsAll(candidates, votes)
	for range 10 {
		shuffled := append([]domain.Vote(nil), votes...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := ColumnsAll(candidates, shuffled)
		require.Equal(t, want, got)
		require.Equal(t, ColumnBest(want), ColumnBest(got))
	}
	for _, c := range want {
		assert.LessOrEqual(t, c.Total(), len(votes))
	}
}

func TestCountSortsCandidates(t *testing.T) {
	e := domain.NewElection(nil, domain.ElectionData{
		Candidates: []string{tue, mon},
		Votes:      []domain.Vote{vote("A", map[string]domain.Availability{tue: domain.AvailabilityYes})},
	}, "t", "")

	got := Count(e)
	assert.Equal(t, []string{mon, tue}, got.Candidates)
	assert.Equal(t, []Column{{}, {Yes: 1}}, got.Columns)
	assert.Equal(t, []string{tue}, got.BestCandidates())
}
