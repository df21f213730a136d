package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/squeng/fixadat/pkg/domain"
	"github.com/squeng/fixadat/pkg/tally"
)

func (c *cli) printTally(ctx context.Context, link domain.Link) error {
	if link.Kind != domain.LinkElection {
		return errors.New("tally needs an election link")
	}
	if link.Token == "" {
		return errors.New("the link has no token")
	}
	e, err := domain.RecreateElection(ctx, c.clientFor(link), link.ID, link.Token, c.zone(link))
	if err != nil {
		return fmt.Errorf("load election: %w", err)
	}
	writeTally(c.out, e)
	return nil
}

// writeTally prints one row per candidate, best rows starred.
func writeTally(w io.Writer, e *domain.Election) {
	t := tally.Count(e)
	name := e.Name
	if name == "" {
		name = "(untitled)"
	}
	fmt.Fprintf(w, "%s  %d votes, times in %s\n", color.New(color.Bold).Sprint(name), len(e.Votes), e.ViewTimeZone())
	if len(t.Candidates) == 0 {
		fmt.Fprintln(w, "No dates yet.")
		return
	}
	fmt.Fprintf(w, "  %-22s %4s %4s %4s\n", "", "yes", "ifnb", "no")
	for i, cand := range t.Candidates {
		col := t.Columns[i]
		mark, line := " ", fmt.Sprintf("%-22s %4d %4d %4d", candidateLabel(cand), col.Yes, col.IfNeedBe, col.No)
		if tally.IsBest(col, t.Best) {
			mark, line = color.YellowString("*"), color.GreenString(line)
		}
		fmt.Fprintf(w, "%s %s\n", mark, line)
	}
}

func candidateLabel(c string) string {
	t, err := domain.ParseCandidate(c)
	if err != nil {
		return c
	}
	return t.Format("Mon 02 Jan 2006 15:04")
}
