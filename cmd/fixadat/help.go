package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var commands = []struct{ cmd, desc string }{
	{"fixadat new", "Create an election and open it"},
	{"fixadat event new", "Create an event and open it"},
	{"fixadat open <link>", "Open an election or event link"},
	{"fixadat tally <link>", "Print the votes of an election"},
	{"fixadat links <link>", "Print share links and copy the public one"},
	{"fixadat list", "Show the links you created"},
	{"fixadat --version", "Show version"},
	{"fixadat help", "You are here"},
}

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80")).
		Bold(true).
		Render("F I X A D A T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Find a date. Throw a party.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Fprintf(w, "\n  %s\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("Settings: ~/.fixadat/config.yml or FIXADAT_* variables")
	fmt.Fprintf(w, "\n  %s\n\n", env)
}
