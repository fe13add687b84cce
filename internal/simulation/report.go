package simulation

import (
	"fmt"
	"strings"
	"time"
)

// ConsoleReport formats a snapshot for terminal output
func ConsoleReport(snap *Snapshot) string {
	var builder strings.Builder
	builder.WriteString("Wildcard Weekend Report\n")
	builder.WriteString("=======================\n")
	builder.WriteString(fmt.Sprintf("Simulations: %d\n", snap.Simulations))
	builder.WriteString(fmt.Sprintf("Generated: %s\n\n", snap.GeneratedAt.Format(time.RFC1123)))

	builder.WriteString(fmt.Sprintf("%-18s %7s %9s %11s %6s\n", "OWNER", "WIN%", "CURRENT", "PROJECTED", "MINS"))
	for _, o := range snap.Owners {
		builder.WriteString(fmt.Sprintf("%-18s %6.1f%% %9.1f %11.1f %6d\n",
			o.Name, o.WinProbability*100, o.CurrentPts, o.ProjectedPts, o.MinutesRemaining))
	}

	builder.WriteString("\nGames\n")
	for _, g := range snap.Games {
		builder.WriteString(fmt.Sprintf("%-12s %3d-%-3d  %-9s %6s  o/u %g\n",
			g.Matchup, g.AwayScore, g.HomeScore, g.Status, g.Spread, g.OverUnder))
	}

	return builder.String()
}
