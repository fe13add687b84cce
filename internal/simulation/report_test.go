package simulation

import (
	"strings"
	"testing"
)

func TestConsoleReport(t *testing.T) {
	games, owners, result := snapshotFixture()
	report := ConsoleReport(BuildSnapshot(games, owners, result))

	for _, want := range []string{
		"Simulations: 10000",
		"Alice",
		"62.0%",
		"GB @ CHI",
		"Q3 4:12",
		"o/u 45.5",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}

	// Alice leads, so her row comes first.
	if strings.Index(report, "Alice") > strings.Index(report, "Bob") {
		t.Fatal("owners not listed in probability order")
	}
}
