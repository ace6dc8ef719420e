package scoring

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// RenderScorecard writes a plain-text scorecard for every innings in m.
func RenderScorecard(w io.Writer, m ExportedMatch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, inn := range m.Innings {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		writeInnings(tw, inn)
	}
	if m.Result != nil {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "Result: %s\n", m.Result.Message)
	}
	return tw.Flush()
}

func writeInnings(w io.Writer, inn *Innings) {
	fmt.Fprintf(w, "Innings %d: %s %d/%d (%.1f ov, RR %.2f)\n",
		inn.Number, inn.BattingTeam.DisplayName(), inn.Runs, inn.Wickets, inn.Overs, inn.RunRate)
	if inn.Target != nil {
		fmt.Fprintf(w, "Target %d\n", *inn.Target)
	}

	fmt.Fprintln(w, "Batter\tStatus\tR\tB\t4s\t6s\tSR")
	for _, id := range inn.BattingOrder {
		b, ok := inn.Batsmen[id]
		if !ok {
			continue
		}
		status := "not out"
		if b.IsOut {
			status = strings.ReplaceAll(string(b.HowOut), "_", " ")
			if status == "" {
				status = "out"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.2f\n",
			displayName(b.Player), status, b.Runs, b.Balls, b.Fours, b.Sixes, b.StrikeRate)
	}
	e := inn.Extras
	fmt.Fprintf(w, "Extras: %d (w %d, nb %d, b %d, lb %d)\n", e.Total, e.Wides, e.NoBalls, e.Byes, e.LegByes)

	fmt.Fprintln(w, "Bowler\tO\tM\tR\tW\tEcon")
	for _, id := range inn.BowlingOrder {
		b, ok := inn.Bowlers[id]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%d\t%d\t%.2f\n",
			displayName(b.Player), b.Overs, b.Maidens, b.Runs, b.Wickets, b.Economy)
	}

	if len(inn.FallOfWickets) > 0 {
		parts := make([]string, 0, len(inn.FallOfWickets))
		for _, f := range inn.FallOfWickets {
			parts = append(parts, fmt.Sprintf("%d-%d (%s, %.1f)", f.Wicket, f.Score, displayName(f.Player), f.Overs))
		}
		fmt.Fprintf(w, "FoW: %s\n", strings.Join(parts, ", "))
	}
}

func displayName(p Player) string {
	if p.Name != "" {
		return p.Name
	}
	return string(p.ID)
}
