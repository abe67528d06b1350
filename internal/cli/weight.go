package cli

import (
	"context"
	"time"

	"github.com/julianstephens/dailylog/internal/tui"
	"github.com/julianstephens/dailylog/internal/weight"
)

type WeightCmd struct {
	Add  WeightAddCmd  `cmd:"" help:"Record a weight reading."`
	List WeightListCmd `cmd:"" help:"Show the weight chart and entries." default:"1"`
}

type WeightAddCmd struct {
	Value float64 `arg:"" help:"Weight in kg."`
	Date  string  `help:"Date of the reading (YYYY-MM-DD). Defaults to today."`
}

func (cmd *WeightAddCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	var recordedAt *time.Time
	if cmd.Date != "" {
		d, err := ParseDate(cmd.Date, ctx.Today())
		if err != nil {
			return err
		}
		recordedAt = &d
	}

	entry, err := ctx.Client.RecordWeight(context.Background(), cmd.Value, recordedAt)
	if err != nil {
		return err
	}

	var when *time.Time
	if entry.Dated() {
		when = &entry.RecordedAt.Time
	}
	ctx.printf("✓ Recorded %s (%s)\n", FormatKg(entry.ValueKg), dateLabel(when))
	return nil
}

type WeightListCmd struct {
	Width  int `help:"Chart width in columns." default:"48"`
	Height int `help:"Chart height in rows." default:"10"`
}

func (cmd *WeightListCmd) Run(ctx *Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	entries, err := ctx.Client.ListWeights(context.Background())
	if err != nil {
		return err
	}
	chart := weight.BuildChart(entries, sess.Profile)

	ctx.printf("Current: %s   Target: %s\n\n", FormatKg(chart.Current), FormatKg(chart.Target))
	if len(chart.Points) > 0 {
		for _, line := range tui.Plot(chart, cmd.Width, cmd.Height) {
			ctx.printf("%s\n", line)
		}
		ctx.printf("\n")
	}

	if len(chart.Entries) == 0 {
		ctx.printf("No weight entries yet. Add one with 'dailylog weight add <kg>'.\n")
		return nil
	}
	ctx.printf("Entries\n")
	for _, e := range chart.Newest() {
		var when *time.Time
		if e.Dated() {
			when = &e.RecordedAt.Time
		}
		ctx.printf("  %-10s  %s\n", dateLabel(when), FormatKg(e.ValueKg))
	}
	return nil
}
