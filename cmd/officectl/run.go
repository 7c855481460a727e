package main

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"officesim-backend/internal/layout"
	"officesim-backend/internal/office"
)

// DaySummary describes one simulated day.
type DaySummary struct {
	Day              int     `json:"day"`
	Events           int     `json:"events"`
	PeakDesksInUse   int     `json:"peak_desks_in_use"`
	PeakInMeetings   int     `json:"peak_in_meetings"`
	DesksFreed       int     `json:"desks_freed"`
	Frustrations     int     `json:"frustrations"`
	FrustratedAtEnd  int     `json:"frustrated_at_end"`
	WanderingAtEnd   int     `json:"wandering_at_end"`
	AtAssignedDesk   int     `json:"at_assigned_desk"`
	AvgSearchRetries float64 `json:"avg_search_retries"`
}

// dayCounter counts observer callbacks for the current day.
type dayCounter struct {
	freed      int
	frustrated int
}

func (d *dayCounter) DeskFreed(string)        { d.freed++ }
func (d *dayCounter) WorkerFrustrated(string) { d.frustrated++ }

type runOptions struct {
	Workers int
	Desks   int
	Spaces  int
	Days    int
	Ticks   int
	Managed bool
	Seed    uint64
	Layout  string
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate whole days and print a summary per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := runOptions{
				Workers: viper.GetInt("workers"),
				Desks:   viper.GetInt("desks"),
				Spaces:  viper.GetInt("spaces"),
				Days:    viper.GetInt("days"),
				Ticks:   viper.GetInt("ticks"),
				Managed: viper.GetBool("managed"),
				Seed:    viper.GetUint64("seed"),
				Layout:  viper.GetString("layout"),
			}

			sim := cfg.Simulation
			if opts.Workers > 0 {
				sim.WorkerCount = opts.Workers
			}
			if opts.Desks > 0 {
				sim.DeskCount = opts.Desks
			}
			if opts.Spaces > 0 {
				sim.SpaceCount = opts.Spaces
			}
			if opts.Layout != "" {
				sim.LayoutPath = opts.Layout
			}
			sim.Managed = sim.Managed || opts.Managed
			if opts.Seed != 0 {
				sim.Seed = opts.Seed
			}

			var l office.Layout
			if sim.LayoutPath != "" {
				if l, err = layout.Load(sim.LayoutPath); err != nil {
					return err
				}
			} else {
				l = office.GenerateLayout(sim.Width, sim.Height, sim.DeskCount, sim.SpaceCount)
			}

			oc := sim.Office()
			dt := sim.TimePerTick
			if opts.Ticks > 0 {
				dt = oc.DayDuration / float64(opts.Ticks)
			}

			days, err := simulateDays(oc, l, sim.WorkerCount, opts.Days, dt)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), days)
			}
			renderDays(cmd.OutOrStdout(), days, oc.Managed)
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "number of workers (default from config)")
	cmd.Flags().Int("desks", 0, "desks on a generated floor plan")
	cmd.Flags().Int("spaces", 0, "meeting spaces on a generated floor plan")
	cmd.Flags().Int("days", 1, "days to simulate")
	cmd.Flags().Int("ticks", 0, "ticks per day (default from time_per_tick)")
	cmd.Flags().Bool("managed", false, "assign every worker a desk")
	cmd.Flags().Uint64("seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().String("layout", "", "floor plan file (.json or .json.zst)")
	for _, name := range []string{"workers", "desks", "spaces", "days", "ticks", "managed", "seed", "layout"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

// simulateDays steps a fresh office through days full days of dt-sized ticks.
func simulateDays(cfg office.Config, l office.Layout, workers, days int, dt float64) ([]DaySummary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("time per tick must be positive, got %v", dt)
	}

	counter := &dayCounter{}
	m, err := office.New(cfg, l, office.WithObserver(counter))
	if err != nil {
		return nil, err
	}
	if err := m.InitializeOffice(workers); err != nil {
		return nil, err
	}

	out := make([]DaySummary, 0, days)
	for len(out) < days {
		snap := m.Snapshot()
		sum := DaySummary{Day: m.Day(), Events: len(snap.Events)}
		*counter = dayCounter{}

		for {
			stats := snap.Stats()
			sum.PeakDesksInUse = max(sum.PeakDesksInUse, desksInUse(snap))
			sum.PeakInMeetings = max(sum.PeakInMeetings, stats.Workers[office.StateAttendingEvent])

			// the last tick before the clock reaches the end of the day
			if m.CurrentTime()+dt >= cfg.DayDuration {
				sum.FrustratedAtEnd = stats.Moods[office.MoodFrustrated]
				sum.WanderingAtEnd = stats.Workers[office.StateWandering]
				sum.AtAssignedDesk = stats.AtAssignedDesk
				sum.AvgSearchRetries = avgRetries(snap)
				break
			}
			m.Step(dt)
			snap = m.Snapshot()
		}

		sum.DesksFreed = counter.freed
		sum.Frustrations = counter.frustrated
		out = append(out, sum)
		m.Step(dt)
	}
	return out, nil
}

func desksInUse(s office.Snapshot) int {
	n := 0
	for _, w := range s.Workers {
		if w.Desk.CurrentID != "" {
			n++
		}
	}
	return n
}

func avgRetries(s office.Snapshot) float64 {
	if len(s.Workers) == 0 {
		return 0
	}
	total := 0
	for _, w := range s.Workers {
		total += w.DeskSearchAttempts
	}
	return math.Round(float64(total)/float64(len(s.Workers))*100) / 100
}

func renderDays(w io.Writer, days []DaySummary, managed bool) {
	mode := "chaotic"
	if managed {
		mode = "managed"
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(fmt.Sprintf("Office simulation (%s)", mode))
	tw.AppendHeader(table.Row{"Day", "Events", "Peak desks", "Peak meetings", "Desks freed", "Frustrations", "Frustrated at end", "Wandering at end", "At own desk", "Avg retries"})
	for _, d := range days {
		tw.AppendRow(table.Row{d.Day, d.Events, d.PeakDesksInUse, d.PeakInMeetings, d.DesksFreed, d.Frustrations, d.FrustratedAtEnd, d.WanderingAtEnd, d.AtAssignedDesk, d.AvgSearchRetries})
	}
	tw.Render()
}
