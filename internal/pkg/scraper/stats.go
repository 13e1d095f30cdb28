package scraper

import (
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uilive"
	"github.com/gosuri/uitable"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/frontier"
)

// QueueStats return the pipeline's accounting snapshot
func (s *Scraper) QueueStats() frontier.Stats {
	return s.Frontier.GetStats()
}

// PrintLiveStats refresh a terminal table with the pipeline's counters
// until the job finishes
func (s *Scraper) PrintLiveStats() {
	var m runtime.MemStats

	writer := uilive.New()
	writer.Start()

	for !s.Finished.Get() {
		runtime.ReadMemStats(&m)
		stats := s.QueueStats()

		table := uitable.New()
		table.MaxColWidth = 80
		table.Wrap = true

		table.AddRow("", "")
		table.AddRow("  - Job:", s.Config.Job)
		table.AddRow("  - Discovered:", humanize.Comma(stats.Discovered))
		table.AddRow("  - Pending:", humanize.Comma(stats.Pending))
		table.AddRow("  - Processed:", humanize.Comma(stats.Processed))
		table.AddRow("  - Skipped:", humanize.Comma(stats.Skipped))
		table.AddRow("  - Failed:", humanize.Comma(stats.Failed))
		table.AddRow("  - IDs/s:", s.IDsPerSecond.Rate())
		table.AddRow("  - Enriched/min:", stats.RatePerMinute)
		table.AddRow("  - ETA:", formatETA(stats))
		table.AddRow("  - Active workers:", s.ActiveWorkers.Value())
		table.AddRow("", "")
		table.AddRow("  - Elapsed:", time.Since(s.StartTime).Truncate(time.Second))
		table.AddRow("  - Allocated (heap):", humanize.Bytes(m.Alloc))
		table.AddRow("  - Goroutines:", runtime.NumGoroutine())
		table.AddRow("", "")

		fmt.Fprintln(writer, table.String())
		writer.Flush()
		time.Sleep(time.Second * 1)
	}

	writer.Stop()
}

func formatETA(stats frontier.Stats) string {
	if stats.EstimatedCompletion == 0 {
		return "-"
	}

	return stats.EstimatedCompletion.Truncate(time.Second).String()
}
