package history

import (
	"math"
	"sort"
)

// CommandCount pairs a command name with its occurrence count.
type CommandCount struct {
	Command string `json:"command"`
	Count   int    `json:"count"`
}

// Statistics summarizes the non-excluded journal, per spec §4.5.
type Statistics struct {
	TotalCommands    int            `json:"totalCommands"`
	UniqueCommands   int            `json:"uniqueCommands"`
	SuccessRate      float64        `json:"successRate"`
	AverageDuration  float64        `json:"averageDuration"`
	MostUsedCommands []CommandCount `json:"mostUsedCommands"`
}

// GetStatistics computes Statistics over the current journal. Excluded
// entries never enter the journal in the first place, so every stored
// entry counts.
func (s *Store) GetStatistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.entries)
	if total == 0 {
		return Statistics{}
	}

	counts := make(map[string]int)
	successCount := 0
	var durationSum float64
	for _, e := range s.entries {
		counts[e.Command]++
		if e.Success {
			successCount++
		}
		durationSum += e.Duration
	}

	mostUsed := make([]CommandCount, 0, len(counts))
	for cmd, n := range counts {
		mostUsed = append(mostUsed, CommandCount{Command: cmd, Count: n})
	}
	sort.Slice(mostUsed, func(i, j int) bool {
		if mostUsed[i].Count != mostUsed[j].Count {
			return mostUsed[i].Count > mostUsed[j].Count
		}
		return mostUsed[i].Command < mostUsed[j].Command
	})
	if len(mostUsed) > 10 {
		mostUsed = mostUsed[:10]
	}

	return Statistics{
		TotalCommands:    total,
		UniqueCommands:   len(counts),
		SuccessRate:      round2(100 * float64(successCount) / float64(total)),
		AverageDuration:  round2(durationSum / float64(total)),
		MostUsedCommands: mostUsed,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
