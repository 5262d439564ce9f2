package engine

import (
	"math"
	"sort"

	"typetracker/internal/models"
)

// TopN is how many entries the problem-key and problem-word rankings return
const TopN = 10

// KeyCount is one entry of the problem-key ranking
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// WordCount is one entry of the problem-word ranking
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ProblemKeys sums per-character error counts across the history and returns
// the top entries, descending by count. Ties keep first-seen order; within a
// single record keys are visited alphabetically so the fold is deterministic.
func ProblemKeys(history []models.Race) []KeyCount {
	counts := make(map[string]int)
	var order []string
	for _, race := range history {
		keys := make([]string, 0, len(race.Errors))
		for key := range race.Errors {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key] += race.Errors[key]
		}
	}

	ranking := make([]KeyCount, 0, len(order))
	for _, key := range order {
		ranking = append(ranking, KeyCount{Key: key, Count: counts[key]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	if len(ranking) > TopN {
		ranking = ranking[:TopN]
	}
	return ranking
}

// ProblemWords counts missed-word occurrences across the history and returns
// the top entries, descending by count with first-seen order breaking ties.
func ProblemWords(history []models.Race) []WordCount {
	counts := make(map[string]int)
	var order []string
	for _, race := range history {
		for _, word := range race.MissedWords {
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	ranking := make([]WordCount, 0, len(order))
	for _, word := range order {
		ranking = append(ranking, WordCount{Word: word, Count: counts[word]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	if len(ranking) > TopN {
		ranking = ranking[:TopN]
	}
	return ranking
}

// Summarize folds the history into averages for the stats view
func Summarize(history []models.Race) models.RaceSummary {
	if len(history) == 0 {
		return models.RaceSummary{}
	}
	var wpmTotal, accTotal int
	for _, race := range history {
		wpmTotal += race.WPM
		accTotal += race.Accuracy
	}
	n := float64(len(history))
	return models.RaceSummary{
		AverageWPM:      int(math.Round(float64(wpmTotal) / n)),
		AverageAccuracy: int(math.Round(float64(accTotal) / n)),
		GamesPlayed:     len(history),
	}
}
