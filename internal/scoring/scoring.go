// Package scoring computes report credibility from six independent signals.
// Each component scores 0-3; the total (0-18) maps to a tier: >=12 high,
// 7-11 medium, <=6 low. The tier mapping is a pure function of the total.
package scoring

import (
	"regexp"
	"strings"
	"time"

	"github.com/ampmbg/backend/internal/models"
)

const (
	ComponentMax = 3
	TotalMax     = 18

	highThreshold   = 12
	mediumThreshold = 7
)

// Input gathers every signal the engine reads. Cross-report signals
// (reporter history, corroboration) are resolved by the caller so the engine
// itself stays free of I/O.
type Input struct {
	Relation     string
	ProvinceID   string
	CityID       string
	DistrictID   string
	Location     string
	IncidentDate time.Time
	SubmittedAt  time.Time
	Description  string
	FileCount    int

	// Reporter's prior reports, excluding the one being scored.
	PriorReports  int
	PriorResolved int
	PriorInvalid  int

	// Independent reports describing what looks like the same incident
	// (same city and category, incident dates within a week).
	Corroborating int
}

type Component struct {
	Value int    `json:"value"`
	Max   int    `json:"max"`
	Label string `json:"label"`
}

type Result struct {
	Relation        Component `json:"scoreRelation"`
	LocationTime    Component `json:"scoreLocationTime"`
	Evidence        Component `json:"scoreEvidence"`
	Narrative       Component `json:"scoreNarrative"`
	ReporterHistory Component `json:"scoreReporterHistory"`
	Similarity      Component `json:"scoreSimilarity"`
	TotalScore      int       `json:"totalScore"`
	Tier            string    `json:"credibilityLevel"`
}

// Shouted words push a description toward spam, as do long runs of a single
// letter or punctuation mark (detected by hasRepeatedRun).
var allCapsPattern = regexp.MustCompile(`[A-Z]{5,}`)

// Score evaluates all six components and classifies the total.
func Score(in Input) Result {
	relation := scoreRelation(in.Relation)
	locTime := scoreLocationTime(in)
	evidence := clamp(in.FileCount)
	narrative := scoreNarrative(in.Description)
	history := scoreReporterHistory(in)
	similarity := clamp(in.Corroborating)

	total := relation + locTime + evidence + narrative + history + similarity

	return Result{
		Relation:        Component{relation, ComponentMax, "Hubungan pelapor dengan program"},
		LocationTime:    Component{locTime, ComponentMax, "Validitas lokasi dan waktu"},
		Evidence:        Component{evidence, ComponentMax, "Kelengkapan bukti pendukung"},
		Narrative:       Component{narrative, ComponentMax, "Konsistensi narasi"},
		ReporterHistory: Component{history, ComponentMax, "Riwayat pelapor"},
		Similarity:      Component{similarity, ComponentMax, "Kemiripan dengan laporan lain"},
		TotalScore:      total,
		Tier:            Tier(total),
	}
}

// Tier maps a total score to the three-level classification.
func Tier(total int) string {
	switch {
	case total >= highThreshold:
		return models.CredibilityHigh
	case total >= mediumThreshold:
		return models.CredibilityMedium
	default:
		return models.CredibilityLow
	}
}

// Firsthand school roles outrank secondhand ones; generic community reports
// carry the least weight.
func scoreRelation(relation string) int {
	switch relation {
	case "student", "teacher", "principal":
		return 3
	case "parent", "supplier":
		return 2
	case "community":
		return 1
	default:
		return 0
	}
}

func scoreLocationTime(in Input) int {
	score := 0
	if in.ProvinceID != "" && in.CityID != "" {
		score++
	}
	if in.DistrictID != "" || in.Location != "" {
		score++
	}
	// A usable incident time is not in the future and not stale.
	if !in.IncidentDate.After(in.SubmittedAt) &&
		in.SubmittedAt.Sub(in.IncidentDate) <= 90*24*time.Hour {
		score++
	}
	return score
}

func scoreNarrative(description string) int {
	length := len([]rune(description))
	if length < 50 {
		return 0
	}

	score := 1
	if length >= 200 {
		score = 2
	}

	noisy := hasRepeatedRun(description) ||
		len(allCapsPattern.FindAllString(description, -1)) > 2
	if !noisy {
		score++
	}
	return score
}

// hasRepeatedRun reports whether the text contains four or more identical
// letters or punctuation marks in a row, case-insensitively.
func hasRepeatedRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range strings.ToLower(text) {
		if r != prev {
			prev = r
			run = 1
			continue
		}
		run++
		if run >= 4 && isNoiseRune(r) {
			return true
		}
	}
	return false
}

func isNoiseRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == '!' || r == '?' || r == '.'
}

func scoreReporterHistory(in Input) int {
	if in.PriorInvalid > 0 {
		return 0
	}
	switch {
	case in.PriorResolved >= 2:
		return 3
	case in.PriorResolved == 1:
		return 2
	default:
		// First-time reporters and reporters with only open priors.
		return 1
	}
}

func clamp(n int) int {
	if n > ComponentMax {
		return ComponentMax
	}
	if n < 0 {
		return 0
	}
	return n
}
