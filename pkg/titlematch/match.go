package titlematch

import (
	"github.com/hbollon/go-edlib"
)

// Confidence grades a match score.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // score < 0.70
	ConfidenceLow                      // score >= 0.70
	ConfidenceMedium                   // score >= 0.85
	ConfidenceHigh                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Candidate is a catalog entry to compare against. Year is 0 when unknown.
type Candidate struct {
	Title string
	Year  int
}

// Result is the best candidate found by Match. Index is -1 when nothing matched.
type Result struct {
	Index      int
	Title      string
	Score      float64
	Confidence Confidence
}

// Match returns the candidate closest to title by Jaro-Winkler similarity of the
// cleaned titles. When year is non-zero, candidates from the same year get a small
// bonus and candidates from another year a penalty. Earlier candidates win ties,
// which keeps the catalog's relevance order.
func Match(title string, year int, candidates []Candidate) Result {
	best := Result{Index: -1}
	if len(candidates) == 0 {
		return best
	}

	cleaned := CleanTitle(title)
	for i, c := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(cleaned, CleanTitle(c.Title)))
		score = adjustForYear(score, year, c.Year)
		if score > best.Score {
			best = Result{Index: i, Title: c.Title, Score: score}
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		return Result{Index: -1, Score: best.Score}
	}
	return best
}

func adjustForYear(score float64, want, got int) float64 {
	if want == 0 || got == 0 {
		return score
	}
	if want == got {
		return min(score*1.05, 1.0)
	}
	return score * 0.90
}
