// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NumGoals is the number of Sustainable Development Goals.
const NumGoals = 17

// SDGScores maps a Sustainable Development Goal (1..17) to a model
// confidence in [0, 1]. A nil map means the record was not classified
// (text below the model's minimum length, or classification failed).
type SDGScores map[int]float64

// Top returns the goal with the highest confidence, or (0, 0) when the
// vector is empty. Ties resolve to the lowest goal number so output is
// deterministic.
func (s SDGScores) Top() (goal int, score float64) {
	for g := 1; g <= NumGoals; g++ {
		if v, ok := s[g]; ok && v > score {
			goal, score = g, v
		}
	}
	return goal, score
}

// Model describes one entry in the SDG classifier model catalog.
type Model struct {
	// ID is the model identifier sent to the classifier API
	// (e.g. "aurora-sdg-multi").
	ID string `json:"id" yaml:"id"`

	// MinLength is the minimum normalized-text length (in bytes) the
	// model accepts. Shorter inputs are skipped without an API call and
	// the skip is memoized. Zero disables the policy.
	MinLength int `json:"min_length,omitempty" yaml:"min_length,omitempty"`
}
