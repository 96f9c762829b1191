// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pdiddy/sdg-engine/pkg/types"
)

// auroraAPIBase is the Aurora SDG classifier endpoint prefix. The model
// name is appended to form the full URL.
var auroraAPIBase = "https://aurora-sdg.labs.vu.nl/classifier/classify/"

// AuroraClassifier scores text against the 17 SDGs via the Aurora
// multi-label classifier service.
type AuroraClassifier struct {
	Client *http.Client
	// BaseURL overrides the default service endpoint when set.
	BaseURL   string
	UserAgent string
}

type auroraRequest struct {
	Text string `json:"text"`
}

type auroraResponse struct {
	Predictions []struct {
		SDG struct {
			Code string `json:"code"`
		} `json:"sdg"`
		Prediction float64 `json:"prediction"`
	} `json:"predictions"`
}

// Classify POSTs text to the classifier and returns a score per goal.
func (a *AuroraClassifier) Classify(ctx context.Context, text, modelID string) (types.SDGScores, error) {
	body, err := json.Marshal(auroraRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	base := a.BaseURL
	if base == "" {
		base = auroraAPIBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+modelID, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", a.UserAgent)

	// POST bodies are consumed on send, so the shared retry helper does
	// not apply here.
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned HTTP %d", resp.StatusCode)
	}

	var parsed auroraResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing classifier response: %w", err)
	}
	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("classifier returned no predictions")
	}

	scores := make(types.SDGScores, len(parsed.Predictions))
	for _, p := range parsed.Predictions {
		goal, err := strconv.Atoi(p.SDG.Code)
		if err != nil || goal < 1 || goal > types.NumGoals {
			continue
		}
		scores[goal] = p.Prediction
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("classifier returned no usable goal codes")
	}
	return scores, nil
}
