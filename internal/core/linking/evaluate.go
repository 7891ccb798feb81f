package linking

type CaseResult struct {
	ID        string   `json:"id"`
	Expected  []string `json:"expected"`
	Predicted []string `json:"predicted"`
	Missing   []string `json:"missing,omitempty"`
	Passed    bool     `json:"passed"`
}

type Report struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Total  int          `json:"total"`
}

func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// Evaluate passes a case when every expected id was predicted. Extra
// predictions are not penalized. Cases without a prediction count as empty.
func Evaluate(gold []GoldCase, preds *Predictions) Report {
	rep := Report{Cases: make([]CaseResult, 0, len(gold))}
	for _, g := range gold {
		predicted, _ := preds.Get(g.ID)
		if predicted == nil {
			predicted = []string{}
		}
		seen := make(map[string]struct{}, len(predicted))
		for _, id := range predicted {
			seen[id] = struct{}{}
		}

		res := CaseResult{ID: g.ID, Expected: g.Expected, Predicted: predicted}
		for _, id := range g.Expected {
			if _, ok := seen[id]; !ok {
				res.Missing = append(res.Missing, id)
			}
		}
		res.Passed = len(res.Missing) == 0
		if res.Passed {
			rep.Passed++
		}
		rep.Total++
		rep.Cases = append(rep.Cases, res)
	}
	return rep
}
