package huggingface

// classifyRequest is the zero-shot classification request body. The model
// scores the input text against each candidate label; multi_label scores
// labels independently so several symptoms can match one message.
type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
}

type classifyParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

// classifyResponse is the zero-shot classification response. Labels and
// Scores are parallel slices, best label first.
type classifyResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Classification is one candidate label with its score.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
