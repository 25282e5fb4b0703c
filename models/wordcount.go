package models

// RunRequest is the body of POST /run.
type RunRequest struct {
	Text string `json:"text"`
}

// RunResponse is returned once both phases of a job have completed.
type RunResponse struct {
	JobID      string `json:"job_id" yaml:"job_id"`
	TotalWords int    `json:"total_words" yaml:"total_words"`
}

// WordCount is one ranked entry of a job's totals.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// ResultResponse is the body of GET /result/{job_id}.
type ResultResponse struct {
	JobID    string      `json:"job_id" yaml:"job_id"`
	TopWords []WordCount `json:"top_words" yaml:"top_words"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse carries a human-readable failure detail.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
