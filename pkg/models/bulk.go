package models

// RowError pairs a failed input row with the reason it failed. Row keeps the
// raw field values as read from the file.
type RowError struct {
	Line  int               `json:"line"`
	Row   map[string]string `json:"row"`
	Error string            `json:"error"`
	Kind  string            `json:"kind"`
}

type BatchSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

type BatchResult struct {
	Message string       `json:"message"`
	Summary BatchSummary `json:"summary"`
	Results []any        `json:"results"`
	Errors  []RowError   `json:"errors"`
}

// CSVTemplate is a downloadable example file for one import kind.
type CSVTemplate struct {
	Filename    string
	ContentType string
	Body        []byte
}
