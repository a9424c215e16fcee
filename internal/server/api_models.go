package server

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"No comparisons found in history"`
}

// HealthResponse is returned by the root endpoint.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// emptyResponseMessage is the error text for a blank upstream body.
const emptyResponseMessage = "One or both URLs returned empty response"

// noHistoryMessage is the error text when latest finds no records.
const noHistoryMessage = "No comparisons found in history"
