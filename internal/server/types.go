package server

// MessageResponse is the JSON body of a missing comprobante
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database,omitempty"`
}
