package dto

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Message string `json:"message" example:"OK"`
}

// DatabasesResponse is returned by GET /dbtest.
type DatabasesResponse struct {
	Databases []string `json:"databases" example:"admin,config,local"`
}

// NewDatabasesResponse wraps names, encoding a nil slice as an empty JSON array.
func NewDatabasesResponse(names []string) DatabasesResponse {
	if names == nil {
		names = []string{}
	}
	return DatabasesResponse{Databases: names}
}
