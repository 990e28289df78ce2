package models

import "strings"

// ApiResponse is the envelope for the listing and review endpoints. The AI
// endpoints answer with flat bodies instead.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Page    int         `json:"page,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Total   int64       `json:"total,omitempty"`
	HasMore bool        `json:"has_more,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

// ValidationResponse joins field messages the way form validation reports
// them: "title is required,price must be at least 0".
func ValidationResponse(messages []string) ApiResponse {
	return ErrorResponse(strings.Join(messages, ","))
}

func PaginatedResponse(data interface{}, offset, limit int, total int64) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Page:    (offset / limit) + 1,
		Limit:   limit,
		Total:   total,
		HasMore: int64(offset+limit) < total,
	}
}
