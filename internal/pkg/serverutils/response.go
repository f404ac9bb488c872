package serverutils

// Response is the uniform envelope returned by every handler.
// Callers branch on Success.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type FailureResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) FailureResponse {
	return FailureResponse{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	}
}
