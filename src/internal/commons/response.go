package commons

type Response[T any] struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode,omitempty"`
	Data      *T       `json:"data,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// CodedErrorResponse is an ErrorResponse that also carries a business error code.
func CodedErrorResponse[T any](code string, message string, errors ...string) Response[T] {
	response := ErrorResponse[T](message, errors...)
	response.ErrorCode = code
	return response
}
