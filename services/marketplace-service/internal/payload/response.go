package payload

// Response is the envelope shared by every JSON response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Response
	Errors map[string]string `json:"errors,omitempty"`
}

func OK(message string) Response {
	return Response{Success: true, Message: message}
}

func Fail(message string) ErrorResponse {
	return ErrorResponse{Response: Response{Success: false, Message: message}}
}
