package handler

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// ListResponse is the admin list envelope: count is the size of the whole
// filtered set (these endpoints are unpaginated).
type ListResponse struct {
	Count   int         `json:"count"`
	Results interface{} `json:"results"`
}
