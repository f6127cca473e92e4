package http

// ErrorResponse 错误响应（所有API共用）
// 用于统一错误响应格式
type ErrorResponse struct {
	Error   string `json:"error"`             // 错误消息
	Details string `json:"details,omitempty"` // 错误详情（可选）
}

// OKResponse 操作成功响应（写类接口共用）
type OKResponse struct {
	OK bool `json:"ok"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(message string, details ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Error: message,
	}
	if len(details) > 0 && details[0] != "" {
		resp.Details = details[0]
	}
	return resp
}

// NewOKResponse 创建操作成功响应
func NewOKResponse() *OKResponse {
	return &OKResponse{OK: true}
}
