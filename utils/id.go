package utils

import (
	"github.com/google/uuid"
)

// RequestIDHeader 客户端可以通过该请求头传入请求ID
const RequestIDHeader = "X-Request-ID"

// RequestID 沿用合法的客户端请求ID，否则生成新的
func RequestID(incoming string) string {
	if incoming != "" {
		if _, err := uuid.Parse(incoming); err == nil {
			return incoming
		}
	}
	return uuid.New().String()
}
