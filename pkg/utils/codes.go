package utils

// ResponseCode business response code
type ResponseCode int

const (
	// CodeSuccess success
	CodeSuccess ResponseCode = 0

	// Upstream errors (4xxx)
	CodeModelError     ResponseCode = 4001
	CodeShopifyError   ResponseCode = 4002
	CodeMessengerError ResponseCode = 4003

	// System errors (5xxx)
	CodeInternalError ResponseCode = 5000
)
