package openaichat

import "time"

const (
	VendorQwen     = "qwen"
	VendorDeepSeek = "deepseek"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	responseFormatJSON = "json_object"
)

type vendorPreset struct {
	baseURL string
	model   string
}

var presets = map[string]vendorPreset{
	VendorQwen:     {baseURL: "https://dashscope-intl.aliyuncs.com/compatible-mode/v1", model: "qwen-plus"},
	VendorDeepSeek: {baseURL: "https://api.deepseek.com/v1", model: "deepseek-chat"},
}
