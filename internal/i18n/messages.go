package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English, // default
	language.Chinese,
}

var matcher = language.NewMatcher(supported)

// Negotiate picks the best supported locale for a request. The explicit
// X-Locale override wins over the Accept-Language header.
func Negotiate(override, acceptLanguage string) string {
	if override != "" {
		if tag, err := language.Parse(override); err == nil {
			tag, _, _ = matcher.Match(tag)
			return base(tag)
		}
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	tag, _, _ := matcher.Match(tags...)
	return base(tag)
}

func base(tag language.Tag) string {
	b, _ := tag.Base()
	return b.String()
}

var messages = map[string]map[string]string{
	"en": {
		"signin_required":     "please sign in first",
		"config_required":     "configure your API endpoint and key in settings first",
		"no_api_key":          "no API key configured",
		"missing_fields":      "missing required fields",
		"upstream_unreach":    "could not reach the API (%s); make sure the proxy service is running",
		"api_error":           "API error (%d)",
		"no_content":          "no content in response",
		"model_returned_text": "model returned text: %q...",
		"fill_all_fields":     "please fill in all fields",
		"fill_credentials":    "please enter email and password",
		"password_too_short":  "password must be at least 6 characters",
		"email_registered":    "email already registered",
		"wrong_credentials":   "invalid email or password",
		"fill_api_fields":     "please enter both API base URL and API key",
		"admin_env_config":    "admin API configuration is managed via the server environment",
		"user_not_found":      "user not found",
		"config_saved":        "API configuration saved",
	},
	"zh": {
		"signin_required":     "请先登录",
		"config_required":     "请先在设置中配置你的 API 端点和 Key。",
		"no_api_key":          "未配置 API Key。",
		"missing_fields":      "缺少必填字段",
		"upstream_unreach":    "无法连接到 API (%s)。请确认代理服务正在运行。",
		"api_error":           "API 错误 (%d)",
		"no_content":          "响应中没有内容",
		"model_returned_text": "模型返回了文本: %q...",
		"fill_all_fields":     "请填写所有字段",
		"fill_credentials":    "请填写邮箱和密码",
		"password_too_short":  "密码至少 6 位",
		"email_registered":    "该邮箱已注册",
		"wrong_credentials":   "邮箱或密码错误",
		"fill_api_fields":     "请填写 API Base URL 和 API Key",
		"admin_env_config":    "Admin 的 API 配置在 .env 中管理",
		"user_not_found":      "用户不存在",
		"config_saved":        "API 配置已保存",
	},
}

// T renders the message for key in the given locale, falling back to English
// for unknown locales or keys.
func T(locale, key string, args ...any) string {
	catalog, ok := messages[locale]
	if !ok {
		catalog = messages["en"]
	}
	msg, ok := catalog[key]
	if !ok {
		msg = messages["en"][key]
	}
	if msg == "" {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
