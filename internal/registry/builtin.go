package registry

// Default 构建内置供应商注册表
// 内置描述符覆盖直连供应商与网关聚合商，BaseURL 可被环境变量覆盖以便测试
func Default() *Registry {
	r := NewRegistry()

	// Anthropic：专用密钥头 + 版本头
	r.Register(&Descriptor{
		ID:           "anthropic",
		BaseURL:      "https://api.anthropic.com",
		ModelsPath:   "/v1/models",
		Auth:         APIKeyHeaderAuth,
		APIKeyHeader: "x-api-key",
		ExtraHeaders: map[string]string{
			"anthropic-version": "2023-06-01",
		},
		KeyEnvVars:    []string{"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"},
		ModelPrefixes: []string{"claude"},
		RateLimit: RateLimitHeaders{
			RequestsLimit:     "anthropic-ratelimit-requests-limit",
			RequestsRemaining: "anthropic-ratelimit-requests-remaining",
			RequestsReset:     "anthropic-ratelimit-requests-reset",
			TokensLimit:       "anthropic-ratelimit-tokens-limit",
			TokensRemaining:   "anthropic-ratelimit-tokens-remaining",
			TokensReset:       "anthropic-ratelimit-tokens-reset",
		},
	})

	// OpenAI：Bearer 认证
	r.Register(&Descriptor{
		ID:            "openai",
		BaseURL:       "https://api.openai.com",
		ModelsPath:    "/v1/models",
		Auth:          BearerAuth,
		KeyEnvVars:    []string{"OPENAI_API_KEY"},
		ModelPrefixes: []string{"gpt", "o1", "o3", "o4", "codex"},
		RateLimit: RateLimitHeaders{
			RequestsLimit:     "x-ratelimit-limit-requests",
			RequestsRemaining: "x-ratelimit-remaining-requests",
			RequestsReset:     "x-ratelimit-reset-requests",
			TokensLimit:       "x-ratelimit-limit-tokens",
			TokensRemaining:   "x-ratelimit-remaining-tokens",
			TokensReset:       "x-ratelimit-reset-tokens",
		},
	})

	// OpenRouter：网关聚合商，Bearer 认证
	r.Register(&Descriptor{
		ID:            "openrouter",
		BaseURL:       "https://openrouter.ai/api",
		ModelsPath:    "/v1/models",
		Auth:          BearerAuth,
		KeyEnvVars:    []string{"OPENROUTER_API_KEY", "OR_API_KEY"},
		ModelPrefixes: []string{"openrouter/"},
		RateLimit: RateLimitHeaders{
			RequestsLimit:     "x-ratelimit-limit",
			RequestsRemaining: "x-ratelimit-remaining",
			RequestsReset:     "x-ratelimit-reset",
		},
	})

	// Google：密钥作为查询参数，无限流头
	r.Register(&Descriptor{
		ID:            "google",
		BaseURL:       "https://generativelanguage.googleapis.com",
		ModelsPath:    "/v1beta/models",
		Auth:          QueryParamAuth,
		QueryParam:    "key",
		KeyEnvVars:    []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		ModelPrefixes: []string{"gemini"},
	})

	return r
}
