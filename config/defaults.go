package config

func DefaultSettings() *Settings {
	return &Settings{
		DataDirectory: "~/.local/share/smartbar",
		Provider: ProviderSettings{
			ID:    "ollama",
			Model: "llama3.1:latest",
		},
		Suggest: SuggestSettings{
			DebounceMS:     50,
			MaxResults:     10,
			MaxSuggestions: 10,
			FallbackDomain: "wikipedia.org",
		},
		Cache: CacheSettings{
			TTLSeconds: 300,
		},
		Context: ContextSettings{
			PageTextDelayMS: 300,
			PageTextLimit:   4000,
		},
		Prompts: PromptSettings{
			Count:     3,
			PerMinute: 20,
		},
		Keys: DefaultKeyBindings(),
	}
}

func GenerateSettingsTemplate() string {
	return `# smartbar configuration
# Location: ~/.config/smartbar/settings.toml
# This file uses TOML format: https://toml.io

# Directory where transcripts, history and debug logs are stored
data_directory = "~/.local/share/smartbar"

[provider]
# One of: ollama, openai, anthropic, openrouter
id = "ollama"
# Leave unset to use the provider's default endpoint
# base_url = "http://localhost:11434"
model = "llama3.1:latest"
# api_key = ""  (or set SMARTBAR_API_KEY)

[suggest]
# Quiet period after the last keystroke before autocomplete is queried
debounce_ms = 50
# Results requested from the autocomplete provider
max_results = 10
# Upper bound on the suggestion list
max_suggestions = 10
# Navigable domain offered when there are too few suggestions
fallback_domain = "wikipedia.org"

[cache]
# Lifetime of generated quick prompts per context set
ttl_seconds = 300

[context]
# Wait after a tab switch before reading page text
page_text_delay_ms = 300
# Characters of page text sent per document
page_text_limit = 4000

[prompts]
# Quick prompts generated for an empty input
count = 3
# Generation requests allowed per minute
per_minute = 20

[keys]
# Modifier for tab and context shortcuts (ctrl, alt)
modifier = "ctrl"

# Per-action overrides, for example:
# [keys.actions]
# next_tab = "ctrl+right"
# context_add = "alt+a"
# Actions: quit, next_tab, prev_tab, new_tab, close_tab, context_add,
# context_remove, yank, help
`
}
