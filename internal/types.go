package internal

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Provider names the language-model backend a rewrite is dispatched to.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderClaude, ProviderOpenAI}

// DisplayName is the name used in user-facing messages.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderClaude:
		return "Claude"
	case ProviderOpenAI:
		return "OpenAI"
	default:
		return string(p)
	}
}

func (p Provider) Valid() bool {
	return p == ProviderClaude || p == ProviderOpenAI
}

// ParseProvider accepts a provider name in any letter case.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown provider %q (must be 'claude' or 'openai')", s)
	}
	return p, nil
}

// Style selects one of the fixed instruction presets.
type Style string

const (
	StyleProfessional Style = "professional"
	StyleFriendly     Style = "friendly"
	StyleConcise      Style = "concise"
	StyleDetailed     Style = "detailed"
	StyleUpdate       Style = "update"
)

// Styles lists every preset style in display order.
var Styles = []Style{StyleProfessional, StyleFriendly, StyleConcise, StyleDetailed, StyleUpdate}

func (s Style) Valid() bool {
	for _, v := range Styles {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStyle accepts a style name in any letter case.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown style %q (must be one of %s)", s, joinStyles())
	}
	return st, nil
}

func joinStyles() string {
	names := make([]string, len(Styles))
	for i, s := range Styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Configuration is the persisted user configuration. The JSON field names
// are the on-disk record format.
type Configuration struct {
	ClaudeCredential  string   `json:"claudeApiKey"`
	OpenAICredential  string   `json:"openaiApiKey"`
	SelectedProvider  Provider `json:"selectedModel"`
	CustomInstruction string   `json:"customPrompt"`
	SelectedStyle     Style    `json:"selectedStyle"`
}

// DefaultConfiguration returns the record used on first load.
func DefaultConfiguration() Configuration {
	return Configuration{
		SelectedProvider: ProviderClaude,
		SelectedStyle:    StyleProfessional,
	}
}

// Validate reports whether both enum fields hold known values and every
// text field is valid UTF-8. The persisted JSON record cannot carry other
// byte sequences unchanged.
func (c Configuration) Validate() error {
	for field, value := range map[string]string{
		FieldClaudeKey:   c.ClaudeCredential,
		FieldOpenAIKey:   c.OpenAICredential,
		FieldInstruction: c.CustomInstruction,
	} {
		if !utf8.ValidString(value) {
			return fmt.Errorf("invalid %s: not valid UTF-8", field)
		}
	}
	if !c.SelectedProvider.Valid() {
		return fmt.Errorf("invalid selectedModel: %q", c.SelectedProvider)
	}
	if !c.SelectedStyle.Valid() {
		return fmt.Errorf("invalid selectedStyle: %q", c.SelectedStyle)
	}
	return nil
}

// Credential returns the stored credential for p.
func (c Configuration) Credential(p Provider) string {
	switch p {
	case ProviderClaude:
		return c.ClaudeCredential
	case ProviderOpenAI:
		return c.OpenAICredential
	default:
		return ""
	}
}

// Editable field names accepted by Set and Unset.
const (
	FieldClaudeKey   = "claude-key"
	FieldOpenAIKey   = "openai-key"
	FieldProvider    = "provider"
	FieldInstruction = "instruction"
	FieldStyle       = "style"
)

// Fields lists the editable field names.
var Fields = []string{FieldClaudeKey, FieldOpenAIKey, FieldProvider, FieldInstruction, FieldStyle}

// IsSecretField reports whether the field holds a credential.
func IsSecretField(field string) bool {
	return field == FieldClaudeKey || field == FieldOpenAIKey
}

// Set returns a copy of c with one field changed. Enum values are parsed
// case-insensitively; unknown fields, unknown values and invalid UTF-8 are
// rejected.
func (c Configuration) Set(field, value string) (Configuration, error) {
	if !utf8.ValidString(value) {
		return c, fmt.Errorf("invalid %s: not valid UTF-8", field)
	}
	switch field {
	case FieldClaudeKey:
		c.ClaudeCredential = strings.TrimSpace(value)
	case FieldOpenAIKey:
		c.OpenAICredential = strings.TrimSpace(value)
	case FieldProvider:
		p, err := ParseProvider(value)
		if err != nil {
			return c, err
		}
		c.SelectedProvider = p
	case FieldInstruction:
		c.CustomInstruction = value
	case FieldStyle:
		s, err := ParseStyle(value)
		if err != nil {
			return c, err
		}
		c.SelectedStyle = s
	default:
		return c, fmt.Errorf("unknown field %q (must be one of %s)", field, strings.Join(Fields, ", "))
	}
	return c, nil
}

// Unset returns a copy of c with one field restored to its default.
func (c Configuration) Unset(field string) (Configuration, error) {
	def := DefaultConfiguration()
	switch field {
	case FieldClaudeKey:
		c.ClaudeCredential = def.ClaudeCredential
	case FieldOpenAIKey:
		c.OpenAICredential = def.OpenAICredential
	case FieldProvider:
		c.SelectedProvider = def.SelectedProvider
	case FieldInstruction:
		c.CustomInstruction = def.CustomInstruction
	case FieldStyle:
		c.SelectedStyle = def.SelectedStyle
	default:
		return c, fmt.Errorf("unknown field %q (must be one of %s)", field, strings.Join(Fields, ", "))
	}
	return c, nil
}

// Get returns the current value of a field.
func (c Configuration) Get(field string) (string, error) {
	switch field {
	case FieldClaudeKey:
		return c.ClaudeCredential, nil
	case FieldOpenAIKey:
		return c.OpenAICredential, nil
	case FieldProvider:
		return string(c.SelectedProvider), nil
	case FieldInstruction:
		return c.CustomInstruction, nil
	case FieldStyle:
		return string(c.SelectedStyle), nil
	default:
		return "", fmt.Errorf("unknown field %q (must be one of %s)", field, strings.Join(Fields, ", "))
	}
}

// MaskSecret hides all but the last four characters of a credential.
func MaskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
