// Package prompt assembles the instruction string sent to a provider.
//
// A prompt is the resolved instruction (the user's custom instruction, or the
// preset for the selected style), followed by the fixed formatting rules for
// Jira comment markup, followed by the raw input quoted under a label.
package prompt

import (
	"strings"

	"github.com/valpere/reword/internal"
)

// presets maps every style to its instruction. The table is closed.
var presets = map[internal.Style]string{
	internal.StyleProfessional: "Rewrite the following text in a clear, professional tone suitable for a work ticket comment. Keep the original meaning and fix grammar and spelling.",
	internal.StyleFriendly:     "Rewrite the following text in a warm, friendly and approachable tone while keeping it appropriate for a team discussion.",
	internal.StyleConcise:      "Rewrite the following text to be as short and direct as possible. Remove filler words and keep only the essential information.",
	internal.StyleDetailed:     "Rewrite the following text with more detail and structure. Expand on context, list steps where helpful and spell out any assumptions.",
	internal.StyleUpdate:       "Rewrite the following text as a status update with sections for what was done, what is in progress and any blockers.",
}

// FormattingRules is appended to every prompt unchanged.
const FormattingRules = `Format the result as a Jira comment using these rules:
- Use *text* for bold
- Use _text_ for italic
- Use ` + "`text`" + ` for inline code
- Start bullet points with "* "
- Start headings with "# "
- Put ` + "```" + ` on its own line before and after a code block
- Do NOT use Jira wiki markup such as {code}, {noformat}, {quote} or h1. / h2. / h3. headings

Respond with only the rewritten text.`

// InputLabel introduces the quoted raw input.
const InputLabel = "Text to rewrite:"

// Preset returns the instruction for a style and whether the style is known.
func Preset(style internal.Style) (string, bool) {
	p, ok := presets[style]
	return p, ok
}

// ResolveInstruction returns customInstruction when it is non-empty and the
// style preset otherwise. The two are never combined.
func ResolveInstruction(style internal.Style, customInstruction string) string {
	if customInstruction != "" {
		return customInstruction
	}
	return presets[style]
}

// Build returns the full prompt. rawInput is inserted verbatim; quote
// characters inside it are not escaped.
func Build(rawInput string, style internal.Style, customInstruction string) string {
	var sb strings.Builder

	sb.WriteString(ResolveInstruction(style, customInstruction))
	sb.WriteString("\n\n")
	sb.WriteString(FormattingRules)
	sb.WriteString("\n\n")
	sb.WriteString(InputLabel)
	sb.WriteString("\n\"")
	sb.WriteString(rawInput)
	sb.WriteString("\"")

	return sb.String()
}

// Request is the per-invocation view of a prompt.
type Request struct {
	RawInput            string
	ResolvedInstruction string
	FullPrompt          string
}

// NewRequest builds a Request from the raw input and the user configuration.
func NewRequest(rawInput string, cfg internal.Configuration) Request {
	return Request{
		RawInput:            rawInput,
		ResolvedInstruction: ResolveInstruction(cfg.SelectedStyle, cfg.CustomInstruction),
		FullPrompt:          Build(rawInput, cfg.SelectedStyle, cfg.CustomInstruction),
	}
}
