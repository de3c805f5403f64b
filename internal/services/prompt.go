package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/tbourn/morena-chat/internal/domain"
)

// FallbackReply is stored as the assistant turn when the completion service
// answers without usable text.
const FallbackReply = "I apologize, but I couldn't generate a response. Please try again."

// DefaultTitleRunes is how much of the first message becomes an implicit
// conversation title.
const DefaultTitleRunes = 50

const personaTemplate = `You are MORENA, a helpful AI assistant with deep understanding of South African culture and languages. You have universal knowledge and can answer questions about any topic in the world.

IMPORTANT: Always respond in %[1]s. If the user asks in a different language, respond in %[1]s unless they specifically request a different language.

You are knowledgeable about:
- South African culture, history, and traditions
- All 11 official South African languages
- Universal topics including science, technology, arts, literature, current events
- Local South African context and global perspectives

Be helpful, respectful, and culturally aware. Provide accurate and informative responses while maintaining a warm, welcoming tone that reflects South African ubuntu philosophy.`

// SystemPrompt renders the assistant persona for a language code. Unknown
// codes fall back to English.
func SystemPrompt(code string) string {
	return fmt.Sprintf(personaTemplate, domain.LanguageName(code))
}

// DeriveTitle takes the first max runes of message and appends "..." when
// the message was longer.
func DeriveTitle(message string, max int) string {
	if max <= 0 {
		max = DefaultTitleRunes
	}
	if utf8.RuneCountInString(message) <= max {
		return message
	}
	return string([]rune(message)[:max]) + "..."
}
