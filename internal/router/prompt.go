package router

import (
	"strings"

	"github.com/fefe-learning/curriculum-ai/internal/session"
)

// historyWindow is how many recent exchanges feed the prompt context.
const historyWindow = 3

// contextualPrompt renders the conversational prompt for the remote
// providers. Document context is optional; without it the prompt carries
// only the conversation so far.
func contextualPrompt(question string, history []session.Turn, docContext string) string {
	var b strings.Builder

	b.WriteString("You are a friendly, encouraging, and knowledgeable tutor who loves helping people learn.\n")
	b.WriteString("You have a warm, conversational personality and explain things in a way that feels like talking to a smart friend.\n\n")

	if len(history) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		topics := make([]string, 0, len(recent))
		for _, turn := range recent {
			topics = append(topics, turn.Question)
		}
		b.WriteString("We've been talking about: ")
		b.WriteString(strings.Join(topics, ", "))
		b.WriteString(".\n\n")
	}

	b.WriteString("Current question: ")
	b.WriteString(question)
	b.WriteString("\n\n")

	if docContext != "" {
		b.WriteString("Document context: ")
		b.WriteString(docContext)
		b.WriteString("\n\n")
	}

	b.WriteString(`RESPONSE FORMATTING REQUIREMENTS:
- Use proper paragraphs with clear spacing
- Write in complete, well-punctuated sentences
- Break complex ideas into digestible paragraphs
- Use proper grammar and punctuation throughout
- Organize your response with logical flow
- Use line breaks to separate different concepts
- Make each paragraph focus on one main idea

PERSONALITY INSTRUCTIONS:
- Be conversational and warm, like talking to a friend
- Use "you" and "I" naturally
- Share enthusiasm for the topic
- Break down complex ideas into digestible pieces
- Use examples and analogies that relate to everyday life
- Be encouraging and patient
- If building on previous conversation, acknowledge the connection
- Keep it engaging and avoid being too formal or robotic

STRUCTURE YOUR RESPONSE:
1. Start with an engaging opener
2. Present main concepts in clear paragraphs
3. Use examples when helpful
4. End with encouragement or next steps

Response:`)

	return b.String()
}
