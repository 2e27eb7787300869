package normalizer

// Phrase tables for the personality layer. Every random choice the
// normalizer makes draws from one of these, so tests can enumerate them.

var ConversationStarters = []string{
	"Hey there! What would you like to learn about today?",
	"Hi! I'm here to help you understand any topic. What's on your mind?",
	"Hello! Ready to dive into some learning? What can I explain for you?",
	"Hey! What subject or question can I help you with today?",
	"Hi there! I'm excited to help you learn. What would you like to explore?",
}

var encouragingPhrases = []string{
	"Great question!",
	"That's a really thoughtful question!",
	"I love that you're curious about this!",
	"Excellent point!",
	"That's exactly the right thing to ask!",
	"You're really thinking deeply about this!",
}

var transitionPhrases = []string{
	"Let me break this down for you...",
	"Here's how I like to think about it...",
	"Let me explain this in a way that makes sense...",
	"Here's what's really interesting about this...",
	"Let me walk you through this step by step...",
	"The way I see it is...",
}

var empathyResponses = []string{
	"I can see why that might be confusing...",
	"That's a common thing people wonder about...",
	"Don't worry, this trips up a lot of people...",
	"I understand why this seems complicated...",
	"You're not alone in finding this challenging...",
}

// toneRewrites maps formal phrasing to the casual register, applied
// verbatim in this order.
var toneRewrites = []struct{ formal, casual string }{
	{"In conclusion", "So basically"},
	{"Furthermore", "Also"},
	{"Therefore", "So"},
	{"Additionally", "Plus"},
	{"In summary", "To sum it up"},
	{"It is important to note", "What's really important here is"},
	{"One should", "You should"},
	{"It is recommended", "I'd recommend"},
	{"According to", "From what I understand"},
	{"In order to", "To"},
}

// difficultyWords trigger the empathy opener.
var difficultyWords = []string{"difficult", "complex", "advanced", "challenging", "confusing"}
