package provider

import (
	"context"
	"fmt"
	"strings"
)

// FallbackConfidence is the fixed moderate confidence of the deterministic
// fallback answer.
const FallbackConfidence = 0.5

// FallbackProvider is the always-available terminal candidate. It never
// performs a network call; it returns an encouraging prompt asking the
// student to narrow the question.
type FallbackProvider struct{}

func NewFallback() *FallbackProvider {
	return &FallbackProvider{}
}

func (p *FallbackProvider) ID() ID {
	return Fallback
}

func (p *FallbackProvider) Available() bool {
	return true
}

func (p *FallbackProvider) Invoke(_ context.Context, req Request) (*Result, error) {
	contextInfo := "this document"
	if req.Structure != nil && len(req.Structure.Grades) > 0 {
		contextInfo = fmt.Sprintf("this document covering grades %s",
			strings.Join(req.Structure.Grades, ", "))
	}

	answer := fmt.Sprintf("You know what, that's a great question! While I'm still figuring out the best way to answer it from %s, I'd love to help. Could you try asking about specific learning objectives, concepts, or assessment criteria? I'm here to make learning easier for you!", contextInfo)

	return &Result{
		Answer:       answer,
		Confidence:   FallbackConfidence,
		Service:      "Conversational Fallback",
		ResponseType: "encouraging_fallback",
	}, nil
}
