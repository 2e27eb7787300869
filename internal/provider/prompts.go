package provider

import (
	"fmt"
	"strings"
)

const (
	educationalContextCap = 8000
	creativeContextCap    = 6000
)

// educationalPrompt asks for the structured, curriculum-grounded response
// shape used when no conversational prompt was prepared by the router.
func educationalPrompt(req Request) string {
	var grades, subjects, outcomes, concepts []string
	if req.Structure != nil {
		grades = req.Structure.Grades
		subjects = req.Structure.SubjectAreas
		outcomes = req.Structure.LearningOutcomes
		concepts = req.Structure.Concepts
	}

	return fmt.Sprintf(`A student has uploaded a curriculum document and is asking a question about it.

DOCUMENT CONTEXT:
%s

CURRICULUM METADATA:
- Grades: %s
- Subject Areas: %s
- Learning Outcomes: %s
- Key Concepts: %s

STUDENT QUESTION: %s

Please provide a comprehensive educational response that includes:

1. DIRECT ANSWER to the student's question
2. CURRICULUM CONTEXT - how this relates to CAPS standards
3. LEARNING BREAKDOWN - key concepts students should master
4. LEARNING SEQUENCE - step-by-step learning path
5. ASSESSMENT FOCUS - what will be evaluated
6. STUDY TIPS - practical advice for mastering this topic
7. PRACTICE SUGGESTIONS - activities to reinforce learning

Format your response with clear sections and bullet points for easy reading.
Be specific, practical, and educational.`,
		truncate(joinedContext(req.Chunks), educationalContextCap),
		strings.Join(grades, ", "),
		strings.Join(subjects, ", "),
		strings.Join(outcomes, "; "),
		strings.Join(concepts, "; "),
		req.Question,
	)
}

// creativePrompt asks for the interactive, example-driven response shape.
func creativePrompt(req Request) string {
	var grades, subjects []string
	if req.Structure != nil {
		grades = req.Structure.Grades
		subjects = req.Structure.SubjectAreas
	}

	return fmt.Sprintf(`Help this student with their question by providing an interactive, creative response.

CURRICULUM CONTENT:
%s

CURRICULUM INFO:
- Target Grades: %s
- Subjects: %s

STUDENT QUESTION: %s

Provide a creative, engaging educational response that includes:

- A clear answer to their question
- Real-world examples that make concepts relatable
- Interactive elements (questions for self-reflection)
- A step-by-step breakdown of complex concepts
- Memory techniques or mnemonics if applicable
- Practice challenges they can try

Make it engaging, practical, and memorable. Use analogies, examples, and
interactive elements to help the student truly understand and retain the
information.`,
		truncate(joinedContext(req.Chunks), creativeContextCap),
		strings.Join(grades, ", "),
		strings.Join(subjects, ", "),
		req.Question,
	)
}

func joinedContext(chunks []string) string {
	return strings.Join(chunks, " ")
}

func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}
