package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefe-learning/curriculum-ai/internal/chunker"
	"github.com/fefe-learning/curriculum-ai/internal/curriculum"
	"github.com/fefe-learning/curriculum-ai/internal/document"
	"github.com/fefe-learning/curriculum-ai/internal/ingestion"
	"github.com/fefe-learning/curriculum-ai/internal/metrics"
	"github.com/fefe-learning/curriculum-ai/internal/normalizer"
	"github.com/fefe-learning/curriculum-ai/internal/provider"
	"github.com/fefe-learning/curriculum-ai/internal/router"
	"github.com/fefe-learning/curriculum-ai/internal/session"
	"github.com/fefe-learning/curriculum-ai/pkg/config"
)

const sampleCurriculum = `Grade 10 Mathematics Curriculum.
Subjects: Mathematics
Term 1: Algebra basics
Week 1: Linear equations
Students should learn to solve linear equations step by step.
Outcome: Solve linear equations confidently.
Assessment: Weekly problem sets and one term test.`

type testEnv struct {
	app  *fiber.App
	docs *document.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.ReadTimeout = 5
	cfg.Server.WriteTimeout = 5
	cfg.Server.BodyLimit = 1 << 20
	cfg.Upload.Dir = t.TempDir()

	docs := document.NewStore()
	sessions := session.NewStore(0)
	norm := normalizer.New(1)

	providers := []provider.Provider{
		provider.NewLocalQA(true, 0.3, 2000),
		provider.NewFallback(),
	}
	questionRouter := router.New(providers, docs, sessions, norm, time.Second)

	app := NewApp(cfg, Deps{
		Router:    questionRouter,
		Docs:      docs,
		Sessions:  sessions,
		Processor: ingestion.NewProcessor(docs, chunker.DefaultMaxChunkSize),
	})

	return &testEnv{app: app, docs: docs}
}

func (e *testEnv) loadSampleDocument() {
	e.docs.Replace(&document.Document{
		Text:   sampleCurriculum,
		Chunks: chunker.Split(sampleCurriculum, chunker.DefaultMaxChunkSize),
		Metadata: document.Metadata{
			Filename:  "sample.pdf",
			Title:     "Grade 10 Mathematics",
			Pages:     3,
			WordCount: 40,
		},
		Structure: curriculum.Analyze(sampleCurriculum),
	})
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) map[string]interface{} {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return decodeBody(t, resp.Body)
}

func getJSON(t *testing.T, app *fiber.App, path string) map[string]interface{} {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return decodeBody(t, resp.Body)
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body := getJSON(t, env.app, "/health")

	assert.Equal(t, "healthy", body["status"])
	services, ok := body["ai_services"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, services["local_qa"])
}

func TestUploadRejectsMissingFile(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload_pdf", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := env.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No PDF file part", body["message"])
}

func TestUploadRejectsNonPDF(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("pdf_file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload_pdf", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := env.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Invalid file type")
}

func TestAskReturnsGreetingForEmptyQuestion(t *testing.T) {
	env := newTestEnv(t)

	body := postJSON(t, env.app, "/ask_ai", map[string]string{"question": ""})

	assert.Equal(t, "greeting", body["response_type"])
	assert.Equal(t, 1.0, body["confidence"])
	assert.NotEmpty(t, body["answer"])
}

func TestAskWithoutDocumentRequiresPDF(t *testing.T) {
	env := newTestEnv(t)

	body := postJSON(t, env.app, "/ask_ai", map[string]string{
		"question":   "summarize term one for grade ten",
		"session_id": "s1",
	})

	assert.Equal(t, true, body["requires_pdf"])
	assert.Equal(t, "helpful_suggestion", body["response_type"])
	assert.InDelta(t, 0.8, body["confidence"].(float64), 1e-9)

	// No provider answered, so metrics carry the sentinel label.
	count := testutil.ToFloat64(metrics.QuestionTotal.WithLabelValues("none", "helpful_suggestion"))
	assert.GreaterOrEqual(t, count, 1.0)
}

func TestAskAnsweredFromDocument(t *testing.T) {
	env := newTestEnv(t)
	env.loadSampleDocument()

	body := postJSON(t, env.app, "/ask_ai", map[string]string{
		"question":   "what should students know about equations",
		"session_id": "s1",
	})

	assert.Equal(t, "Local QA (Enhanced)", body["ai_service"])
	assert.Equal(t, "enhanced_local", body["response_type"])
	assert.NotEmpty(t, body["answer"])
	assert.Equal(t, float64(0), body["conversation_length"])

	meta, ok := body["pdf_metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Grade 10 Mathematics", meta["title"])

	structure, ok := meta["curriculum_structure"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, structure["grades"], "10")

	// The first exchange is now history.
	body = postJSON(t, env.app, "/ask_ai", map[string]string{
		"question":   "how is that assessed in the term test",
		"session_id": "s1",
	})
	assert.Equal(t, float64(1), body["conversation_length"])
}

func TestAskLearningQuestionReturnsBreakdown(t *testing.T) {
	env := newTestEnv(t)
	env.loadSampleDocument()

	body := postJSON(t, env.app, "/ask_ai", map[string]string{
		"question":   "what should students learn about equations",
		"session_id": "s1",
	})

	assert.Equal(t, "Local QA (Enhanced)", body["ai_service"])
	assert.Equal(t, "structured_breakdown", body["response_type"])
	assert.InDelta(t, 0.85, body["confidence"].(float64), 1e-9)
	assert.Contains(t, body["answer"], "Key Concepts to Learn")
	assert.Contains(t, body["answer"], "Term 1: Algebra basics")
}

func TestPdfInfoAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.loadSampleDocument()

	body := getJSON(t, env.app, "/get_pdf_info")
	assert.Equal(t, true, body["loaded"])
	assert.Equal(t, float64(len(chunker.Split(sampleCurriculum, chunker.DefaultMaxChunkSize))), body["chunks_count"])
	assert.Contains(t, body["text_preview"], "Grade 10 Mathematics")

	cleared := postJSON(t, env.app, "/clear_pdf", map[string]string{})
	assert.Equal(t, true, cleared["success"])

	body = getJSON(t, env.app, "/get_pdf_info")
	assert.Equal(t, false, body["loaded"])
}

func TestCurriculumBreakdown(t *testing.T) {
	env := newTestEnv(t)

	body := getJSON(t, env.app, "/get_curriculum_breakdown")
	assert.Equal(t, "No PDF loaded", body["error"])

	env.loadSampleDocument()
	body = getJSON(t, env.app, "/get_curriculum_breakdown")

	breakdown, ok := body["curriculum_breakdown"].(map[string]interface{})
	require.True(t, ok)

	overview, ok := breakdown["curriculum_overview"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, overview["target_grades"], "10")

	raw, err := json.Marshal(breakdown)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Algebra basics")
}

func TestConversationLifecycle(t *testing.T) {
	env := newTestEnv(t)

	started := postJSON(t, env.app, "/start_conversation", map[string]string{"user_id": "ada"})
	sessionID, ok := started["session_id"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(sessionID, "ada_"))
	assert.Equal(t, "conversation_started", started["status"])
	assert.NotEmpty(t, started["greeting"])

	history := getJSON(t, env.app, "/get_conversation_history/"+sessionID)
	assert.Equal(t, float64(1), history["conversation_length"])

	cleared := postJSON(t, env.app, "/clear_conversation/"+sessionID, map[string]string{})
	assert.Equal(t, "conversation_cleared", cleared["status"])

	history = getJSON(t, env.app, "/get_conversation_history/"+sessionID)
	assert.Equal(t, float64(0), history["conversation_length"])
}

func TestValidationRejectsScriptContent(t *testing.T) {
	env := newTestEnv(t)

	payload, err := json.Marshal(map[string]string{
		"question": "<script>alert(1)</script>",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ask_ai", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpointServesPrometheusText(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := env.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
