package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/config"
	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/kirillkom/correspondence-analyzer/internal/core/rules"
	"github.com/kirillkom/correspondence-analyzer/internal/observability/metrics"
)

type analyzerFake struct {
	result *domain.AnalysisResult
	err    error
	text   string
}

func (f *analyzerFake) Analyze(_ context.Context, text string) (*domain.AnalysisResult, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type ingestorFake struct {
	meta    domain.NewCommunication
	content string
	err     error
}

func (f *ingestorFake) Submit(_ context.Context, meta domain.NewCommunication, content string) (*domain.Communication, error) {
	f.meta = meta
	f.content = content
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Communication{ID: "comm-1", Type: meta.Type, Status: domain.StatusUploaded}, nil
}

func (f *ingestorFake) Upload(_ context.Context, meta domain.NewCommunication, body io.Reader) (*domain.Communication, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.meta = meta
	f.content = string(raw)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Communication{ID: "comm-2", Type: meta.Type, Filename: meta.Filename, Status: domain.StatusUploaded}, nil
}

type readerFake struct {
	comms      []domain.Communication
	tasks      []domain.TaskRecord
	err        error
	filter     domain.CommunicationFilter
	taskFilter domain.TaskFilter
}

func (f *readerFake) GetByID(_ context.Context, id string) (*domain.Communication, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.comms {
		if f.comms[i].ID == id {
			return &f.comms[i], nil
		}
	}
	return nil, domain.WrapError(domain.ErrCommunicationNotFound, "get communication", errors.New(id))
}

func (f *readerFake) List(_ context.Context, filter domain.CommunicationFilter) ([]domain.Communication, error) {
	f.filter = filter
	return f.comms, f.err
}

func (f *readerFake) ListTasks(_ context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, error) {
	f.taskFilter = filter
	return f.tasks, f.err
}

func newTestRouter(cfg config.Config) (*Router, *analyzerFake, *ingestorFake, *readerFake) {
	analyzer := &analyzerFake{result: &domain.AnalysisResult{
		SentimentScore:    0.9,
		SentimentCategory: domain.CategoryVeryPositive,
		StaffTasks:        []string{"URGENT: Call the client."},
		HighPriorityCount: 1,
	}}
	ingestor := &ingestorFake{}
	reader := &readerFake{}
	return NewRouter(cfg, analyzer, ingestor, reader), analyzer, ingestor, reader
}

func newTestHandler(cfg config.Config) http.Handler {
	rt, _, _, _ := newTestRouter(cfg)
	return rt.Handler()
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestHealthzEndpoint(t *testing.T) {
	res := serve(newTestHandler(config.Config{}), http.MethodGet, "/healthz", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	rt, analyzer, _, _ := newTestRouter(config.Config{})
	res := serve(rt.Handler(), http.MethodPost, "/v1/analyze", `{"text":"Please call the client asap."}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if analyzer.text != "Please call the client asap." {
		t.Fatalf("unexpected analyzer input %q", analyzer.text)
	}

	var got domain.AnalysisResult
	if err := json.Unmarshal(res.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.SentimentCategory != domain.CategoryVeryPositive || got.HighPriorityCount != 1 {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestAnalyzeEndpointRejectsMalformedJSON(t *testing.T) {
	res := serve(newTestHandler(config.Config{}), http.MethodPost, "/v1/analyze", `{"text":`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestAnalyzeEndpointRecordsMetrics(t *testing.T) {
	m := metrics.NewHTTPServerMetrics("api-test")
	analyzer := &analyzerFake{err: domain.WrapError(domain.ErrClassification, "classify sentiment", errors.New("bad label"))}
	handler := NewRouter(config.Config{}, analyzer, &ingestorFake{}, &readerFake{}, WithMetrics(m)).Handler()

	res := serve(handler, http.MethodPost, "/v1/analyze", `{"text":"hello there, how are you"}`)
	if res.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.Code)
	}

	scrape := serve(handler, http.MethodGet, "/metrics", "")
	if scrape.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", scrape.Code)
	}
	if !strings.Contains(scrape.Body.String(), "corr_classifier_failures_total") {
		t.Fatalf("expected classifier failure metric in scrape output")
	}
}

func TestSubmitEmailEndpoint(t *testing.T) {
	rt, _, ingestor, _ := newTestRouter(config.Config{})
	body := `{"content":"Send the report.","subject":"Status","sender":"a@b.c","project_id":"p1","customer_id":"c1"}`
	res := serve(rt.Handler(), http.MethodPost, "/v1/communications/email", body)
	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	if ingestor.meta.Type != domain.TypeEmail || ingestor.meta.Subject != "Status" || ingestor.content != "Send the report." {
		t.Fatalf("unexpected ingest call %+v %q", ingestor.meta, ingestor.content)
	}
}

func TestSubmitTranscriptEndpoint(t *testing.T) {
	rt, _, ingestor, _ := newTestRouter(config.Config{})
	body := `{"content":"We agreed on a plan.","meeting_date":"2026-03-05","participants":["ann","bob"],"project_id":"p1","customer_id":"c1"}`
	res := serve(rt.Handler(), http.MethodPost, "/v1/communications/transcript", body)
	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	if ingestor.meta.Type != domain.TypeTranscript || len(ingestor.meta.Participants) != 2 {
		t.Fatalf("unexpected ingest meta %+v", ingestor.meta)
	}
}

func TestUploadCommunicationEndpoint(t *testing.T) {
	rt, _, ingestor, _ := newTestRouter(config.Config{APIMaxUploadBytes: 1 << 20})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "minutes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	_ = writer.WriteField("project_id", "p1")
	_ = writer.WriteField("customer_id", "c1")
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/communications/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	if ingestor.meta.Filename != "minutes.txt" || ingestor.meta.ProjectID != "p1" || ingestor.content != "hello" {
		t.Fatalf("unexpected upload call %+v %q", ingestor.meta, ingestor.content)
	}
}

func TestUploadCommunicationRequiresFile(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("project_id", "p1")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/communications/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	newTestHandler(config.Config{}).ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestGetCommunicationEndpoint(t *testing.T) {
	rt, _, _, reader := newTestRouter(config.Config{})
	reader.comms = []domain.Communication{{ID: "comm-7", Type: domain.TypeEmail, Status: domain.StatusReady}}
	handler := rt.Handler()

	res := serve(handler, http.MethodGet, "/v1/communications/comm-7", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	res = serve(handler, http.MethodGet, "/v1/communications/missing", "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestListCommunicationsPassesFilter(t *testing.T) {
	rt, _, _, reader := newTestRouter(config.Config{})
	res := serve(rt.Handler(), http.MethodGet, "/v1/communications?type=email&project_id=p1&customer_id=c1", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	want := domain.CommunicationFilter{Type: domain.TypeEmail, ProjectID: "p1", CustomerID: "c1"}
	if reader.filter != want {
		t.Fatalf("filter = %+v, want %+v", reader.filter, want)
	}
}

func TestListTasksEndpoint(t *testing.T) {
	rt, _, _, reader := newTestRouter(config.Config{})
	reader.tasks = []domain.TaskRecord{{ID: "t1", CommunicationID: "comm-1", Text: "URGENT: Call.", HighPriority: true}}
	handler := rt.Handler()

	res := serve(handler, http.MethodGet, "/v1/tasks?communication_id=comm-1&high_priority=true&limit=10", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	want := domain.TaskFilter{CommunicationID: "comm-1", HighPriorityOnly: true, Limit: 10}
	if reader.taskFilter != want {
		t.Fatalf("filter = %+v, want %+v", reader.taskFilter, want)
	}

	res = serve(handler, http.MethodGet, "/v1/tasks?high_priority=maybe", "")
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad boolean, got %d", res.Code)
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := newTestHandler(config.Config{
		APIRateLimitRPS:   1,
		APIRateLimitBurst: 1,
	})

	res1 := serve(handler, http.MethodGet, "/healthz", "")
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	res2 := serve(handler, http.MethodGet, "/healthz", "")
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestBackpressureMiddlewareReturns503WhenSaturated(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan int, 1)
	rejected := 0

	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	})
	handler := backpressureMiddleware(base, 1, 20*time.Millisecond, func() { rejected++ })

	go func() {
		req := httptest.NewRequest(http.MethodPost, "/v1/analyze", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		done <- res.Code
	}()

	<-started

	res2 := serve(handler, http.MethodPost, "/v1/analyze", "")
	if res2.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for saturated backpressure gate, got %d", res2.Code)
	}
	if rejected != 1 {
		t.Fatalf("expected one rejection callback, got %d", rejected)
	}

	var resp map[string]any
	if err := json.NewDecoder(bytes.NewReader(res2.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("decode overload response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected overload error message in response")
	}

	close(release)

	select {
	case code := <-done:
		if code != http.StatusNoContent {
			t.Fatalf("first request expected 204, got %d", code)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for first request completion")
	}
}

type runnerFake struct {
	analyzerFake
	analysis *domain.Analysis
}

func (f *runnerFake) Run(_ context.Context, _ string) (*domain.Analysis, error) {
	return f.analysis, nil
}

func TestAnalyzeEndpointRecordsUniqueTaskCount(t *testing.T) {
	tests := []struct {
		name     string
		analyzer ports.CorrespondenceAnalyzer
	}{
		{
			name: "structured run",
			analyzer: &runnerFake{analysis: &domain.Analysis{
				Result: domain.AnalysisResult{
					SentimentCategory: domain.CategoryNeutral,
					StaffTasks:        []string{rules.DefaultTaskLine, rules.ReviewTaskLine},
				},
			}},
		},
		{
			name: "formatted lines only",
			analyzer: &analyzerFake{result: &domain.AnalysisResult{
				SentimentCategory: domain.CategoryNeutral,
				StaffTasks:        []string{rules.DefaultTaskLine, rules.ReviewTaskLine},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewHTTPServerMetrics("api-test")
			handler := NewRouter(config.Config{}, tt.analyzer, &ingestorFake{}, &readerFake{}, WithMetrics(m)).Handler()

			res := serve(handler, http.MethodPost, "/v1/analyze", `{"text":"Nothing to do here at all."}`)
			if res.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", res.Code)
			}

			scrape := serve(handler, http.MethodGet, "/metrics", "").Body.String()
			want := `corr_analysis_staff_tasks_sum{endpoint="analyze",service="api"} 0`
			if !strings.Contains(scrape, want) {
				t.Fatalf("expected %q in scrape output:\n%s", want, scrape)
			}
		})
	}
}
