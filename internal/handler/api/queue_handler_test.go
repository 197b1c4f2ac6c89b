package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jukewave/jukewave/config"
	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/auth"
)

type stubQueueUC struct {
	receipt   *domain.SubmitReceipt
	submitErr error
	submitted []string
	entries   []domain.Submission
}

func (s *stubQueueUC) SubmitEntry(submitter, contentRef string, bid uint64) (*domain.SubmitReceipt, error) {
	s.submitted = append(s.submitted, submitter)
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	if s.receipt != nil {
		return s.receipt, nil
	}
	return &domain.SubmitReceipt{Queued: true, Position: 1, Bid: bid}, nil
}

func (s *stubQueueUC) Advance() (*domain.Submission, error) {
	return nil, domain.ErrTooEarly
}

func (s *stubQueueUC) NowPlaying() (*domain.NowPlayingView, error) {
	return &domain.NowPlayingView{ContentRef: "head", Remaining: 42, Playing: true}, nil
}

func (s *stubQueueUC) Metadata() (*domain.QueueMetadata, error) {
	return &domain.QueueMetadata{TotalCount: len(s.entries)}, nil
}

func (s *stubQueueUC) Count() int { return len(s.entries) }

func (s *stubQueueUC) EntryAt(index int) (*domain.Submission, error) {
	if index < 0 || index >= len(s.entries) {
		return nil, domain.ErrOutOfRange
	}
	return &s.entries[index], nil
}

func (s *stubQueueUC) RefreshSnapshots() {}

func newTestRouter(t *testing.T, uc domain.QueueUsecase) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := auth.NewJWTAuthService(config.AuthConfig{
		AccessSecret:   "test-secret",
		AccessTokenTTL: time.Hour,
	})
	token, err := authService.GenerateAccessToken("0xalice")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	router := gin.New()
	SetupRoutes(router, NewQueueHandler(uc, &stubLedger{}), NewAccountHandler(nil, authService), authService)
	return router, token
}

type stubLedger struct{}

func (s *stubLedger) RecordEvent(event *domain.QueueEvent) error { return nil }

func (s *stubLedger) RecentEvents(limit int) ([]*domain.QueueEvent, error) {
	return []*domain.QueueEvent{}, nil
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitRequiresAuth(t *testing.T) {
	uc := &stubQueueUC{}
	router, _ := newTestRouter(t, uc)

	rec := doRequest(router, http.MethodPost, "/api/v1/queue", "", SubmitRequest{ContentRef: "ref", Bid: 1})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(uc.submitted) != 0 {
		t.Fatal("handler reached the usecase without a token")
	}
}

func TestSubmitUsesTokenAddress(t *testing.T) {
	uc := &stubQueueUC{}
	router, token := newTestRouter(t, uc)

	rec := doRequest(router, http.MethodPost, "/api/v1/queue", token, SubmitRequest{ContentRef: "https://youtu.be/abc", Bid: 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	if len(uc.submitted) != 1 || uc.submitted[0] != "0xalice" {
		t.Fatalf("submitted as %v, want the token's address", uc.submitted)
	}
}

func TestSubmitMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"content too long", domain.ErrContentTooLong, http.StatusBadRequest},
		{"zero bid", domain.ErrZeroBid, http.StatusBadRequest},
		{"reentrant", domain.ErrReentrantCall, http.StatusConflict},
		{"payment failed", domain.ErrPaymentFailed, http.StatusPaymentRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, token := newTestRouter(t, &stubQueueUC{submitErr: tc.err})
			rec := doRequest(router, http.MethodPost, "/api/v1/queue", token, SubmitRequest{ContentRef: "ref", Bid: 1})
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestSubmitReportsPaidButNotQueued(t *testing.T) {
	uc := &stubQueueUC{receipt: &domain.SubmitReceipt{Queued: false, Bid: 2}}
	router, token := newTestRouter(t, uc)

	rec := doRequest(router, http.MethodPost, "/api/v1/queue", token, SubmitRequest{ContentRef: "ref", Bid: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for paid-but-outranked", rec.Code)
	}

	var envelope struct {
		Data domain.SubmitReceipt `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Queued {
		t.Fatal("receipt reports queued, want queued = false")
	}
}

func TestPublicReadsNeedNoToken(t *testing.T) {
	uc := &stubQueueUC{entries: []domain.Submission{
		{ContentRef: "head", Bid: 3, Submitter: "0xowner", CreatedAt: time.Now()},
	}}
	router, _ := newTestRouter(t, uc)

	for _, path := range []string{
		"/api/v1/queue/now-playing",
		"/api/v1/queue/metadata",
		"/api/v1/queue/count",
		"/api/v1/queue/entries/0",
		"/api/v1/queue/events",
	} {
		rec := doRequest(router, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestEntryAtOutOfRange(t *testing.T) {
	router, _ := newTestRouter(t, &stubQueueUC{})

	rec := doRequest(router, http.MethodGet, "/api/v1/queue/entries/7", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = doRequest(router, http.MethodGet, "/api/v1/queue/entries/x", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for non-integer index", rec.Code)
	}
}
