package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docrag/internal/document"
	fetchmocks "docrag/internal/fetch/mocks"
	"docrag/internal/ingest"
	"docrag/internal/service"
	"docrag/internal/service/mocks"
	storagemocks "docrag/internal/storage/mocks"
)

func TestNewIngestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIngestService := mocks.NewMockIngestService(ctrl)
	handler := NewIngestHandler(mockIngestService)

	if handler == nil {
		t.Fatal("NewIngestHandler() returned nil")
	}
	if handler.ingestService != mockIngestService {
		t.Error("NewIngestHandler() ingestService not set correctly")
	}
}

func TestIngestHandler_ServeHTTP(t *testing.T) {
	textReq := IngestRequest{SourceType: "text", Content: "# Title\n\nHello world.", DocumentType: "markdown"}
	svcTextReq := service.IngestRequest{SourceType: service.SourceText, Content: "# Title\n\nHello world.", DocumentType: "markdown"}

	tests := []struct {
		name       string
		method     string
		body       any
		mockSetup  func(*mocks.MockIngestService)
		wantStatus int
		want       IngestResponse
	}{
		{
			name:   "ingested",
			method: http.MethodPost,
			body:   textReq,
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().Ingest(gomock.Any(), svcTextReq).Return(service.IngestResult{
					Outcome: document.Outcome{
						Kind:          document.OutcomeIngested,
						ChunksCreated: 1,
						SourceID:      "text_0123456789",
						Fingerprint:   "0123456789abcdef",
					},
					Excerpt:  "Title Hello world.",
					RecordID: "rec-1",
				}, nil)
			},
			wantStatus: http.StatusOK,
			want: IngestResponse{
				Status:         StatusSuccess,
				Message:        "Document ingested successfully",
				ChunksCreated:  1,
				Outcome:        "ingested",
				SourceID:       "text_0123456789",
				Fingerprint:    "0123456789abcdef",
				ContentExcerpt: "Title Hello world.",
				IngestionID:    "rec-1",
			},
		},
		{
			name:   "duplicate",
			method: http.MethodPost,
			body:   textReq,
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().Ingest(gomock.Any(), svcTextReq).Return(service.IngestResult{
					Outcome: document.Outcome{Kind: document.OutcomeDuplicate, SourceID: "s"},
				}, nil)
			},
			wantStatus: http.StatusOK,
			want: IngestResponse{
				Status:        StatusSuccess,
				Message:       "Document already ingested",
				ChunksCreated: 0,
				Outcome:       "duplicate",
				SourceID:      "s",
			},
		},
		{
			name:   "empty document",
			method: http.MethodPost,
			body:   textReq,
			mockSetup: func(m *mocks.MockIngestService) {
				m.EXPECT().Ingest(gomock.Any(), svcTextReq).Return(service.IngestResult{
					Outcome: document.Outcome{Kind: document.OutcomeEmptyDocument},
				}, nil)
			},
			wantStatus: http.StatusOK,
			want: IngestResponse{
				Status:  StatusSuccess,
				Message: "Document contains no text",
				Outcome: "empty_document",
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockIngestService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockIngestService) {},
			wantStatus: http.StatusBadRequest,
			want:       IngestResponse{Status: StatusError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockIngestService := mocks.NewMockIngestService(ctrl)
			tt.mockSetup(mockIngestService)
			handler := NewIngestHandler(mockIngestService)

			req := httptest.NewRequest(tt.method, "/ingest", bytes.NewBuffer(encodeBody(t, tt.body)))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.want.Status == "" {
				return
			}

			var got IngestResponse
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if tt.want.Status == StatusError {
				if got.Status != StatusError || got.ChunksCreated != 0 || got.Message == "" {
					t.Errorf("ServeHTTP() error response = %+v", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ServeHTTP() response = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIngestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: &service.ValidationError{Field: "content", Message: "cannot be empty"}, wantStatus: http.StatusBadRequest},
		{name: "unsupported type", err: fmt.Errorf("%w: %q", document.ErrUnsupportedDocumentType, "docx"), wantStatus: http.StatusBadRequest},
		{name: "upstream fetch", err: service.WrapError(document.ErrUpstreamFetch, "failed to ingest document"), wantStatus: http.StatusBadGateway},
		{name: "embedding", err: document.ErrEmbedding, wantStatus: http.StatusBadGateway},
		{name: "store unavailable", err: document.ErrStoreUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockIngestService := mocks.NewMockIngestService(ctrl)
			mockIngestService.EXPECT().Ingest(gomock.Any(), gomock.Any()).
				Return(service.IngestResult{RecordID: "rec-9"}, tt.err)

			body := encodeBody(t, IngestRequest{SourceType: "url", Content: "https://example.com", DocumentType: "html"})
			req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBuffer(body))
			w := httptest.NewRecorder()

			NewIngestHandler(mockIngestService).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			var got IngestResponse
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			want := "Failed to ingest document: " + tt.err.Error()
			if got.Status != StatusError || got.ChunksCreated != 0 || got.Message != want || got.IngestionID != "rec-9" {
				t.Errorf("ServeHTTP() response = %+v, want error with message %q", got, want)
			}
		})
	}
}

// encodeBody marshals v, passing raw strings through unchanged.
func encodeBody(t *testing.T, v any) []byte {
	t.Helper()
	switch b := v.(type) {
	case nil:
		return nil
	case string:
		return []byte(b)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return data
}

func TestIngestHandler_EmptyTextIsEmptyDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ingester := mocks.NewMockIngester(ctrl)
	ledger := storagemocks.NewMockIngestionStore(ctrl)
	ingester.EXPECT().
		Ingest(gomock.Any(), ingest.Request{DocType: document.DocTypeText, Content: []byte("   ")}).
		Return(document.Outcome{Kind: document.OutcomeEmptyDocument, SourceID: "text_e3b0c44298"}, nil)
	ledger.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	svc := service.NewIngestService(ingester, fetchmocks.NewMockFetcher(ctrl), ledger, 1)

	body := encodeBody(t, IngestRequest{SourceType: "text", Content: "   ", DocumentType: "text"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	NewIngestHandler(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ServeHTTP() status = %v, want %v (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var got IngestResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Status != StatusSuccess || got.Outcome != "empty_document" || got.ChunksCreated != 0 {
		t.Errorf("ServeHTTP() response = %+v, want success empty_document with 0 chunks", got)
	}
}
