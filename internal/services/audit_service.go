package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"charity-auction/internal/groq"
)

// maxDocumentChars bounds how much extracted text is sent to the assistant.
const maxDocumentChars = 4000

// Verdict is the assistant's structured audit result, passed through to the
// caller unmodified.
type Verdict struct {
	IsValid bool    `json:"is_valid"`
	Score   float64 `json:"score"`
	Summary string  `json:"summary"`
	Reason  string  `json:"reason"`
}

// AuditError is the typed failure of the audit pipeline. Summary is always
// non-empty and user-presentable; Stage tells the handler which leg failed.
type AuditError struct {
	Stage   string // "fetch", "extract", "assistant"
	Summary string
	Err     error
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("audit %s failed: %v", e.Stage, e.Err)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

// DocumentFetcher retrieves raw document bytes by content identifier.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, cid string) ([]byte, error)
}

// AuditService performs AI-assisted document auditing for charity
// registration: fetch the registration document by content address, extract
// its text, and have the assistant cross-check it against the declared name.
type AuditService struct {
	fetcher   DocumentFetcher
	assistant Assistant
	extract   func(data []byte) (string, error)
	log       *logrus.Entry
}

// NewAuditService creates a new AuditService
func NewAuditService(fetcher DocumentFetcher, assistant Assistant, logger *logrus.Logger) *AuditService {
	return &AuditService{
		fetcher:   fetcher,
		assistant: assistant,
		extract:   extractPDFText,
		log:       logger.WithField("component", "audit"),
	}
}

// SetExtractor replaces the document text extractor. The default reads PDF;
// callers can swap in extractors for other document formats.
func (s *AuditService) SetExtractor(extract func(data []byte) (string, error)) {
	s.extract = extract
}

// VerifyCharity runs the full audit pipeline for one registration document.
// Failures before the assistant call never reach the assistant.
func (s *AuditService) VerifyCharity(ctx context.Context, ipfsHash, charityName string) (*Verdict, error) {
	auditID := uuid.New().String()
	log := s.log.WithFields(logrus.Fields{"audit_id": auditID, "charity": charityName})

	data, err := s.fetcher.FetchDocument(ctx, ipfsHash)
	if err != nil {
		log.WithError(err).Error("document fetch failed")
		return nil, &AuditError{
			Stage:   "fetch",
			Summary: "Hệ thống không thể tải hồ sơ từ IPFS. Vui lòng kiểm tra lại mã hồ sơ.",
			Err:     err,
		}
	}

	documentText, err := s.extract(data)
	if err != nil {
		log.WithError(err).Error("text extraction failed")
		return nil, &AuditError{
			Stage:   "extract",
			Summary: "Hệ thống không thể đọc nội dung file PDF. Vui lòng kiểm tra định dạng file trên IPFS.",
			Err:     err,
		}
	}
	documentText = truncateText(documentText, maxDocumentChars)
	log.Info("document text extracted")

	reply, err := s.assistant.Complete(ctx, groq.CompletionRequest{
		Messages: []groq.Message{
			{Role: "system", Content: auditorPersona},
			{Role: "user", Content: fmt.Sprintf("Đối soát tên Quỹ: %q với nội dung hồ sơ PDF này: %s", charityName, documentText)},
		},
		JSONObject: true,
	})
	if err != nil {
		log.WithError(err).Error("assistant audit failed")
		return nil, &AuditError{
			Stage:   "assistant",
			Summary: "Lỗi kết nối AI hoặc xử lý dữ liệu.",
			Err:     err,
		}
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(reply), &verdict); err != nil {
		log.WithError(err).Error("assistant returned malformed verdict")
		return nil, &AuditError{
			Stage:   "assistant",
			Summary: "Lỗi kết nối AI hoặc xử lý dữ liệu.",
			Err:     fmt.Errorf("malformed verdict: %w", err),
		}
	}

	log.WithField("score", verdict.Score).Info("audit completed")
	return &verdict, nil
}

// truncateText caps s at max bytes without splitting a UTF-8 sequence,
// backing up to the nearest rune boundary.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// extractPDFText pulls plain text out of a PDF document.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}
