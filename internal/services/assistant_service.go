package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"charity-auction/internal/groq"
)

// Assistant is the LLM boundary used by the chat, description, and audit
// flows. Defined as an interface so tests can count and fake calls.
type Assistant interface {
	Complete(ctx context.Context, req groq.CompletionRequest) (string, error)
}

// guardianPersona is the system prompt of the general chat assistant.
const guardianPersona = `Bạn là SUI CHARITY GUARDIAN 💙 – trợ lý của nền tảng đấu giá NFT thiện nguyện "Sui Charity Auction" trên Sui Blockchain.

Luôn trả lời bằng tiếng Việt, giọng điệu chân thành, ấm áp, khích lệ hành động thiện nguyện, dùng emoji 💙 ❤️ 🏫 khi phù hợp.

Kiến thức nền (chỉ dùng thông tin này, không tự sáng tạo thêm):
- Nền tảng đấu giá NFT gây quỹ cho các hoàn cảnh khó khăn và xây trường học vùng cao.
- Giá khởi điểm: 5-20 SUI (vật phẩm thường), 50-200 SUI (tác phẩm nghệ thuật), trên 500 SUI (vật phẩm hiếm).
- Giao dịch qua Smart Contract trên Sui Network, theo dõi trực tiếp trên Sui Explorer.
- NFT chính chủ do ví Admin đúc; chỉ NFT có dấu tích xanh là hàng thật.
- Tham gia: kết nối ví Sui, đặt giá cao hơn người trước tối thiểu 5%. Nếu không thắng, tiền được Smart Contract trả về ví tự động.
- 100% tiền đấu giá được chuyển thẳng đến ví công khai của quỹ, không qua trung gian.

Không hứa hẹn lợi nhuận tài chính. Trả lời ngắn gọn, dễ hiểu, kết thúc bằng lời mời tương tác.`

// descriptionPersona is the system prompt of the description-writing flow.
const descriptionPersona = `Bạn là chuyên gia viết bài giới thiệu vật phẩm đấu giá NFT thiện nguyện, giọng văn xúc động, truyền cảm hứng, nhấn mạnh giá trị nghệ thuật và ý nghĩa nhân văn.`

// auditorPersona is the system prompt of the document audit flow. The model
// must answer with a strict JSON object.
const auditorPersona = `Bạn là chuyên gia thẩm định hồ sơ pháp lý của hệ thống Sui Charity. Đọc văn bản trích xuất từ hồ sơ PDF và đối chiếu với tên quỹ đăng ký. Chấm điểm: 100 nếu tên quỹ khớp hoàn toàn; 70-90 nếu khớp một phần hoặc hồ sơ có thông tin hợp lệ; dưới 50 nếu hồ sơ không liên quan hoặc văn bản trống. Chỉ trả về kết quả định dạng JSON: { "is_valid": boolean, "score": number, "summary": "string", "reason": "string" }`

// Fallback texts for the optional description-generation fields.
const (
	fallbackItemName = "Vật phẩm đặc biệt"
	fallbackStory    = "Một tác phẩm được tạo ra từ trái tim"
	fallbackCause    = "Hỗ trợ mổ tim cho trẻ em nghèo hoặc xây trường học vùng cao"
	fallbackDonor    = "Một nhà thiện nguyện ẩn danh"
)

// AssistantService relays chat and description requests to the LLM. It is
// stateless; conversation history travels with each request.
type AssistantService struct {
	assistant Assistant
	log       *logrus.Entry
}

// NewAssistantService creates a new AssistantService
func NewAssistantService(assistant Assistant, logger *logrus.Logger) *AssistantService {
	return &AssistantService{
		assistant: assistant,
		log:       logger.WithField("component", "assistant"),
	}
}

// Chat relays one user message plus history to the guardian persona. A
// request typed "generate_description" is routed to the description flow
// instead, treating the message as the item name.
func (s *AssistantService) Chat(ctx context.Context, message string, history []groq.Message, requestType string) (string, error) {
	if requestType == "generate_description" {
		return s.assistant.Complete(ctx, groq.CompletionRequest{
			Messages: []groq.Message{
				{Role: "system", Content: descriptionPersona},
				{Role: "user", Content: fmt.Sprintf("Write a description for: %s", message)},
			},
		})
	}

	messages := make([]groq.Message, 0, len(history)+2)
	messages = append(messages, groq.Message{Role: "system", Content: guardianPersona})
	messages = append(messages, history...)
	messages = append(messages, groq.Message{Role: "user", Content: message})

	return s.assistant.Complete(ctx, groq.CompletionRequest{
		Messages:    messages,
		Temperature: 0.6,
		MaxTokens:   1024,
	})
}

// GenerateDescription writes an auction item description. All fields are
// optional; absent ones fall back to fixed texts.
func (s *AssistantService) GenerateDescription(ctx context.Context, itemName, story, cause, donorName string) (string, error) {
	if itemName == "" {
		itemName = fallbackItemName
	}
	if story == "" {
		story = fallbackStory
	}
	if cause == "" {
		cause = fallbackCause
	}
	if donorName == "" {
		donorName = fallbackDonor
	}

	prompt := fmt.Sprintf(`Hãy viết một đoạn mô tả hấp dẫn cho vật phẩm đấu giá sau:

Tên vật phẩm: %s
Câu chuyện: %s
Mục đích gây quỹ: %s
Người quyên góp: %s

Yêu cầu:
- Dùng ngôn ngữ tiếng Việt ấm áp, giàu cảm xúc.
- Kết thúc bằng lời kêu gọi đấu giá để cùng nhau tạo ra thay đổi.
- Độ dài khoảng 200-300 từ.
- Thêm emoji phù hợp 💙❤️`, itemName, story, cause, donorName)

	return s.assistant.Complete(ctx, groq.CompletionRequest{
		Messages: []groq.Message{
			{Role: "system", Content: guardianPersona},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.8,
		MaxTokens:   800,
	})
}
