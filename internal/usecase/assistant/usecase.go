package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"credify-backend/internal/domain/loan"
	loanuc "credify-backend/internal/usecase/loan"
	"credify-backend/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrModelNotConfigured = errors.New("API Key not configured")
	ErrEmptyMessage       = errors.New("Message is required")
)

const (
	LangHindi   = "hi-IN"
	LangEnglish = "en-IN"

	roleUser  = "user"
	roleModel = "model"
)

// Message is one prior chat turn.
type Message struct {
	Role string
	Text string
}

// Model produces the assistant's next reply.
type Model interface {
	Generate(ctx context.Context, system string, history []Message, message string) (string, error)
}

type LoanApplier interface {
	Apply(ctx context.Context, in loanuc.ApplyInput) (*loan.Loan, error)
}

type ChatInput struct {
	BorrowerUID string
	Message     string
	History     []Message
}

type ChatResult struct {
	Reply string     `json:"reply"`
	Lang  string     `json:"lang"`
	Loan  *loan.Loan `json:"loan,omitempty"`
}

type Usecase struct {
	model Model
	loans LoanApplier
}

func NewUsecase(m Model, loans LoanApplier) *Usecase {
	return &Usecase{model: m, loans: loans}
}

// NormalizeRole maps any client role label onto user or model.
func NormalizeRole(role string) string {
	if role == roleUser {
		return roleUser
	}
	return roleModel
}

// Chat sends one turn to the model. A reply carrying a loan_request payload
// is stored through the same path as the application form, but only when a
// borrower is signed in.
func (u *Usecase) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, ErrEmptyMessage
	}
	if u.model == nil {
		return nil, ErrModelNotConfigured
	}

	history := make([]Message, 0, len(in.History))
	for _, m := range in.History {
		history = append(history, Message{Role: NormalizeRole(m.Role), Text: m.Text})
	}

	reply, err := u.model.Generate(ctx, SystemInstruction, history, in.Message)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	res := &ChatResult{Reply: reply, Lang: DetectLang(reply)}
	if u.loans == nil || in.BorrowerUID == "" {
		return res, nil
	}
	apply, ok := ExtractLoanRequest(reply)
	if !ok {
		return res, nil
	}
	apply.BorrowerUID = in.BorrowerUID
	l, err := u.loans.Apply(ctx, apply)
	if err != nil {
		logger.Debug(ctx, "assistant loan request rejected", zap.Error(err))
		return res, nil
	}
	res.Loan = l
	return res, nil
}

// DetectLang picks the speech voice: Hindi when the text has any Devanagari.
func DetectLang(text string) string {
	for _, r := range text {
		if unicode.In(r, unicode.Devanagari) {
			return LangHindi
		}
	}
	return LangEnglish
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// flexNumber accepts both 5000 and "5000".
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*f = flexNumber(v)
	return nil
}

type loanRequest struct {
	Intent string `json:"intent"`
	Data   struct {
		Amount         flexNumber `json:"amount"`
		Purpose        string     `json:"purpose"`
		Duration       flexNumber `json:"duration"`
		Rate           flexNumber `json:"rate"`
		IsBusinessLoan *bool      `json:"isBusinessLoan"`
		Category       string     `json:"category"`
	} `json:"data"`
}

// ExtractLoanRequest finds the outermost {...} in a reply and decodes a
// loan_request payload from it.
func ExtractLoanRequest(reply string) (loanuc.ApplyInput, bool) {
	raw := jsonObject.FindString(reply)
	if raw == "" {
		return loanuc.ApplyInput{}, false
	}
	var req loanRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil || req.Intent != "loan_request" {
		return loanuc.ApplyInput{}, false
	}
	business := true
	if req.Data.IsBusinessLoan != nil {
		business = *req.Data.IsBusinessLoan
	}
	return loanuc.ApplyInput{
		Amount:         float64(req.Data.Amount),
		Purpose:        req.Data.Purpose,
		Duration:       int(req.Data.Duration),
		Rate:           float64(req.Data.Rate),
		IsBusinessLoan: business,
		Category:       req.Data.Category,
		Source:         loan.SourceAssistant,
	}, true
}
