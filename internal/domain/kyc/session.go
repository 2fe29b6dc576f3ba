package kyc

import (
	"context"
	"errors"
	"time"
)

type State string

const (
	StateIdle             State = "Idle"
	StateDocumentUploaded State = "DocumentUploaded"
	StateFaceExtracted    State = "FaceExtracted"
	StateLiveCaptured     State = "LiveCaptured"
	StateVerifying        State = "Verifying"
	StateKycComplete      State = "KycComplete"
	StateFailed           State = "Failed"
)

var (
	ErrSessionNotFound    = errors.New("kyc session not found")
	ErrInvalidTransition  = errors.New("invalid kyc state transition")
	ErrInvalidImage       = errors.New("image must be a base64 data URL")
	ErrFaceServiceMissing = errors.New("face comparison service is not configured")
	ErrMissingImages      = errors.New("both images are required")
)

// DefaultThreshold is the similarity percentage a comparison must reach.
const DefaultThreshold = 75.0

var transitions = map[State][]State{
	StateIdle:             {StateDocumentUploaded},
	StateDocumentUploaded: {StateDocumentUploaded, StateFaceExtracted},
	StateFaceExtracted:    {StateLiveCaptured},
	StateLiveCaptured:     {StateVerifying},
	StateVerifying:        {StateKycComplete, StateFailed},
}

func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool { return s == StateKycComplete || s == StateFailed }

type Session struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Email         string    `json:"email"`
	State         State     `json:"state"`
	DocumentImage string    `json:"document_image,omitempty"`
	FaceReference string    `json:"face_reference,omitempty"`
	LiveImage     string    `json:"live_image,omitempty"`
	Similarity    float64   `json:"similarity"`
	Threshold     float64   `json:"threshold"`
	Match         bool      `json:"match"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MoveTo applies a transition and stamps the session.
func (s *Session) MoveTo(to State, now time.Time) error {
	if !CanTransition(s.State, to) {
		return ErrInvalidTransition
	}
	s.State = to
	s.UpdatedAt = now
	return nil
}

// Comparison is the outcome reported by the face comparison service.
type Comparison struct {
	Success       bool    `json:"success"`
	Similarity    float64 `json:"similarity"`
	Threshold     float64 `json:"threshold"`
	Match         bool    `json:"match"`
	RawSimilarity float64 `json:"rawSimilarity,omitempty"`
	Method        string  `json:"method,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// Passed applies the acceptance rule: similarity at or above the threshold and an explicit match.
func (c Comparison) Passed(threshold float64) bool {
	return c.Success && c.Match && c.Similarity >= threshold
}

type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
}

type FlagStore interface {
	Set(ctx context.Context, role, email string) error
	Get(ctx context.Context, role, email string) (bool, error)
}

type FaceComparer interface {
	Compare(ctx context.Context, documentImage, liveImage string) (Comparison, error)
}

// FaceDetector confirms a document image contains a face.
type FaceDetector interface {
	DetectFace(ctx context.Context, mimeType string, image []byte) (bool, error)
}

// SessionView is a session without its image payloads.
type SessionView struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	State       State     `json:"state"`
	HasDocument bool      `json:"has_document"`
	HasFace     bool      `json:"has_face"`
	HasLive     bool      `json:"has_live"`
	Similarity  float64   `json:"similarity"`
	Threshold   float64   `json:"threshold"`
	Match       bool      `json:"match"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Session) View() SessionView {
	return SessionView{
		ID:          s.ID,
		Role:        s.Role,
		State:       s.State,
		HasDocument: s.DocumentImage != "",
		HasFace:     s.FaceReference != "",
		HasLive:     s.LiveImage != "",
		Similarity:  s.Similarity,
		Threshold:   s.Threshold,
		Match:       s.Match,
		Error:       s.Error,
		UpdatedAt:   s.UpdatedAt,
	}
}
