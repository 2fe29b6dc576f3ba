package kyc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"credify-backend/internal/domain/kyc"
	"credify-backend/internal/domain/user"
	"credify-backend/internal/metrics"
	"credify-backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNoFace        = "No face detected in the document. Please upload a clearer image."
	msgDetectFailed  = "Could not analyse the document image. Please try again."
	msgCompareFailed = "Face verification failed. "
)

type ProfileMarker interface {
	MarkKycCompleted(ctx context.Context, role, email string) error
}

type Usecase struct {
	sessions  kyc.SessionStore
	flags     kyc.FlagStore
	comparer  kyc.FaceComparer
	detector  kyc.FaceDetector
	profiles  ProfileMarker
	threshold float64
	now       func() time.Time
	newID     func() string
}

// NewUsecase wires the verification flow. A nil detector accepts every
// document and uses it unchanged as the face reference.
func NewUsecase(sessions kyc.SessionStore, flags kyc.FlagStore, comparer kyc.FaceComparer, detector kyc.FaceDetector, profiles ProfileMarker, threshold float64) *Usecase {
	if threshold <= 0 {
		threshold = kyc.DefaultThreshold
	}
	return &Usecase{
		sessions:  sessions,
		flags:     flags,
		comparer:  comparer,
		detector:  detector,
		profiles:  profiles,
		threshold: threshold,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (u *Usecase) Threshold() float64 { return u.threshold }

func (u *Usecase) StartSession(ctx context.Context, role, email string) (*kyc.Session, error) {
	if !user.Role(role).Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	now := u.now()
	s := &kyc.Session{
		ID:        u.newID(),
		Role:      role,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		State:     kyc.StateIdle,
		Threshold: u.threshold,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession loads a session owned by email.
func (u *Usecase) GetSession(ctx context.Context, id, email string) (*kyc.Session, error) {
	s, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Email != strings.ToLower(strings.TrimSpace(email)) {
		return nil, kyc.ErrSessionNotFound
	}
	return s, nil
}

// UploadDocument stores the document image and immediately tries face extraction.
func (u *Usecase) UploadDocument(ctx context.Context, id, email, dataURL string) (*kyc.Session, error) {
	mime, raw, err := kyc.ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	s, err := u.GetSession(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if err := s.MoveTo(kyc.StateDocumentUploaded, u.now()); err != nil {
		return nil, err
	}
	s.DocumentImage = dataURL
	s.FaceReference = ""
	s.Error = ""
	u.extract(ctx, s, mime, raw)
	return s, u.sessions.Save(ctx, s)
}

// RetryExtraction re-runs face extraction on the stored document.
func (u *Usecase) RetryExtraction(ctx context.Context, id, email string) (*kyc.Session, error) {
	s, err := u.GetSession(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if s.State != kyc.StateDocumentUploaded {
		return nil, kyc.ErrInvalidTransition
	}
	mime, raw, err := kyc.ParseDataURL(s.DocumentImage)
	if err != nil {
		return nil, err
	}
	u.extract(ctx, s, mime, raw)
	return s, u.sessions.Save(ctx, s)
}

// extract leaves the session in DocumentUploaded with Error set when no face is confirmed.
func (u *Usecase) extract(ctx context.Context, s *kyc.Session, mime string, raw []byte) {
	found := true
	if u.detector != nil {
		var err error
		found, err = u.detector.DetectFace(ctx, mime, raw)
		if err != nil {
			logger.Warn(ctx, "face detection failed", zap.String("session_id", s.ID), zap.Error(err))
			s.Error = msgDetectFailed
			return
		}
	}
	if !found {
		s.Error = msgNoFace
		return
	}
	// the document itself serves as the face reference
	s.FaceReference = s.DocumentImage
	s.Error = ""
	_ = s.MoveTo(kyc.StateFaceExtracted, u.now())
}

func (u *Usecase) CaptureLive(ctx context.Context, id, email, dataURL string) (*kyc.Session, error) {
	if _, _, err := kyc.ParseDataURL(dataURL); err != nil {
		return nil, err
	}
	s, err := u.GetSession(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if err := s.MoveTo(kyc.StateLiveCaptured, u.now()); err != nil {
		return nil, err
	}
	s.LiveImage = dataURL
	return s, u.sessions.Save(ctx, s)
}

// Verify compares the face reference with the live capture. Only a passing
// comparison sets the persisted flag; everything else ends in Failed.
func (u *Usecase) Verify(ctx context.Context, id, email string) (*kyc.Session, error) {
	s, err := u.GetSession(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if err := s.MoveTo(kyc.StateVerifying, u.now()); err != nil {
		return nil, err
	}
	if err := u.sessions.Save(ctx, s); err != nil {
		return nil, err
	}

	s.Threshold = u.threshold
	cmp, cerr := u.compare(ctx, s.FaceReference, s.LiveImage)
	// the outcome is recorded even if the client has gone away
	done := context.WithoutCancel(ctx)
	switch {
	case cerr != nil:
		logger.Warn(ctx, "face comparison failed", zap.String("session_id", s.ID), zap.Error(cerr))
		s.Error = msgCompareFailed + cerr.Error()
		_ = s.MoveTo(kyc.StateFailed, u.now())
		metrics.KYCVerifications.WithLabelValues("error").Inc()
	case cmp.Passed(u.threshold):
		s.Similarity, s.Match, s.Error = cmp.Similarity, cmp.Match, ""
		if err := u.flags.Set(done, s.Role, s.Email); err != nil {
			s.Error = msgCompareFailed + "Could not record the result, please try again."
			_ = s.MoveTo(kyc.StateFailed, u.now())
			_ = u.sessions.Save(done, s)
			return nil, fmt.Errorf("store kyc flag: %w", err)
		}
		_ = s.MoveTo(kyc.StateKycComplete, u.now())
		if u.profiles != nil {
			if err := u.profiles.MarkKycCompleted(done, s.Role, s.Email); err != nil {
				logger.Warn(ctx, "profile kyc flag not updated", zap.String("email", s.Email), zap.Error(err))
			}
		}
		metrics.KYCVerifications.WithLabelValues("passed").Inc()
		logger.Info(ctx, "kyc completed", zap.String("session_id", s.ID), zap.Float64("similarity", cmp.Similarity))
	default:
		s.Similarity, s.Match = cmp.Similarity, cmp.Match
		s.Error = rejectionMessage(cmp, u.threshold)
		_ = s.MoveTo(kyc.StateFailed, u.now())
		metrics.KYCVerifications.WithLabelValues("rejected").Inc()
	}

	if err := u.sessions.Save(done, s); err != nil {
		return nil, err
	}
	return s, nil
}

func rejectionMessage(c kyc.Comparison, threshold float64) string {
	switch {
	case !c.Success && c.Error != "":
		return msgCompareFailed + c.Error
	case c.Similarity < threshold:
		return fmt.Sprintf("%sSimilarity %.1f%% is below the required %.0f%%.", msgCompareFailed, c.Similarity, threshold)
	default:
		return msgCompareFailed + "The faces do not match."
	}
}

func (u *Usecase) compare(ctx context.Context, documentImage, liveImage string) (kyc.Comparison, error) {
	if u.comparer == nil {
		return kyc.Comparison{}, kyc.ErrFaceServiceMissing
	}
	return u.comparer.Compare(ctx, documentImage, liveImage)
}

// Compare relays a raw comparison request to the face service.
func (u *Usecase) Compare(ctx context.Context, documentImage, liveImage string) (kyc.Comparison, error) {
	if documentImage == "" || liveImage == "" {
		return kyc.Comparison{}, kyc.ErrMissingImages
	}
	c, err := u.compare(ctx, documentImage, liveImage)
	if err != nil {
		return kyc.Comparison{}, err
	}
	if c.Threshold == 0 {
		c.Threshold = kyc.DefaultThreshold
	}
	return c, nil
}

func (u *Usecase) Status(ctx context.Context, role, email string) (bool, error) {
	return u.flags.Get(ctx, role, strings.ToLower(strings.TrimSpace(email)))
}
