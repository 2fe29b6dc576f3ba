package http

import (
	"errors"
	"net/http"

	"credify-backend/internal/domain/kyc"
	kycuc "credify-backend/internal/usecase/kyc"

	"github.com/labstack/echo/v4"
)

type KYCHandler struct{ uc *kycuc.Usecase }

func NewKYCHandler(uc *kycuc.Usecase) *KYCHandler { return &KYCHandler{uc: uc} }

type imageReq struct {
	Image string `json:"image" validate:"required,dataurl"`
}

type faceComparisonReq struct {
	AadhaarFaceImage string `json:"aadhaarFaceImage"`
	LiveImage        string `json:"liveImage"`
}

type kycStatusResp struct {
	Role         string `json:"role"`
	Email        string `json:"email"`
	KycCompleted bool   `json:"kyc_completed"`
}

func sessionResp(c echo.Context, code int, s *kyc.Session, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(code, s.View())
}

func (h *KYCHandler) Start(c echo.Context) error {
	cl := claims(c)
	s, err := h.uc.StartSession(c.Request().Context(), cl.Role, cl.Email)
	return sessionResp(c, http.StatusCreated, s, err)
}

func (h *KYCHandler) Get(c echo.Context) error {
	s, err := h.uc.GetSession(c.Request().Context(), c.Param("id"), claims(c).Email)
	return sessionResp(c, http.StatusOK, s, err)
}

// UploadDocument answers 200 even when no face is found; the session then
// stays in DocumentUploaded and carries the reason in error.
func (h *KYCHandler) UploadDocument(c echo.Context) error {
	var req imageReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s, err := h.uc.UploadDocument(c.Request().Context(), c.Param("id"), claims(c).Email, req.Image)
	return sessionResp(c, http.StatusOK, s, err)
}

func (h *KYCHandler) RetryExtraction(c echo.Context) error {
	s, err := h.uc.RetryExtraction(c.Request().Context(), c.Param("id"), claims(c).Email)
	return sessionResp(c, http.StatusOK, s, err)
}

func (h *KYCHandler) CaptureLive(c echo.Context) error {
	var req imageReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s, err := h.uc.CaptureLive(c.Request().Context(), c.Param("id"), claims(c).Email, req.Image)
	return sessionResp(c, http.StatusOK, s, err)
}

// Verify returns the final session; a rejected comparison is a normal 200
// response in state Failed.
func (h *KYCHandler) Verify(c echo.Context) error {
	s, err := h.uc.Verify(c.Request().Context(), c.Param("id"), claims(c).Email)
	return sessionResp(c, http.StatusOK, s, err)
}

func (h *KYCHandler) Status(c echo.Context) error {
	cl := claims(c)
	done, err := h.uc.Status(c.Request().Context(), cl.Role, cl.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, kycStatusResp{Role: cl.Role, Email: cl.Email, KycCompleted: done})
}

// CompareFaces relays a raw comparison to the face service.
func (h *KYCHandler) CompareFaces(c echo.Context) error {
	var req faceComparisonReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	res, err := h.uc.Compare(c.Request().Context(), req.AadhaarFaceImage, req.LiveImage)
	switch {
	case errors.Is(err, kyc.ErrMissingImages):
		return badRequest(c, "Both images are required")
	case errors.Is(err, kyc.ErrFaceServiceMissing):
		return c.JSON(http.StatusInternalServerError, kyc.Comparison{Error: "Face comparison service not configured"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, kyc.Comparison{Error: "Face comparison failed. " + err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}
