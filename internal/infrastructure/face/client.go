package face

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"credify-backend/internal/domain/kyc"
)

const (
	defaultTimeout = 2 * time.Minute
	method         = "insightface-buffalo_l-hf"
	maxErrBody     = 200
)

var ErrTimeout = errors.New("Request timed out. The face service may be waking up. Try again in a moment.")

// Client talks to the external face comparison service.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type compareRequest struct {
	AadhaarFaceImage string `json:"aadhaarFaceImage"`
	LiveImage        string `json:"liveImage"`
}

type compareResponse struct {
	Success       bool    `json:"success"`
	Similarity    float64 `json:"similarity"`
	Threshold     float64 `json:"threshold"`
	Match         bool    `json:"match"`
	RawSimilarity float64 `json:"raw_similarity"`
	Error         string  `json:"error"`
}

// Compare implements kyc.FaceComparer.
func (c *Client) Compare(ctx context.Context, documentImage, liveImage string) (kyc.Comparison, error) {
	body, err := json.Marshal(compareRequest{AadhaarFaceImage: documentImage, LiveImage: liveImage})
	if err != nil {
		return kyc.Comparison{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/compare", bytes.NewReader(body))
	if err != nil {
		return kyc.Comparison{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return kyc.Comparison{}, ErrTimeout
		}
		return kyc.Comparison{}, fmt.Errorf("face service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return kyc.Comparison{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		text := string(respBody)
		if len(text) > maxErrBody {
			text = text[:maxErrBody]
		}
		return kyc.Comparison{}, fmt.Errorf("face service returned %d: %s", resp.StatusCode, text)
	}

	var r compareResponse
	if err := json.Unmarshal(respBody, &r); err != nil {
		return kyc.Comparison{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if !r.Success {
		msg := r.Error
		if msg == "" {
			msg = "face comparison was not successful"
		}
		return kyc.Comparison{}, errors.New(msg)
	}
	if r.Threshold == 0 {
		r.Threshold = kyc.DefaultThreshold
	}
	return kyc.Comparison{
		Success:       true,
		Similarity:    r.Similarity,
		Threshold:     r.Threshold,
		Match:         r.Match,
		RawSimilarity: r.RawSimilarity,
		Method:        method,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
