package kyc

import (
	"errors"
	"testing"
	"time"
)

func TestMoveTo_HappyPath(t *testing.T) {
	s := &Session{State: StateIdle}
	now := time.Now()
	for _, to := range []State{StateDocumentUploaded, StateFaceExtracted, StateLiveCaptured, StateVerifying, StateKycComplete} {
		if err := s.MoveTo(to, now); err != nil {
			t.Fatalf("MoveTo(%s): %v", to, err)
		}
	}
	if !s.State.Terminal() {
		t.Fatalf("expected terminal state, got %s", s.State)
	}
}

func TestMoveTo_Rejected(t *testing.T) {
	cases := []struct{ from, to State }{
		{StateIdle, StateLiveCaptured},
		{StateIdle, StateVerifying},
		{StateDocumentUploaded, StateLiveCaptured},
		{StateFaceExtracted, StateVerifying},
		{StateKycComplete, StateDocumentUploaded},
		{StateFailed, StateVerifying},
	}
	for _, c := range cases {
		s := &Session{State: c.from}
		if err := s.MoveTo(c.to, time.Now()); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> %s: want ErrInvalidTransition, got %v", c.from, c.to, err)
		}
		if s.State != c.from {
			t.Fatalf("state changed on rejected transition")
		}
	}
}

func TestComparisonPassed(t *testing.T) {
	if !(Comparison{Success: true, Match: true, Similarity: 75}).Passed(75) {
		t.Fatal("similarity equal to threshold should pass")
	}
	if (Comparison{Success: true, Match: false, Similarity: 99}).Passed(75) {
		t.Fatal("missing match flag should fail")
	}
	if (Comparison{Success: true, Match: true, Similarity: 74.9}).Passed(75) {
		t.Fatal("below threshold should fail")
	}
}

func TestParseDataURL(t *testing.T) {
	mime, raw, err := ParseDataURL("data:image/png;base64,aGVsbG8=")
	if err != nil || mime != "image/png" || string(raw) != "hello" {
		t.Fatalf("got %q %q %v", mime, raw, err)
	}
	for _, bad := range []string{
		"",
		"image/png;base64,aGVsbG8=",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,aGVsbG8=",
		"data:image/png;base64,@@@",
		"data:image/png;base64,",
	} {
		if _, _, err := ParseDataURL(bad); !errors.Is(err, ErrInvalidImage) {
			t.Fatalf("%q: want ErrInvalidImage, got %v", bad, err)
		}
	}
}
