package scheduling

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSignature is returned for missing, malformed, stale or forged
// webhook signatures.
var ErrInvalidSignature = errors.New("scheduling: invalid webhook signature")

// DefaultTolerance bounds how old a signed notification may be.
const DefaultTolerance = 3 * time.Minute

// Verifier checks the "t=<unix>,v1=<hex hmac>" signature header the calendar
// provider attaches to each notification.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier returns a Verifier for secret. A zero tolerance uses
// DefaultTolerance.
func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{secret: []byte(secret), tolerance: tolerance, now: time.Now}
}

// Verify reports whether header carries a valid signature for payload.
func (v *Verifier) Verify(payload []byte, header string) error {
	if len(v.secret) == 0 {
		return fmt.Errorf("%w: no signing secret configured", ErrInvalidSignature)
	}

	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = val
		case "v1":
			sig = val
		}
	}
	if ts == "" || sig == "" {
		return fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	if age := v.now().Sub(time.Unix(unix, 0)); age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	want, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(want, mac(v.secret, ts, payload)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}
	return nil
}

// Sign produces a header Verify accepts. Used by tests and local tooling.
func Sign(secret string, payload []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac([]byte(secret), ts, payload))
}

func mac(secret []byte, ts string, payload []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(ts))
	h.Write([]byte("."))
	h.Write(payload)
	return h.Sum(nil)
}

// Scheduled is an invitee.created notification reduced to what a booking
// needs.
type Scheduled struct {
	BookingID uuid.UUID
	StartTime time.Time
	EventURI  string
}

type notification struct {
	Event   string `json:"event"`
	Payload struct {
		ScheduledEvent struct {
			URI       string    `json:"uri"`
			StartTime time.Time `json:"start_time"`
		} `json:"scheduled_event"`
		Tracking struct {
			UTMContent string `json:"utm_content"`
		} `json:"tracking"`
	} `json:"payload"`
}

// ParseNotification decodes a verified notification. ok is false for event
// types other than invitee.created.
func ParseNotification(payload []byte) (s Scheduled, ok bool, err error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return Scheduled{}, false, fmt.Errorf("scheduling.ParseNotification: %w", err)
	}
	if n.Event != "invitee.created" {
		return Scheduled{}, false, nil
	}

	id, err := uuid.Parse(n.Payload.Tracking.UTMContent)
	if err != nil {
		return Scheduled{}, false, fmt.Errorf("scheduling.ParseNotification: utm_content is not a booking id: %w", err)
	}
	return Scheduled{
		BookingID: id,
		StartTime: n.Payload.ScheduledEvent.StartTime,
		EventURI:  n.Payload.ScheduledEvent.URI,
	}, true, nil
}
