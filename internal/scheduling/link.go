// Package scheduling builds links into a trainer's external calendar and
// consumes the calendar's booking notifications.
package scheduling

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/casccoach/platform/backend/internal/domain"
)

// Link returns the trainer's calendar page with the invitee prefilled. The
// booking id travels as utm_content so the webhook can find the booking.
func Link(calendarLink, name, email string, bookingID uuid.UUID) (string, error) {
	u, err := ParseCalendarLink(calendarLink)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if name != "" {
		q.Set("name", name)
	}
	if email != "" {
		q.Set("email", email)
	}
	q.Set("utm_content", bookingID.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseCalendarLink accepts only absolute http or https URLs.
func ParseCalendarLink(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: calendar link must be an absolute http(s) URL", domain.ErrValidation)
	}
	return u, nil
}
