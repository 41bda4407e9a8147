package ingestion

import (
	"regexp"
	"strings"
	"time"

	"github.com/nordhaul/pickup-coordinator/internal/outlook"
	"github.com/nordhaul/pickup-coordinator/internal/validators"
)

// Candidate is a pickup proposal extracted from one calendar event.
type Candidate struct {
	ReferenceNumber  string
	Company          string
	ScheduledDate    time.Time
	GoodsDescription string
}

var (
	refPattern     = regexp.MustCompile(`(?i)REF[:\-\s]*([A-Z0-9\-]+)`)
	companyPattern = regexp.MustCompile(`(?i)Company[:\-\s]*([^\n]+)`)
	goodsPattern   = regexp.MustCompile(`(?i)Goods[:\-\s]*([^\n]+)`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ParseEvent extracts a pickup candidate from a calendar event. The subject
// form "REF-12345 | Company | Goods" wins; otherwise the body is scanned for
// labeled lines. Unparsable content yields (nil, true) — a skip, not an
// error. Only a missing start date makes the event structurally invalid.
func ParseEvent(ev outlook.Event) (c *Candidate, ok bool) {
	if ev.Start.IsZero() {
		return nil, false
	}

	if c := parseSubject(ev.Subject, ev.Start); c != nil {
		return c, true
	}
	if c := parseBody(ev.Body, ev.Start); c != nil {
		return c, true
	}

	return nil, true
}

func parseSubject(subject string, start time.Time) *Candidate {
	parts := strings.Split(subject, "|")
	if len(parts) < 2 {
		return nil
	}

	ref := validators.NormalizeReference(parts[0])
	if !validators.IsValidReference(ref) {
		return nil
	}

	goods := "Not specified"
	if len(parts) >= 3 && strings.TrimSpace(parts[2]) != "" {
		goods = strings.TrimSpace(parts[2])
	}

	return &Candidate{
		ReferenceNumber:  ref,
		Company:          strings.TrimSpace(parts[1]),
		ScheduledDate:    start,
		GoodsDescription: goods,
	}
}

func parseBody(body string, start time.Time) *Candidate {
	text := stripHTML(body)

	refMatch := refPattern.FindStringSubmatch(text)
	companyMatch := companyPattern.FindStringSubmatch(text)
	if refMatch == nil || companyMatch == nil {
		return nil
	}

	ref := validators.NormalizeReference(refMatch[1])
	if !validators.IsValidReference(ref) {
		return nil
	}

	goods := "Not specified"
	if m := goodsPattern.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		goods = strings.TrimSpace(m[1])
	}

	return &Candidate{
		ReferenceNumber:  ref,
		Company:          strings.TrimSpace(companyMatch[1]),
		ScheduledDate:    start,
		GoodsDescription: goods,
	}
}

func stripHTML(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "&nbsp;", " ")
}
