package card

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxMessageLength is the longest message, in characters, a card accepts.
const MaxMessageLength = 200

var (
	ErrMissingName    = errors.New("sender and receiver names are required")
	ErrMessageTooLong = errors.New("message is longer than 200 characters")
)

// Request is the raw form submission.
type Request struct {
	SenderHandle   string `json:"sender_handle"`
	SenderName     string `json:"sender_name"`
	ReceiverHandle string `json:"receiver_handle"`
	ReceiverName   string `json:"receiver_name"`
	Message        string `json:"message"`
}

// Validate checks the request before any lookup is attempted.
func (r Request) Validate() error {
	if strings.TrimSpace(r.SenderName) == "" || strings.TrimSpace(r.ReceiverName) == "" {
		return ErrMissingName
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Message)) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// AvatarResult is the image chosen for one party.
type AvatarResult struct {
	ImageURL   string
	IsFallback bool
}

// Data is everything needed to draw one card. It is built once by the
// Assembler and only read afterwards.
type Data struct {
	SenderName     string `json:"sender_name"`
	ReceiverName   string `json:"receiver_name"`
	SenderHandle   string `json:"sender_handle"`
	ReceiverHandle string `json:"receiver_handle"`
	Message        string `json:"message"`

	SenderAvatarURL        string `json:"sender_avatar_url"`
	ReceiverAvatarURL      string `json:"receiver_avatar_url"`
	SenderAvatarFallback   bool   `json:"sender_avatar_fallback"`
	ReceiverAvatarFallback bool   `json:"receiver_avatar_fallback"`

	// RawReceiverName is the trimmed name as typed, used for the file name.
	RawReceiverName string `json:"-"`
}

// Capitalize upper-cases the first letter of every word and leaves the rest alone.
func Capitalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			start = true
			b.WriteRune(r)
			continue
		}
		if start {
			r = unicode.ToUpper(r)
			start = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
