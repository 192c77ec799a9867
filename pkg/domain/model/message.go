package model

import "strings"

// Message is an inbound message delivered by the transport: sender address,
// raw text body and optionally image bytes already downloaded from the
// platform's media URL.
type Message struct {
	Sender string
	Text   string
	Image  []byte
}

// NewMessage creates a text-only message
func NewMessage(sender, text string) *Message {
	return &Message{Sender: sender, Text: strings.TrimSpace(text)}
}

// NewImageMessage creates a message carrying image bytes and an optional caption
func NewImageMessage(sender, caption string, image []byte) *Message {
	return &Message{Sender: sender, Text: strings.TrimSpace(caption), Image: image}
}

// HasImage reports whether the message carries image bytes
func (m *Message) HasImage() bool {
	return len(m.Image) > 0
}
