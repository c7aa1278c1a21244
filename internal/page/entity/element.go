package entity

import (
	"fmt"
	"sync"
)

// Text written to output elements.
const (
	FetchErrorText = "Error fetching data"
	VerifiedText   = "Verified OK"
)

// HashText renders a hash result the way the register page shows it.
func HashText(encoded, hex string) string {
	return fmt.Sprintf("Encoded: %s\nHex: %s\n", encoded, hex)
}

// Element is a text-bearing node owned by the page. Writers only set or
// append; Text is for whoever displays the page.
type Element interface {
	SetText(text string)
	AppendText(text string)
	Text() string
}

// TextElement is an in-memory Element, safe for concurrent use.
type TextElement struct {
	mu   sync.RWMutex
	text string
}

func NewTextElement() *TextElement {
	return &TextElement{}
}

func (e *TextElement) SetText(text string) {
	e.mu.Lock()
	e.text = text
	e.mu.Unlock()
}

func (e *TextElement) AppendText(text string) {
	e.mu.Lock()
	e.text += text
	e.mu.Unlock()
}

func (e *TextElement) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}
