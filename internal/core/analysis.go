package core

import (
	"errors"
	"strings"
	"time"
)

// Analysis is one generated cash-flow recommendation from the language
// model, recorded for later write-back to the spreadsheet.
type Analysis struct {
	Model     string
	Content   string
	CreatedAt time.Time
}

var (
	ErrEmptyAnalysis = errors.New("empty analysis content")
	ErrEmptyModel    = errors.New("empty model name")
)

func (a Analysis) Validate() error {
	if strings.TrimSpace(a.Model) == "" {
		return ErrEmptyModel
	}
	if strings.TrimSpace(a.Content) == "" {
		return ErrEmptyAnalysis
	}
	return nil
}
