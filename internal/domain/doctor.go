package domain

import "strings"

const (
	DefaultSlotGap   = 15
	DefaultMaxTokens = 30
)

type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Qualifications string `json:"qualifications"`
	Specialty      string `json:"specialty"`
	Hospital       string `json:"hospital"`
	Timing         string `json:"timing"`
	Image          string `json:"image"`
	Fee            int64  `json:"fee"`
	SlotGap        int    `json:"slot_gap"`
	MaxTokens      int    `json:"max_tokens"`
	IsActive       bool   `json:"is_active"`
}

func (d Doctor) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return NewValidationError("name", "doctor name is required")
	case strings.TrimSpace(d.Specialty) == "":
		return NewValidationError("specialty", "specialty is required")
	case strings.TrimSpace(d.Timing) == "":
		return NewValidationError("timing", "timing is required")
	case d.Fee < 0:
		return NewValidationError("fee", "fee must not be negative")
	case d.SlotGap <= 0:
		return NewValidationError("slot_gap", "slot gap must be positive")
	case d.MaxTokens <= 0:
		return NewValidationError("max_tokens", "max tokens must be positive")
	}
	return nil
}
