package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxClueLength bounds a single clue in runes
const MaxClueLength = 64

// Clue holds the hints written by an encoder, one per code digit
type Clue struct {
	EncoderID       string    `json:"encoderId"`
	EncoderNickname string    `json:"encoderNickname"`
	Words           []string  `json:"words"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewClue validates and normalizes the clue words
func NewClue(encoderID, encoderNickname string, words []string, count int) (*Clue, error) {
	if len(words) != count {
		return nil, ErrClueCount
	}

	normalized := make([]string, len(words))
	for i, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return nil, ErrEmptyClue
		}
		if utf8.RuneCountInString(w) > MaxClueLength {
			return nil, ErrClueTooLong
		}
		normalized[i] = w
	}

	return &Clue{
		EncoderID:       encoderID,
		EncoderNickname: encoderNickname,
		Words:           normalized,
		Timestamp:       time.Now(),
	}, nil
}
