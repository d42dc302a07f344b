package model

import "time"

// AnswerSource records which path produced an answer.
type AnswerSource string

const (
	SourcePrimary  AnswerSource = "primary"
	SourceFallback AnswerSource = "fallback"
)

// ChatExchange is one question and its answer. Immutable once recorded.
type ChatExchange struct {
	ID        string       `json:"id"`
	Owner     string       `json:"-"`
	Question  string       `json:"question"`
	Language  string       `json:"language"`
	Answer    string       `json:"answer"`
	Source    AnswerSource `json:"source"`
	CreatedAt time.Time    `json:"timestamp"`
}

// HistoryFilter narrows list-by-owner queries. Zero values mean "no filter".
type HistoryFilter struct {
	Start    *time.Time
	End      *time.Time
	Language string
	FormType string
	Query    string
	Limit    int
}

// Default and maximum page sizes for history listings.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// EffectiveLimit clamps Limit into [1, MaxHistoryLimit].
func (f HistoryFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultHistoryLimit
	case f.Limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return f.Limit
	}
}
