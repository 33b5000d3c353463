package kb

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// DefaultThreshold is the minimum weighted score a row must reach to count as
// a match. Tuned for short colloquial queries.
const DefaultThreshold = 0.45

// User-facing reply texts for the non-match outcomes.
const (
	MsgEmptyQuestion = "Bạn hãy nhập câu hỏi."
	MsgNoMatch       = "Xin lỗi, tôi chưa có câu trả lời cho câu hỏi này."
	MsgNoAnswer      = "Câu này chưa có Answer."
	MsgNotLoaded     = "Xin lỗi, dữ liệu tri thức chưa được tải."
)

// Row is one knowledge-base entry. Price stays opaque text.
type Row struct {
	Question    string
	Answer      string
	ProductName string
	Category    string
	Description string
	Price       string
}

type fieldSpec struct {
	name   string
	weight float64
	get    func(Row) string
}

// Fields in descending order of trust as an answer signal.
var matchFields = []fieldSpec{
	{name: "Question", weight: 1.00, get: func(r Row) string { return r.Question }},
	{name: "Product Name", weight: 0.92, get: func(r Row) string { return r.ProductName }},
	{name: "Category", weight: 0.75, get: func(r Row) string { return r.Category }},
	{name: "Description", weight: 0.65, get: func(r Row) string { return r.Description }},
}

// Outcome classifies an Answer call.
type Outcome int

const (
	OutcomeMatched Outcome = iota
	OutcomeEmptyQuery
	OutcomeNoMatch
	OutcomeUnavailable
)

// Result is the only value crossing the engine boundary. Answer, Score and
// MatchedField are set only for OutcomeMatched.
type Result struct {
	Outcome      Outcome
	Answer       string
	Score        float64
	MatchedField string
}

// Message renders the result as the reply text sent back to the caller.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeEmptyQuery:
		return MsgEmptyQuestion
	case OutcomeNoMatch:
		return MsgNoMatch
	case OutcomeUnavailable:
		return MsgNotLoaded
	default:
		return r.Answer
	}
}

type fieldTokens struct {
	name   string
	weight float64
	tokens []string
}

type indexedRow struct {
	row    Row
	keyLen int
	fields []fieldTokens
}

// Engine matches questions against an immutable row set. Safe for concurrent
// use: Answer only reads.
type Engine struct {
	threshold float64
	tok       *Tokenizer
	log       *slog.Logger
	rows      []indexedRow
}

// Option overrides an Engine tuning default.
type Option func(*Engine)

// WithThreshold replaces the acceptance threshold.
func WithThreshold(t float64) Option {
	return func(e *Engine) { e.threshold = t }
}

// WithStopWords replaces the tokenizer's stop-word list.
func WithStopWords(words []string) Option {
	return func(e *Engine) { e.tok = NewTokenizer(words) }
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine builds an engine over rows. Field tokens are computed here, once,
// since the row set never changes afterwards.
func NewEngine(rows []Row, opts ...Option) *Engine {
	e := &Engine{
		threshold: DefaultThreshold,
		tok:       NewTokenizer(nil),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.rows = make([]indexedRow, 0, len(rows))
	for _, r := range rows {
		key := r.Question
		if key == "" {
			key = r.ProductName
		}

		ir := indexedRow{
			row:    r,
			keyLen: utf8.RuneCountInString(key),
			fields: make([]fieldTokens, 0, len(matchFields)),
		}
		for _, f := range matchFields {
			ir.fields = append(ir.fields, fieldTokens{
				name:   f.name,
				weight: f.weight,
				tokens: e.tok.Tokenize(f.get(r)),
			})
		}

		e.rows = append(e.rows, ir)
	}

	return e
}

// Answer finds the best-matching row for question. It never fails: the
// no-answer cases are reported through Result.Outcome.
func (e *Engine) Answer(question string) Result {
	qTokens := e.tok.Tokenize(question)
	if len(qTokens) == 0 {
		return Result{Outcome: OutcomeEmptyQuery}
	}

	type candidate struct {
		row    Row
		keyLen int
		score  float64
		field  string
	}

	var best *candidate
	bestBelow := 0.0

	for _, ir := range e.rows {
		rowScore := 0.0
		rowField := ""
		for _, f := range ir.fields {
			s := Score(qTokens, f.tokens) * f.weight
			if s > rowScore {
				rowScore = s
				rowField = f.name
			}
		}

		if rowScore < e.threshold {
			if rowScore > bestBelow {
				bestBelow = rowScore
			}
			continue
		}

		if best == nil || rowScore > best.score ||
			(rowScore == best.score && ir.keyLen > best.keyLen) {
			best = &candidate{
				row:    ir.row,
				keyLen: ir.keyLen,
				score:  rowScore,
				field:  rowField,
			}
		}
	}

	if best == nil {
		e.log.Debug("no match above threshold", "best", bestBelow, "threshold", e.threshold)
		return Result{Outcome: OutcomeNoMatch}
	}

	answer := strings.TrimSpace(best.row.Answer)
	if answer == "" {
		answer = MsgNoAnswer
	}

	e.log.Debug("best match", "score", best.score, "field", best.field)

	return Result{
		Outcome:      OutcomeMatched,
		Answer:       answer,
		Score:        best.score,
		MatchedField: best.field,
	}
}

// Unavailable stands in for the engine when the knowledge source failed to
// load and the deployment treats that as non-fatal.
type Unavailable struct{}

func (Unavailable) Answer(string) Result {
	return Result{Outcome: OutcomeUnavailable}
}
