// Package chat answers analytics questions over a user's invoice history.
// Intents are a fixed-priority cascade of substring checks; every question
// produces some answer by construction.
package chat

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BekirBz/invoice-ai-mvp/models"
	"github.com/BekirBz/invoice-ai-mvp/pkg/store"
)

const helpAnswer = "I can answer: 'What invoices are risky this month', 'Total spent in <Month>', or 'Export my tax summary'."

// llmContextLimit caps the serialized context shipped to the language model.
const llmContextLimit = 4000

// Response is the answer payload. Invoices is populated only by the
// risky-month intent, CSVBase64 only by the export intent.
type Response struct {
	Answer    string           `json:"answer"`
	Invoices  []models.Invoice `json:"invoices,omitempty"`
	CSVBase64 string           `json:"csv_base64,omitempty"`
}

// Answerer is the optional language-model fallback. Any error is swallowed
// by the engine and treated as "no answer".
type Answerer interface {
	Answer(ctx context.Context, question string, contextJSON []byte) (string, error)
}

type Engine struct {
	store store.Store
	llm   Answerer // nil when not configured
	now   func() time.Time
}

func New(s store.Store, llm Answerer) *Engine {
	return &Engine{store: s, llm: llm, now: time.Now}
}

// intent pairs a predicate with its handler. The slice order in Ask IS the
// priority order; first match wins, no fallthrough.
type intent struct {
	match  func(q string) bool
	handle func(ctx context.Context, question string, docs []models.Invoice) *Response
}

// Ask resolves one question against the user's records. Store errors
// propagate; everything else degrades to a textual answer.
func (e *Engine) Ask(ctx context.Context, userID, question string) (*Response, error) {
	docs, err := e.store.ListInvoices(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(question))
	cascade := []intent{
		{
			match: func(q string) bool {
				return strings.Contains(q, "risky") && strings.Contains(q, "month")
			},
			handle: e.riskyMonth,
		},
		{
			match: func(q string) bool {
				return strings.Contains(q, "total") &&
					(strings.Contains(q, "spent") || strings.Contains(q, "amount"))
			},
			handle: e.totalSpent,
		},
		{
			match: func(q string) bool {
				for _, kw := range []string{"export", "csv", "tax", "vat", "summary", "report"} {
					if strings.Contains(q, kw) {
						return true
					}
				}
				return false
			},
			handle: e.exportCSV,
		},
	}

	for _, it := range cascade {
		if it.match(q) {
			return it.handle(ctx, question, docs), nil
		}
	}

	if e.llm != nil {
		if ans, err := e.llm.Answer(ctx, question, e.contextJSON(docs)); err == nil && strings.TrimSpace(ans) != "" {
			return &Response{Answer: strings.TrimSpace(ans)}, nil
		}
	}
	return &Response{Answer: helpAnswer}, nil
}

func (e *Engine) riskyMonth(_ context.Context, question string, docs []models.Invoice) *Response {
	now := e.now().UTC()
	year, month, ok := ResolveMonth(question, now)
	if !ok {
		year, month = now.Year(), now.Month()
	}
	sub := FilterByMonth(docs, year, month)
	rsk := risky(sub)
	return &Response{
		Answer:   fmt.Sprintf("%s %d risky invoices: %d", month, year, len(rsk)),
		Invoices: rsk,
	}
}

func (e *Engine) totalSpent(_ context.Context, question string, docs []models.Invoice) *Response {
	if year, month, ok := ResolveMonth(question, e.now()); ok {
		sub := FilterByMonth(docs, year, month)
		return &Response{
			Answer: fmt.Sprintf("Total spent in %s %d: $%s", month, year, formatMoney(sumAmount(sub))),
		}
	}
	return &Response{Answer: fmt.Sprintf("All-time total: $%s", formatMoney(sumAmount(docs)))}
}

func (e *Engine) exportCSV(_ context.Context, question string, docs []models.Invoice) *Response {
	sub, label := docs, "all-time"
	if year, month, ok := ResolveMonth(question, e.now()); ok {
		sub = FilterByMonth(docs, year, month)
		label = fmt.Sprintf("%s %d", month, year)
	}
	csv := BuildTaxCSV(sub)
	return &Response{
		Answer:    fmt.Sprintf("Generated tax CSV for %s.", label),
		CSVBase64: base64.StdEncoding.EncodeToString([]byte(csv)),
	}
}

// contextJSON builds the bounded context object for the LLM fallback: record
// count, totals, risky count and up to 20 sample records' key fields.
func (e *Engine) contextJSON(docs []models.Invoice) []byte {
	sample := docs
	if len(sample) > 20 {
		sample = sample[:20]
	}
	samples := make([]map[string]any, 0, len(sample))
	for _, d := range sample {
		samples = append(samples, map[string]any{
			"id":          d.ID,
			"filename":    d.Filename,
			"vendor":      d.Vendor,
			"date":        d.Date,
			"amount":      d.Amount,
			"currency":    d.Currency,
			"vat":         d.VAT,
			"fraud_score": d.FraudScore,
		})
	}
	b, err := json.Marshal(map[string]any{
		"count":        len(docs),
		"total_amount": sumAmount(docs),
		"total_vat":    sumVAT(docs),
		"risky_count":  len(risky(docs)),
		"sample":       samples,
	})
	if err != nil {
		return []byte("{}")
	}
	if len(b) > llmContextLimit {
		b = b[:llmContextLimit]
	}
	return b
}

func risky(invs []models.Invoice) []models.Invoice {
	var out []models.Invoice
	for _, inv := range invs {
		if inv.Risky() {
			out = append(out, inv)
		}
	}
	return out
}

func sumAmount(invs []models.Invoice) float64 {
	total := 0.0
	for _, inv := range invs {
		if inv.Amount != nil {
			total += *inv.Amount
		}
	}
	return math.Round(total*100) / 100
}

func sumVAT(invs []models.Invoice) float64 {
	total := 0.0
	for _, inv := range invs {
		if inv.VAT != nil {
			total += *inv.VAT
		}
	}
	return math.Round(total*100) / 100
}

// formatMoney renders 1234567.5 as "1,234,567.50".
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
