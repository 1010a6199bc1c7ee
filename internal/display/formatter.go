package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/standardbeagle/remap/internal/classifier"
	"github.com/standardbeagle/remap/internal/matcher"
	"github.com/standardbeagle/remap/internal/types"
	"github.com/standardbeagle/remap/internal/version"
)

// Formatter renders rankings and match reports
type Formatter struct {
	options FormatterOptions
}

// FormatterOptions controls rendering
type FormatterOptions struct {
	Format        string // "text", "json", "compact"
	ShowAnalyzers bool   // Show per-analyzer scores under each candidate
	Limit         int    // Maximum candidates per ranking, 0 = all
	Indent        string // Indentation string
}

// Row is one ranked candidate with its score normalized to [0, 1]
type Row struct {
	Subject   string          `json:"subject"`
	Score     float64         `json:"score"`
	Analyzers []AnalyzerScore `json:"analyzers,omitempty"`
}

// AnalyzerScore is one analyzer's raw contribution to a row
type AnalyzerScore struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// Ranking is the display form of one source's candidate list
type Ranking struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
	Rows   []Row  `json:"candidates"`
}

// NewRanking converts classifier results, dividing scores by the total analyzer weight
func NewRanking[T types.Entity](src T, results []classifier.RankResult[T], totalWeight float64) Ranking {
	r := Ranking{Kind: src.Kind().String(), Source: src.Key(), Rows: make([]Row, 0, len(results))}
	for _, res := range results {
		row := Row{Subject: res.Subject.Key(), Score: normalize(res.Score, totalWeight)}
		for _, ar := range res.Results {
			row.Analyzers = append(row.Analyzers, AnalyzerScore{
				Name:   ar.Analyzer.Name(),
				Weight: ar.Analyzer.Weight(),
				Score:  ar.Score,
			})
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

func normalize(score, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return score / total
}

// NewFormatter creates a formatter
func NewFormatter(options FormatterOptions) *Formatter {
	if options.Indent == "" {
		options.Indent = "  "
	}
	return &Formatter{options: options}
}

// FormatRanking renders one ranking
func (f *Formatter) FormatRanking(r Ranking) string {
	r.Rows = f.limit(r.Rows)
	if !f.options.ShowAnalyzers {
		rows := make([]Row, len(r.Rows))
		for i, row := range r.Rows {
			row.Analyzers = nil
			rows[i] = row
		}
		r.Rows = rows
	}

	switch f.options.Format {
	case "json":
		return f.formatJSON(r)
	case "compact":
		return f.formatRankingCompact(r)
	default:
		return f.formatRankingText(r)
	}
}

func (f *Formatter) limit(rows []Row) []Row {
	if f.options.Limit > 0 && len(rows) > f.options.Limit {
		return rows[:f.options.Limit]
	}
	return rows
}

func (f *Formatter) formatRankingText(r Ranking) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s\n", r.Kind, r.Source))
	if len(r.Rows) == 0 {
		sb.WriteString("└─→ no candidates\n")
		return sb.String()
	}

	for i, row := range r.Rows {
		last := i == len(r.Rows)-1
		branch, childPrefix := "├─→ ", "│ "
		if last {
			branch, childPrefix = "└─→ ", "  "
		}
		sb.WriteString(fmt.Sprintf("%s%s (%.3f)\n", branch, row.Subject, row.Score))

		if f.options.ShowAnalyzers {
			for _, a := range row.Analyzers {
				sb.WriteString(fmt.Sprintf("%s%s%-20s %.3f x %g\n", childPrefix, f.options.Indent, a.Name, a.Score, a.Weight))
			}
		}
	}
	return sb.String()
}

func (f *Formatter) formatRankingCompact(r Ranking) string {
	if len(r.Rows) == 0 {
		return r.Source + " → (none)"
	}
	out := fmt.Sprintf("%s → %s (%.3f)", r.Source, r.Rows[0].Subject, r.Rows[0].Score)
	if len(r.Rows) > 1 {
		out += fmt.Sprintf(" (+%d more)", len(r.Rows)-1)
	}
	return out
}

// FormatReport renders the outcome of an AutoMatch run
func (f *Formatter) FormatReport(rep *matcher.Report) string {
	switch f.options.Format {
	case "json":
		return f.formatJSON(reportJSON(rep))
	case "compact":
		var sb strings.Builder
		for _, p := range rep.Pairs {
			sb.WriteString(fmt.Sprintf("%s %s → %s\n", p.Kind, p.A, p.B))
		}
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matched %d classes, %d methods, %d fields in %d passes (%d external classes by name)\n",
		rep.Classes, rep.Methods, rep.Fields, rep.Passes, rep.Externals))
	if len(rep.Pairs) > 0 {
		sb.WriteString("\n")
	}
	for _, p := range rep.Pairs {
		sb.WriteString(fmt.Sprintf("%-6s %s → %s (%.3f)\n", p.Kind, p.A, p.B, p.Score))
	}
	return sb.String()
}

type pairJSON struct {
	Kind  string  `json:"kind"`
	A     string  `json:"old"`
	B     string  `json:"new"`
	Score float64 `json:"score"`
}

type reportView struct {
	Remap     string     `json:"remap"`
	Build     string     `json:"build"`
	Externals int        `json:"externals"`
	Classes   int        `json:"classes"`
	Methods   int        `json:"methods"`
	Fields    int        `json:"fields"`
	Passes    int        `json:"passes"`
	Pairs     []pairJSON `json:"pairs"`
}

func reportJSON(rep *matcher.Report) reportView {
	v := reportView{
		Remap:     version.Version,
		Build:     version.BuildID(),
		Externals: rep.Externals,
		Classes:   rep.Classes,
		Methods:   rep.Methods,
		Fields:    rep.Fields,
		Passes:    rep.Passes,
		Pairs:     make([]pairJSON, 0, len(rep.Pairs)),
	}
	for _, p := range rep.Pairs {
		v.Pairs = append(v.Pairs, pairJSON{Kind: p.Kind.String(), A: p.A, B: p.B, Score: p.Score})
	}
	return v
}

func (f *Formatter) formatJSON(v any) string {
	data, err := json.MarshalIndent(v, "", f.options.Indent)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
