package httpadapter

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/sitebrain/vectorsearch/internal/core/domain"
)

// The search endpoint answers with an HTML fragment ready to drop into a
// results panel. Answer text is escaped by the template engine; newlines
// become explicit breaks.
var searchTemplate = template.Must(template.New("search").Parse(`{{if .NoResults -}}
<div class="vs-no-results"><p>{{.Message}}</p></div>
{{- else -}}
<div class="vs-answer"><p class="vs-answer-label">Answer:</p><p>{{range $i, $line := .AnswerLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p></div>
{{- if .Sources}}
<div class="vs-sources"><p class="vs-sources-label">Sources:</p><ul>
{{- range .Sources}}
<li><a href="{{.Permalink}}" target="_blank">{{.Title}}</a><span class="vs-badge">{{.Badge}}</span></li>
{{- end}}
</ul></div>
{{- end}}{{- end}}
`))

type searchSourceView struct {
	Title     string
	Permalink string
	Badge     string
}

type searchView struct {
	NoResults   bool
	Message     string
	AnswerLines []string
	Sources     []searchSourceView
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.FormValue("query"))
	start := time.Now()

	result, err := rt.searchUC.Search(r.Context(), query)
	if err != nil {
		rt.renderSearchError(w, r, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(rt.service, "search", len(result.Sources), time.Since(start))
		if result.GenerationFailed {
			rt.metrics.RecordGenerationFailure(rt.service, "search", "upstream")
		}
	}

	view := searchView{
		NoResults:   result.NoResults,
		Message:     domain.NoInformationMessage,
		AnswerLines: strings.Split(result.Answer, "\n"),
	}
	for _, source := range result.Sources {
		view.Sources = append(view.Sources, searchSourceView{
			Title:     source.Title,
			Permalink: source.Permalink,
			Badge:     strings.ToUpper(string(source.Type)),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := searchTemplate.Execute(w, view); err != nil {
		requestLogError(r, "render search fragment", err)
	}
}

func (rt *Router) renderSearchError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsKind(err, domain.ErrEmbeddingFailed) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<div class=\"vs-error\"><p>" + domain.EmbeddingFailedMessage + "</p></div>\n"))
		return
	}

	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		requestLogError(r, "search", err)
		http.Error(w, "search failed", status)
		return
	}
	http.Error(w, err.Error(), status)
}
