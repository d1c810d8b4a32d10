package handler

import (
	"html/template"
	"net/http"

	"tradeguard/internal/domain"

	"github.com/gin-gonic/gin"
)

// maxPageSources caps how many citations the dashboard lists.
const maxPageSources = 4

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"topSources": func(sources []domain.Source) []domain.Source {
		if len(sources) > maxPageSources {
			return sources[:maxPageSources]
		}
		return sources
	},
}).Parse(pageHTML))

type pageIndicator struct {
	Label string
	Value string
	Hint  string
}

type pageData struct {
	State      domain.DashboardState
	Indicators []pageIndicator
}

func (h *Handler) Page(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.page")
	defer span.End()

	state := h.dash.State()
	c.HTML(http.StatusOK, "dashboard", pageData{
		State:      state,
		Indicators: indicators(state.Snapshot),
	})
}

func indicators(s domain.MarketSnapshot) []pageIndicator {
	swapHint := "no auction detected"
	if s.HasSwaps() {
		swapHint = "central bank active"
	}
	return []pageIndicator{
		{Label: "VIX", Value: formatFloat(s.VIX, 2), Hint: "global fear"},
		{Label: "DXY", Value: formatFloat(s.DXY, 2), Hint: "dollar strength"},
		{Label: "DI1F29", Value: formatFloat(s.DIRate, 2) + "%", Hint: "cost of money"},
		{Label: "WIN", Value: formatFloat(s.Index, 0) + " pts", Hint: "mini index"},
		{Label: "WDO", Value: "R$ " + formatFloat(s.Dollar, 3), Hint: "mini dollar"},
		{Label: "BCB swaps", Value: formatInt(s.SwapContracts), Hint: swapHint},
	}
}

const pageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>TradeGuard</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body{background:#0b0f17;color:#e2e8f0;font-family:system-ui,sans-serif;margin:0;padding:24px}
h1{font-size:20px;margin:0 0 4px}
.muted{color:#64748b;font-size:12px}
.grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(160px,1fr));gap:12px;margin:16px 0}
.card{background:#111827;border:1px solid #1f2937;border-radius:12px;padding:14px}
.value{font-size:22px;font-weight:700}
.signal.BUY{border-color:#10b981}.signal.SELL{border-color:#ef4444}
.badge{background:#f59e0b;color:#111;border-radius:6px;padding:2px 6px;font-size:11px;font-weight:700}
.bar{height:6px;background:#1f2937;border-radius:3px;margin-top:8px}
.bar>div{height:6px;background:#3b82f6;border-radius:3px}
.banner{position:fixed;top:16px;right:16px;background:#10b981;color:#052e16;padding:12px 16px;border-radius:10px;font-weight:600}
.error{color:#f87171;font-size:12px}
button{background:#1f2937;color:#e2e8f0;border:1px solid #334155;border-radius:8px;padding:6px 12px;cursor:pointer}
button:disabled{opacity:.5;cursor:wait}
</style>
</head>
<body>
<h1>TradeGuard</h1>
<div class="muted">Last update: {{.State.Snapshot.LastUpdate}}</div>
<p>
<button id="refresh" {{if .State.Loading}}disabled{{end}} onclick="post('/api/refresh')">{{if .State.Loading}}Refreshing...{{else}}Refresh{{end}}</button>
<button onclick="post('/api/notification/toggle')">Bell</button>
</p>
{{if .State.LastError}}<div class="error">{{.State.LastError}}</div>{{end}}
{{if .State.NotificationVisible}}<div class="banner" onclick="post('/api/notification/dismiss')">New TradeGuard signal</div>{{end}}

<div class="grid">
{{range .Indicators}}<div class="card"><div class="muted">{{.Label}}</div><div class="value">{{.Value}}</div><div class="muted">{{.Hint}}</div></div>
{{end}}</div>

<h2>Signals</h2>
<div class="grid">
{{range .State.Signals}}<div class="card signal {{.Action}}">
<div><strong>{{.Asset}}</strong> {{.Action}} {{if .IsHighConfidence}}<span class="badge">HIGH PROBABILITY</span>{{end}}</div>
<p>{{.Reasoning}}</p>
<div class="muted">Confidence {{.ConfidencePct}}% at {{.Timestamp}}</div>
<div class="bar"><div style="width:{{.ConfidencePct}}%"></div></div>
</div>
{{else}}<div class="muted">No signals yet.</div>
{{end}}</div>

<h2>BCB intervention</h2>
<div class="card">{{.State.InterventionText}}</div>

{{with topSources .State.Snapshot.Sources}}<h2>Sources</h2>
<ul>{{range .}}<li><a href="{{.URI}}" target="_blank" rel="noopener">{{.Title}}</a></li>{{end}}</ul>{{end}}

<script>
function post(path){fetch(path,{method:'POST'}).then(function(){location.reload()})}
(function(){
  var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var ws = new WebSocket(proto + location.host + '/ws');
  ws.onmessage = function(m){
    var ev = JSON.parse(m.data);
    if (ev.kind !== 'state') { location.reload(); }
  };
})();
</script>
</body>
</html>`
