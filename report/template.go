package report

// indexTemplate renders the side-by-side review page. The pass/fail
// controls are a manual-review affordance only; nothing records their
// state.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 1.5rem; background: #fafafa; }
h1 { font-size: 1.4rem; }
p.meta { color: #555; }
span.degraded { color: #b00; font-weight: bold; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 0.5rem; vertical-align: top; text-align: left; }
th { background: #f0f0f0; }
td.path { font-family: monospace; white-space: nowrap; }
img.shot { max-width: 420px; border: 1px solid #ccc; display: block; }
div.error { color: #b00; font-family: monospace; max-width: 420px; }
div.missing { color: #888; font-style: italic; }
td.review label { margin-right: 0.75rem; white-space: nowrap; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">
Source: {{.SourceBase}}{{if .SourceDegraded}} <span class="degraded">(sitemap unavailable, homepage only)</span>{{end}}<br>
Target: {{.TargetBase}}{{if .TargetDegraded}} <span class="degraded">(sitemap unavailable, homepage only)</span>{{end}}<br>
Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}} &mdash; {{.Pages}} pages, {{.Failures}} failed captures
</p>
<table>
<tr><th>Page</th><th>Source</th><th>Target</th><th>Review</th></tr>
{{range .Rows}}<tr>
<td class="path">{{.Path}}</td>
<td>{{template "cell" .Source}}</td>
<td>{{template "cell" .Target}}</td>
<td class="review">
<label><input type="radio" name="review-{{.Slug}}" value="pass"> pass</label>
<label><input type="radio" name="review-{{.Slug}}" value="fail"> fail</label>
</td>
</tr>
{{end}}</table>
</body>
</html>
{{define "cell"}}{{if .OK}}<a href="{{.ImagePath}}"><img class="shot" src="{{.ImagePath}}" loading="lazy"></a>{{else if eq .Status "failed"}}<div class="error">{{.ErrorKind}}: {{.Error}} ({{.Attempts}} attempts)</div>{{else}}<div class="missing">not present</div>{{end}}{{end}}`
