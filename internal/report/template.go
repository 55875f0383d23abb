package report

// ReportTemplate is the HTML template for one normalized report.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.CompanyName}} · {{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.4rem; margin-bottom: 4px; }
  h2 { font-size: 1.15rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  h3 { font-size: 1rem; margin: 16px 0 8px; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  /* Header */
  .header {
    text-align: center;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header h1 { color: var(--accent); }

  /* Tables */
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 6px 8px; border-bottom: 1px solid var(--border); }
  td.num, th.num { text-align: right; font-variant-numeric: tabular-nums; white-space: nowrap; }
  tr.section-row td { background: var(--section-bg); font-weight: 600; }
  tr.computed td { font-weight: 600; }
  .formula { color: var(--muted); font-size: 0.8rem; }

  /* Error */
  .error-box {
    background: #fef2f2;
    border-left: 5px solid var(--red);
    padding: 12px;
    border-radius: 6px;
    margin: 12px 0;
  }

  /* Section */
  .section { margin: 20px 0; }

  /* Footer */
  .footer {
    margin-top: 30px;
    padding-top: 12px;
    border-top: 2px solid var(--border);
    font-size: 0.8rem;
    color: var(--muted);
    text-align: center;
  }

  @media print {
    body { max-width: 100%; padding: 10px; }
    .section { page-break-inside: avoid; }
  }
</style>
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<div class="header">
  <h1>{{.CompanyName}}</h1>
  {{if .CIN}}<p class="muted">CIN: {{.CIN}}</p>{{end}}
  <h3>{{.Title}} {{.PeriodLine}}</h3>
</div>

{{if .Error}}
<div class="error-box">{{.Error}}</div>
{{else}}

<!-- ═══════ STATEMENT ═══════ -->
{{if .Sections}}
<div class="section">
  <table>
    <thead><tr><th>Particulars</th><th class="num">{{.Current}}</th>{{if .Previous}}<th class="num">{{.Previous}}</th>{{end}}</tr></thead>
    <tbody>
    {{$prev := .Previous}}
    {{range .Sections}}
    <tr class="section-row"><td colspan="3">{{.Title}}</td></tr>
    {{range .Rows}}
    <tr{{if .Computed}} class="computed"{{end}}>
      <td>{{.Label}}</td>
      <td class="num">{{.Current}}</td>
      {{if $prev}}<td class="num">{{.Previous}}</td>{{end}}
    </tr>
    {{end}}
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

<!-- ═══════ ANALYTICAL RATIOS ═══════ -->
{{if .RatioRows}}
<div class="section">
  <table>
    <thead><tr>
      <th>Ratio</th><th>Numerator / Denominator</th>
      <th class="num">{{.Current}}</th><th class="num">{{.Previous}}</th>
      <th class="num">Variance</th><th>Reason for Variance</th>
    </tr></thead>
    <tbody>
    {{range .RatioRows}}
    <tr>
      <td>{{.Name}} <span class="muted">({{.Unit}})</span></td>
      <td><div class="formula">{{.Numerator}}</div><div class="formula">÷ {{.Denominator}}</div></td>
      <td class="num">{{.Current}}</td>
      <td class="num">{{.Previous}}</td>
      <td class="num">{{.Variance}}</td>
      <td>{{.Reason}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

<!-- ═══════ RATIO SET ═══════ -->
{{range .RatioGroups}}
<div class="section">
  <h2>{{.Title}}</h2>
  <table>
    <tbody>
    {{range .Rows}}
    <tr><td>{{.Name}}</td><td class="num">{{.Value}}</td><td class="muted">{{.Source}}</td></tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

<!-- ═══════ TABLES ═══════ -->
{{range .Tables}}
<div class="section">
  <h2>{{.Title}}</h2>
  <table>
    <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
    {{range .Rows}}
    <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

{{end}}

{{if .Notes}}
<div class="section">
  <h3>Notes</h3>
  <ul class="muted">{{range .Notes}}<li>{{.}}</li>{{end}}</ul>
</div>
{{end}}

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <p>Generated on {{.GeneratedAt}} · {{.Author}}</p>
</div>

</body>
</html>`
