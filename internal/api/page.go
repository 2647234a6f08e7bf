package api

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ruslano69/launchdash/pkg/charts"
)

// Index handles GET /: the dashboard page with both controls and the
// initial charts for the default selection.
func (h *chartsHandler) Index(w http.ResponseWriter, _ *http.Request) {
	c := h.controls
	sel := c.Default

	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>` + html.EscapeString(h.title) + `</title>
` + pageCSS() + `
</head>
<body>
<div class="container">
<h1>` + html.EscapeString(h.title) + `</h1>
`)

	// Site dropdown
	b.WriteString(`<div class="control"><label for="` + charts.InputSiteDropdown + `">Launch site</label>`)
	b.WriteString(`<select id="` + charts.InputSiteDropdown + `">`)
	for _, opt := range c.Sites {
		b.WriteString(`<option value="` + html.EscapeString(opt.Value) + `"`)
		if opt.Value == sel.Site {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + html.EscapeString(opt.Label) + `</option>`)
	}
	b.WriteString(`</select></div>`)

	writeChart(&b, charts.OutputSuccessPie, sel)

	// Payload range slider: two bounded inputs sharing the tick marks
	b.WriteString(`<div class="control" id="` + charts.InputPayloadRange + `"><label>Payload range (kg)</label>`)
	writeRangeInput(&b, "payload-lo", sel.Payload.Lo, c)
	writeRangeInput(&b, "payload-hi", sel.Payload.Hi, c)
	b.WriteString(`<datalist id="payload-marks">`)
	for _, m := range c.Marks {
		b.WriteString(`<option value="` + formatNum(m.Value) + `" label="` + html.EscapeString(m.Label) + `"></option>`)
	}
	b.WriteString(`</datalist>`)
	b.WriteString(`<div class="marks">`)
	for _, m := range c.Marks {
		b.WriteString(`<span>` + html.EscapeString(m.Label) + `</span>`)
	}
	b.WriteString(`</div></div>`)

	writeChart(&b, charts.OutputPayloadScatter, sel)

	b.WriteString(`<p class="export"><a id="export-link" href="/export/scatter.xlsx?` + html.EscapeString(selectionQuery(sel)) + `">Download filtered records (xlsx)</a></p>`)
	fmt.Fprintf(&b, `<div class="footer">%d launches from %s</div>`, h.ds.Len(), html.EscapeString(h.ds.Source()))
	b.WriteString(`</div>`)
	b.WriteString(pageScript())
	b.WriteString(`</body></html>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, b.String())
}

func writeChart(b *strings.Builder, output string, sel charts.Selection) {
	src := "/charts/" + output + ".svg?" + selectionQuery(sel)
	b.WriteString(`<div class="chart"><img id="` + output + `" alt="` + output + `" src="` + html.EscapeString(src) + `"></div>`)
}

func writeRangeInput(b *strings.Builder, id string, value float64, c charts.Controls) {
	fmt.Fprintf(b, `<input type="number" id="%s" min="%s" max="%s" step="%s" value="%s" list="payload-marks">`,
		id, formatNum(c.Min), formatNum(c.Max), formatNum(c.Step), formatNum(value))
}

func selectionQuery(sel charts.Selection) string {
	return url.Values{
		"site": {sel.Site},
		"lo":   {formatNum(sel.Payload.Lo)},
		"hi":   {formatNum(sel.Payload.Hi)},
	}.Encode()
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pageCSS() string {
	return `<style>
  * { box-sizing:border-box; margin:0; padding:0; }
  body { font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif; background:#f8fafc; color:#1e293b; padding:24px; }
  .container { max-width:960px; margin:0 auto; }
  h1 { text-align:center; color:#503D36; font-size:40px; margin-bottom:24px; }
  .control { margin:16px 0; display:flex; flex-wrap:wrap; align-items:center; gap:12px; }
  .control label { font-weight:600; }
  select, input { padding:6px 10px; border:1px solid #cbd5e1; border-radius:6px; font-size:14px; }
  .marks { width:100%; display:flex; justify-content:space-between; font-size:11px; color:#64748b; }
  .chart img { width:100%; background:#fff; border:1px solid #e2e8f0; border-radius:8px; }
  .export { margin:12px 0; font-size:13px; }
  .footer { text-align:center; padding:20px; font-size:11px; color:#94a3b8; }
</style>`
}

// pageScript posts every control change to /api/events and reloads only the
// charts the server says depend on it.
func pageScript() string {
	return `<script>
(function () {
  var site = document.getElementById("` + charts.InputSiteDropdown + `");
  var lo = document.getElementById("payload-lo");
  var hi = document.getElementById("payload-hi");
  var exportLink = document.getElementById("export-link");

  function query() {
    return new URLSearchParams({site: site.value, lo: lo.value, hi: hi.value}).toString();
  }

  function changed(input) {
    var body = {input: input, site: site.value};
    if (lo.value !== "") body.lo = Number(lo.value);
    if (hi.value !== "") body.hi = Number(hi.value);
    fetch("/api/events", {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)})
      .then(function (resp) { return resp.json(); })
      .then(function (data) {
        (data.outputs || []).forEach(function (spec) {
          var img = document.getElementById(spec.output);
          if (img) img.src = "/charts/" + spec.output + ".svg?" + query();
        });
        exportLink.href = "/export/scatter.xlsx?" + query();
      });
  }

  site.addEventListener("change", function () { changed("` + charts.InputSiteDropdown + `"); });
  lo.addEventListener("change", function () { changed("` + charts.InputPayloadRange + `"); });
  hi.addEventListener("change", function () { changed("` + charts.InputPayloadRange + `"); });
})();
</script>`
}
