package handler

import (
	"html/template"
	"log"
	"net/http"

	"textdigest/internal/config"
)

// Index serves the single-page UI: input widgets on top, output panels
// below, wired to the JSON API with a small inline script.
type Index struct {
	tmpl *template.Template
	data indexData
}

type indexData struct {
	Title       string
	Theme       string
	Provider    string
	MaxUploadMB int
}

// NewIndex creates the UI page handler
func NewIndex(cfg *config.Config, provider string) *Index {
	return &Index{
		tmpl: template.Must(template.New("index").Parse(indexTemplate)),
		data: indexData{
			Title:       cfg.UITitle,
			Theme:       cfg.UITheme,
			Provider:    provider,
			MaxUploadMB: cfg.MaxUploadMB,
		},
	}
}

func (h *Index) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, h.data); err != nil {
		log.Printf("Error rendering index page: %v", err)
	}
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  :root { --theme: {{.Theme}}; }
  body { font-family: system-ui, sans-serif; max-width: 880px; margin: 2rem auto; padding: 0 1rem; color: #1f2430; }
  h1 { color: var(--theme); }
  fieldset { border: 1px solid #d8dce5; border-radius: 8px; margin-bottom: 1rem; }
  legend { font-weight: 600; }
  label { display: block; margin: 0.5rem 0 0.15rem; font-size: 0.9rem; }
  textarea, input[type=text], input[type=url], input[type=number], select { width: 100%; box-sizing: border-box; padding: 0.4rem; border: 1px solid #c4c9d4; border-radius: 4px; }
  button { background: var(--theme); color: white; border: none; border-radius: 6px; padding: 0.6rem 1.4rem; font-size: 1rem; cursor: pointer; }
  button:disabled { opacity: 0.5; }
  .row { display: flex; gap: 1rem; }
  .row > div { flex: 1; }
  pre { background: #f5f6f9; border-radius: 6px; padding: 0.8rem; white-space: pre-wrap; }
  #error { color: #b3261e; font-weight: 600; }
  .meta { color: #69707f; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Provider: {{.Provider}} · Max upload: {{.MaxUploadMB}} MB</p>

<form id="analyze-form">
  <fieldset>
    <legend>Input</legend>
    <label for="text">Paste text</label>
    <textarea id="text" name="text" rows="6" placeholder="Enter text..."></textarea>
    <div class="row">
      <div>
        <label for="file">Upload file (.txt, .pdf)</label>
        <input type="file" id="file" name="file" accept=".txt,.pdf">
      </div>
      <div>
        <label for="url">URL</label>
        <input type="url" id="url" name="url" placeholder="https://...">
      </div>
    </div>
  </fieldset>

  <fieldset>
    <legend>Options</legend>
    <div class="row">
      <div>
        <label for="task">Task</label>
        <select id="task" name="task">
          <option value="analyze">Summary, keywords &amp; Q&amp;A</option>
          <option value="summarize">Summarize only</option>
          <option value="keywords">Keywords only</option>
          <option value="qa">Q&amp;A only</option>
        </select>
      </div>
      <div>
        <label for="format">Output format</label>
        <select id="format" name="format">
          <option value="paragraph">Paragraph</option>
          <option value="bullets">Bullet points</option>
        </select>
      </div>
      <div>
        <label for="min_length">Min length</label>
        <input type="number" id="min_length" name="min_length" value="30" min="5" max="300">
      </div>
      <div>
        <label for="max_length">Max length</label>
        <input type="number" id="max_length" name="max_length" value="120" min="50" max="1024">
      </div>
    </div>
    <label for="questions">Questions (one per line)</label>
    <textarea id="questions" name="questions" rows="3" placeholder="Type questions..."></textarea>
  </fieldset>

  <button type="submit" id="submit">Process</button>
</form>

<p id="error" hidden></p>

<fieldset>
  <legend>Summary</legend>
  <pre id="summary"></pre>
</fieldset>
<fieldset>
  <legend>Top keywords</legend>
  <pre id="keywords"></pre>
</fieldset>
<fieldset>
  <legend>Answers</legend>
  <pre id="answers"></pre>
</fieldset>
<fieldset>
  <legend>Metrics</legend>
  <pre id="metrics"></pre>
</fieldset>

<script>
document.getElementById("analyze-form").addEventListener("submit", async function (e) {
  e.preventDefault();
  const button = document.getElementById("submit");
  const errorEl = document.getElementById("error");
  button.disabled = true;
  errorEl.hidden = true;

  try {
    const resp = await fetch("/api/v1/analyze", {
      method: "POST",
      body: new FormData(e.target),
    });
    const body = await resp.json();
    if (body.status !== "success") {
      throw new Error(body.error || "request failed");
    }

    const data = body.data;
    document.getElementById("summary").textContent = data.summary || "";
    document.getElementById("keywords").textContent = data.keywords || "";
    document.getElementById("answers").textContent = (data.answers || []).join("\n");
    const m = data.metrics;
    document.getElementById("metrics").textContent = m
      ? "Input words: " + m.input_word_count +
        "\nSummary words: " + m.summary_word_count +
        "\nCompression: " + m.compression_rate_percent + "%" +
        "\nReadability (Flesch): " + m.readability_flesch
      : "";
  } catch (err) {
    errorEl.textContent = err.message;
    errorEl.hidden = false;
  } finally {
    button.disabled = false;
  }
});
</script>
</body>
</html>
`
