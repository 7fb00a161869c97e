package web

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Social Post Generator</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 44rem; margin: 2rem auto; padding: 0 1rem; }
textarea, input[type=text], button { font: inherit; width: 100%; margin: .25rem 0 1rem; }
pre { white-space: pre-wrap; background: #f5f5f5; padding: 1rem; border-radius: .5rem; }
.error { color: #b00020; }
</style>
</head>
<body>
<h1>Social Post Generator</h1>
`

const pageScript = `<div id="results"></div>
<script>
document.getElementById("generate").addEventListener("submit", async (e) => {
  e.preventDefault();
  const form = new FormData(e.target);
  const results = document.getElementById("results");
  results.textContent = "Researching and writing...";
  const resp = await fetch("/api/posts", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({
      topic: form.get("topic"),
      tone: form.get("tone"),
      platforms: form.getAll("platforms"),
    }),
  });
  const data = await resp.json();
  results.textContent = "";
  if (data.error) {
    const p = document.createElement("p");
    p.className = "error";
    p.textContent = data.error;
    results.append(p);
    return;
  }
  for (const post of data.posts) {
    const h = document.createElement("h2");
    h.textContent = post.platform;
    const body = document.createElement(post.error ? "p" : "pre");
    if (post.error) body.className = "error";
    body.textContent = post.error || post.content;
    results.append(h, body);
  }
});
</script>
</body>
</html>
`

// homePage renders the generator form with one checkbox per platform.
func homePage(platforms []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(pageHead)
		sb.WriteString(`<form id="generate">
<label>Topic<textarea name="topic" rows="4" required></textarea></label>
<label>Tone<input type="text" name="tone" value="neutral"></label>
<fieldset><legend>Platforms</legend>
`)
		for _, p := range platforms {
			name := templ.EscapeString(p)
			fmt.Fprintf(&sb, `<label><input type="checkbox" name="platforms" value="%s" checked> %s</label>
`, name, name)
		}
		sb.WriteString("</fieldset>\n<button type=\"submit\">Generate</button>\n</form>\n")
		sb.WriteString(pageScript)

		_, err := io.WriteString(w, sb.String())
		return err
	})
}
