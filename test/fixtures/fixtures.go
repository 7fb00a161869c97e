// Package fixtures provides HTML and JSON test fixtures for the search and
// scrape adapters.
package fixtures

// ArticlePage is a static news article with enough prose for readability.
func ArticlePage() string {
	return `
<!DOCTYPE html>
<html>
<head><title>AI tutors reach more classrooms</title></head>
<body>
<header><nav><a href="/">Home</a> <a href="/tech">Tech</a></nav></header>
<main>
<article>
  <h1>AI tutors reach more classrooms</h1>
  <p>Schools across the country are adopting AI tutoring tools to give every student
  personalised practice. Teachers report that the tools free up time for small group
  instruction, while students get instant feedback on their homework and exercises.</p>
  <p>A recent survey of two thousand teachers found that forty percent already use an
  AI assistant each week. Most of them use it to prepare lesson material, generate
  quizzes and explain difficult concepts in simpler words for younger learners.</p>
  <p>Critics warn that schools must protect student data and keep humans in the loop.
  District leaders are drafting guidelines that cover privacy, academic honesty and
  the training teachers need before bringing these assistants into the classroom.</p>
</article>
</main>
<footer>Copyright Example News</footer>
<script>window.analytics = true;</script>
</body>
</html>
`
}

// ScriptShellPage is a single page app shell with no server-rendered text.
func ScriptShellPage() string {
	return `
<!DOCTYPE html>
<html>
<head><title>Loading</title></head>
<body>
<div id="root">Loading...</div>
<script src="/bundle.js"></script>
</body>
</html>
`
}

// RenderedShellPage is what ScriptShellPage looks like after scripts ran.
func RenderedShellPage() string {
	return `
<html>
<head><style>body { color: red; }</style></head>
<body>
<nav>Menu Login Signup</nav>
<header>Site banner</header>
<div class="content">
  <p>Rendered story about adaptive learning platforms.</p>
  <p>Students progress at their own pace.</p>
  <iframe src="https://ads.example.com"></iframe>
</div>
<footer>Footer links</footer>
<script>console.log("hydrated")</script>
</body>
</html>
`
}

// DuckDuckGoResultsPage is a trimmed html.duckduckgo.com results page with
// one ad and two organic results.
func DuckDuckGoResultsPage() string {
	return `
<!DOCTYPE html>
<html>
<body>
<div class="results">
  <div class="result results_links result--ad">
    <h2 class="result__title"><a class="result__a" href="https://ads.example.com/buy">Buy now</a></h2>
    <a class="result__snippet">Sponsored</a>
  </div>
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fai-education&amp;rut=abc">AI in <b>education</b></a>
    </h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fai-education">How AI is changing the classroom.</a>
  </div>
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="https://news.example.org/tutors">Tutors and bots</a>
    </h2>
    <a class="result__snippet">Schools adopt  AI tutors.</a>
  </div>
</div>
</body>
</html>
`
}

// DuckDuckGoAnswer is an instant answer API payload with an abstract and a
// grouped related topic.
func DuckDuckGoAnswer() string {
	return `{
  "Heading": "Educational technology",
  "AbstractText": "Educational technology is the use of computer hardware and software to facilitate learning.",
  "AbstractURL": "https://en.wikipedia.org/wiki/Educational_technology",
  "Results": [],
  "RelatedTopics": [
    {"Text": "E-learning - Learning conducted via electronic media.", "FirstURL": "https://duckduckgo.com/E-learning"},
    {"Name": "See also", "Topics": [
      {"Text": "Intelligent tutoring system - A computer system that gives instruction.", "FirstURL": "https://duckduckgo.com/Intelligent_tutoring_system"}
    ]}
  ]
}`
}

// EmptyDuckDuckGoAnswer is an instant answer with nothing in it.
func EmptyDuckDuckGoAnswer() string {
	return `{"Heading": "", "AbstractText": "", "AbstractURL": "", "Results": [], "RelatedTopics": []}`
}
