package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const factUserAgent = "HoneypotBot/1.0"

// FactClient answers simple factual questions from free public sources
// so scammer rapport-building questions get a plausible reply without
// spending an LLM call. DuckDuckGo instant answers are tried first,
// then a Wikipedia search plus page summary.
type FactClient struct {
	client      *http.Client
	ddgURL      string
	wikiAPIURL  string
	wikiRESTURL string
	logger      *slog.Logger
	rng         *rand.Rand
}

// NewFactClient creates a FactClient with a 5 second request timeout.
// rng drives the casual reply prefix and may be nil.
func NewFactClient(logger *slog.Logger, rng *rand.Rand) *FactClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactClient{
		client:      &http.Client{Timeout: 5 * time.Second},
		ddgURL:      "https://api.duckduckgo.com/",
		wikiAPIURL:  "https://en.wikipedia.org/w/api.php",
		wikiRESTURL: "https://en.wikipedia.org/api/rest_v1/page/summary/",
		logger:      logger,
		rng:         rng,
	}
}

// factualPatterns match question shapes worth answering from a public
// source. Hindi and Hinglish shapes are included because sessions run
// in those languages too.
var factualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(what|who|where|when|which)\s+(is|are|was|were)\b`),
	regexp.MustCompile(`(?i)^how\s+(do|does|did|is|are|can|to|many|much)\b`),
	regexp.MustCompile(`(?i)^why\s`),
	regexp.MustCompile(`(?i)^(define|meaning of|definition of)\b`),
	regexp.MustCompile(`(?i)what does\s+.+\s+mean`),
	regexp.MustCompile(`(?i)^tell me about\b`),
	regexp.MustCompile(`(?i)^explain\s+(what|how|why)\b`),
	regexp.MustCompile(`(?i)^do you know\b`),
	regexp.MustCompile(`(?i)\b(kya|kaun|kahan|kab|kyun|kaise)\s+hai\b`),
	regexp.MustCompile(`क्या है`),
}

var factualStarters = map[string]bool{
	"what": true, "who": true, "where": true, "when": true,
	"why": true, "how": true, "which": true, "is": true,
	"are": true, "does": true, "do": true, "can": true,
	"kya": true, "kaun": true, "kahan": true, "kab": true,
	"kyun": true, "kaise": true,
}

// IsFactualQuestion reports whether the message looks like a general
// knowledge question rather than scam conversation.
func IsFactualQuestion(message string) bool {
	text := strings.TrimSpace(message)
	if text == "" {
		return false
	}
	for _, p := range factualPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	if strings.HasSuffix(text, "?") {
		fields := strings.Fields(strings.ToLower(text))
		if len(fields) > 0 && factualStarters[fields[0]] {
			return true
		}
	}
	return false
}

// topicPatterns extract the searchable subject from a question. The
// first capturing group that matches wins.
var topicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)what is (?:a |an |the )?(.+)`),
	regexp.MustCompile(`(?i)who is (.+)`),
	regexp.MustCompile(`(?i)where is (.+)`),
	regexp.MustCompile(`(?i)what are (.+)`),
	regexp.MustCompile(`(?i)how does (.+?)(?: work)?$`),
	regexp.MustCompile(`(?i)tell me about (.+)`),
	regexp.MustCompile(`(?i)define (.+)`),
	regexp.MustCompile(`(?i)meaning of (.+)`),
	regexp.MustCompile(`(?i)explain (.+)`),
	regexp.MustCompile(`(?i)what does (.+?) mean`),
}

var topicStopWords = map[string]bool{
	"what": true, "who": true, "where": true, "when": true,
	"why": true, "how": true, "is": true, "are": true,
	"the": true, "a": true, "an": true,
}

func queryTopic(message string) string {
	text := strings.TrimSuffix(strings.TrimSpace(message), "?")
	for _, p := range topicPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSuffix(strings.TrimSpace(m[1]), "?")
		}
	}
	fields := strings.Fields(text)
	for len(fields) > 0 && topicStopWords[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

// Answer returns a humanized factual answer for the message, or "" when
// the message is not a factual question or no source had an answer.
func (c *FactClient) Answer(ctx context.Context, message string) string {
	if !IsFactualQuestion(message) {
		return ""
	}
	topic := queryTopic(message)
	if topic == "" {
		return ""
	}

	answer := c.duckDuckGo(ctx, topic)
	if answer == "" {
		answer = c.wikipedia(ctx, topic)
	}
	if answer == "" {
		return ""
	}
	return c.humanize(answer)
}

type ddgResponse struct {
	AbstractText  string `json:"AbstractText"`
	Answer        string `json:"Answer"`
	Definition    string `json:"Definition"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

func (c *FactClient) duckDuckGo(ctx context.Context, topic string) string {
	q := url.Values{}
	q.Set("q", topic)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	var out ddgResponse
	if err := c.getJSON(ctx, c.ddgURL+"?"+q.Encode(), &out); err != nil {
		c.logger.Debug("duckduckgo lookup failed", "topic", topic, "error", err.Error())
		return ""
	}

	if len(out.AbstractText) > 20 {
		return cleanAndShorten(out.AbstractText)
	}
	if out.Answer != "" {
		return cleanAndShorten(out.Answer)
	}
	if out.Definition != "" {
		return cleanAndShorten(out.Definition)
	}
	if len(out.RelatedTopics) > 0 && out.RelatedTopics[0].Text != "" {
		return cleanAndShorten(out.RelatedTopics[0].Text)
	}
	return ""
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiSummaryResponse struct {
	Extract string `json:"extract"`
}

func (c *FactClient) wikipedia(ctx context.Context, topic string) string {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", topic)
	q.Set("format", "json")
	q.Set("srlimit", "1")

	var search wikiSearchResponse
	if err := c.getJSON(ctx, c.wikiAPIURL+"?"+q.Encode(), &search); err != nil {
		c.logger.Debug("wikipedia search failed", "topic", topic, "error", err.Error())
		return ""
	}
	if len(search.Query.Search) == 0 {
		return ""
	}

	title := url.PathEscape(search.Query.Search[0].Title)
	var summary wikiSummaryResponse
	if err := c.getJSON(ctx, c.wikiRESTURL+title, &summary); err != nil {
		c.logger.Debug("wikipedia summary failed", "topic", topic, "error", err.Error())
		return ""
	}
	if len(summary.Extract) > 20 {
		return cleanAndShorten(summary.Extract)
	}
	return ""
}

func (c *FactClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", factUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	plainURLRe     = regexp.MustCompile(`https?://\S+`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	markdownCharRe = regexp.MustCompile("[*_`#\\[\\]]")
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// cleanAndShorten strips markup an API answer may carry and trims it to
// at most two sentences so it reads like a chat message.
func cleanAndShorten(text string) string {
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = plainURLRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	text = markdownCharRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	sentences := strings.SplitAfter(text, ". ")
	if len(sentences) > 2 {
		text = strings.TrimSpace(strings.Join(sentences[:2], ""))
	}
	return text
}

// factPrefixes keep the answer in the unsure victim voice instead of
// sounding like an encyclopedia.
var factPrefixes = []string{
	"I think it's something like this... ",
	"Oh I know this one! ",
	"Hmm I remember reading that ",
	"I think ",
	"From what I know, ",
	"I heard that ",
}

func (c *FactClient) humanize(answer string) string {
	prefix := factPrefixes[0]
	if c.rng != nil {
		prefix = factPrefixes[c.rng.Intn(len(factPrefixes))]
	}
	if strings.HasSuffix(prefix, "that ") || strings.HasSuffix(prefix, "think ") ||
		strings.HasSuffix(prefix, "know, ") {
		if answer != "" && answer[0] >= 'A' && answer[0] <= 'Z' {
			answer = strings.ToLower(answer[:1]) + answer[1:]
		}
	}
	return prefix + answer
}
