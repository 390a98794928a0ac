package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactClient(t *testing.T, ddg, wiki http.HandlerFunc) *FactClient {
	t.Helper()
	c := NewFactClient(discardLogger(), nil)
	if ddg != nil {
		srv := httptest.NewServer(ddg)
		t.Cleanup(srv.Close)
		c.ddgURL = srv.URL + "/"
	}
	if wiki != nil {
		srv := httptest.NewServer(wiki)
		t.Cleanup(srv.Close)
		c.wikiAPIURL = srv.URL + "/w/api.php"
		c.wikiRESTURL = srv.URL + "/api/rest_v1/page/summary/"
	}
	return c
}

func TestIsFactualQuestion(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"What is UPI?", true},
		{"who is the governor of RBI", true},
		{"How does net banking work?", true},
		{"Tell me about Mumbai", true},
		{"define phishing", true},
		{"What does KYC mean", true},
		{"do you know the capital of India", true},
		{"aap kaun hai", true},
		{"यह क्या है", true},
		{"Is this real?", true},
		{"Send me money now", false},
		{"Your account is blocked", false},
		{"Hello sir good morning", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFactualQuestion(tt.message))
		})
	}
}

func TestQueryTopic(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"What is UPI?", "UPI"},
		{"What is the RBI", "RBI"},
		{"Who is Gandhi", "Gandhi"},
		{"How does net banking work?", "net banking"},
		{"Tell me about Mumbai", "Mumbai"},
		{"define phishing", "phishing"},
		{"What does KYC mean", "KYC"},
		{"when RBI was founded", "RBI was founded"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, queryTopic(tt.message))
		})
	}
}

func TestAnswerFromDuckDuckGo(t *testing.T) {
	wikiCalled := false
	c := newTestFactClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "UPI", r.URL.Query().Get("q"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			w.Write([]byte(`{"AbstractText":"Unified Payments Interface is an instant payment system. It was developed by NPCI. Banks adopted it in 2016."}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			wikiCalled = true
		},
	)

	answer := c.Answer(context.Background(), "What is UPI?")

	require.NotEmpty(t, answer)
	assert.True(t, strings.HasPrefix(answer, factPrefixes[0]), "got %q", answer)
	assert.Contains(t, answer, "Unified Payments Interface is an instant payment system.")
	assert.Contains(t, answer, "It was developed by NPCI.")
	assert.NotContains(t, answer, "2016")
	assert.False(t, wikiCalled)
}

func TestAnswerFallsBackToWikipedia(t *testing.T) {
	c := newTestFactClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"AbstractText":"","Answer":"","Definition":"","RelatedTopics":[]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/w/api.php") {
				assert.Equal(t, "Mumbai", r.URL.Query().Get("srsearch"))
				w.Write([]byte(`{"query":{"search":[{"title":"Mumbai"}]}}`))
				return
			}
			assert.Equal(t, "/api/rest_v1/page/summary/Mumbai", r.URL.Path)
			w.Write([]byte(`{"extract":"Mumbai is the capital city of the Indian state of Maharashtra."}`))
		},
	)

	answer := c.Answer(context.Background(), "Tell me about Mumbai")

	assert.Contains(t, answer, "Mumbai is the capital city")
}

func TestAnswerReturnsEmptyWhenNoSourceKnows(t *testing.T) {
	c := newTestFactClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"query":{"search":[]}}`))
		},
	)

	assert.Empty(t, c.Answer(context.Background(), "What is xyzzyplough?"))
}

func TestAnswerSkipsNonFactualMessages(t *testing.T) {
	c := newTestFactClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no lookup expected for scam messages")
		},
		nil,
	)

	assert.Empty(t, c.Answer(context.Background(), "Your account is blocked, pay now"))
}

func TestCleanAndShorten(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"See [UPI](https://npci.org.in) for details. More at https://example.com now.", "See UPI for details. More at now."},
		{"<b>Bold</b> answer here with tags.", "Bold answer here with tags."},
		{"First sentence. Second sentence. Third sentence.", "First sentence. Second sentence."},
		{"  spaced   out\ttext  ", "spaced out text"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanAndShorten(tt.in))
	}
}

func TestGenerateReplyAnswersFactualQuestionWithoutModel(t *testing.T) {
	c := newTestFactClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"AbstractText":"Unified Payments Interface is an instant real-time payment system."}`))
		},
		nil,
	)
	stub := &stubLLMClient{resp: LLMResponse{Text: "model reply"}}
	a := New(stub, discardLogger(), nil, Config{Facts: c})

	reply := a.GenerateReply(context.Background(), PersonaContext{Language: "en"}, "What is UPI?")

	assert.Contains(t, reply, "Unified Payments Interface")
	assert.Zero(t, stub.calls, "model should not be called for factual questions")
}
