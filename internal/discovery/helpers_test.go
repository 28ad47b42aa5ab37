package discovery

import (
	"context"
	"io"
	"log"
	"sync"

	"referral-finder/internal/infrastructure/llm"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type discoverCall struct {
	prompt string
	search bool
}

type scriptedReply struct {
	text string
	err  error
}

// fakeDiscoverer answers calls in order from its script.
type fakeDiscoverer struct {
	mu     sync.Mutex
	script []scriptedReply
	calls  []discoverCall
}

func (f *fakeDiscoverer) Discover(_ context.Context, prompt string, search bool) (llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, discoverCall{prompt: prompt, search: search})
	i := len(f.calls) - 1
	if i >= len(f.script) {
		return llm.Completion{}, io.ErrUnexpectedEOF
	}
	r := f.script[i]
	if r.err != nil {
		return llm.Completion{}, r.err
	}
	return llm.Completion{Text: r.text, Sources: []string{"https://www.linkedin.com/in/source"}}, nil
}

type fakeModel struct {
	reply llm.Completion
	err   error
	reqs  []llm.Request
}

func (m *fakeModel) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	m.reqs = append(m.reqs, req)
	return m.reply, m.err
}

const validMatchesJSON = `{"matches":[
	{"name":"Ada Park","profileUrl":"https://www.linkedin.com/in/ada-park","relevance":"Staff engineer at Acme","commonalities":["Same alma mater"],"suggestedMessage":"Hi Ada!"},
	{"name":"Ben Ito","profileUrl":"https://www.linkedin.com/in/ben-ito","relevance":"Recruiter at Acme","commonalities":["Both speak Japanese"],"suggestedMessage":"Hi Ben!","connectionDegree":"2nd"}
]}`

const placeholderOnlyJSON = `{"matches":[
	{"name":"Jane Doe","profileUrl":"https://www.linkedin.com/in/example-jane","relevance":"Engineer","commonalities":["x"],"suggestedMessage":"Hi"}
]}`
