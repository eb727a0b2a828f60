package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

const mockModel = "mock"

// MockResponse is one queued reply. Err, when set, is returned as is.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays queued replies in order and records every
// request. Replies go through the same schema and content checks as a
// real backend. With an empty queue it fails as unavailable, unless it
// was built by NewSampleProvider, in which case it writes a sample bank.
type MockProvider struct {
	mu      sync.Mutex
	queue   []MockResponse
	samples bool

	Calls []Request
}

// NewMockProvider queues responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// NewSampleProvider answers every request with a sample bank sized to
// the request's schema. It backs the "mock" provider setting so game
// generation works offline.
func NewSampleProvider() *MockProvider {
	return &MockProvider{samples: true}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	next, ok := m.pop()
	m.mu.Unlock()

	switch {
	case ok && next.Err != nil:
		return nil, next.Err
	case ok:
	case m.samples:
		next = MockResponse{Content: SampleBank(schemaQuestionCount(req.Schema))}
	default:
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("mock: no response queued for call %d", m.CallCount())}
	}

	return finish(req, reply{
		content: next.Content,
		stop:    StopEnd,
		usage:   next.Usage,
		model:   mockModel,
	})
}

func (m *MockProvider) pop() (MockResponse, bool) {
	if len(m.queue) == 0 {
		return MockResponse{}, false
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	return next, true
}

func (m *MockProvider) ModelID() string { return mockModel }

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

const defaultSampleSize = 5

// schemaQuestionCount reads minItems of the questions array.
func schemaQuestionCount(s *Schema) int {
	if s == nil {
		return defaultSampleSize
	}
	props, _ := s.Definition["properties"].(map[string]any)
	questions, _ := props["questions"].(map[string]any)
	if n, ok := questions["minItems"].(int); ok && n > 0 {
		return n
	}
	return defaultSampleSize
}

type sampleOption struct {
	Text    string `json:"text"`
	Emoji   string `json:"emoji"`
	Correct bool   `json:"correct"`
}

type sampleQuestion struct {
	Text        string         `json:"text"`
	Emoji       string         `json:"emoji"`
	Story       string         `json:"story"`
	Explanation string         `json:"explanation"`
	Options     []sampleOption `json:"options"`
}

func yes(text, emoji string) sampleOption { return sampleOption{Text: text, Emoji: emoji, Correct: true} }
func no(text, emoji string) sampleOption { return sampleOption{Text: text, Emoji: emoji} }

var sampleQuestions = []sampleQuestion{
	{Text: "Which one is a fruit?", Emoji: "🍎", Explanation: "An apple grows on a tree and has seeds inside.",
		Options: []sampleOption{yes("Apple", "🍎"), no("Carrot", "🥕"), no("Bread", "🍞")}},
	{Text: "How many legs does a spider have?", Emoji: "🕷️", Explanation: "Spiders have eight legs, insects have six.",
		Options: []sampleOption{yes("Eight", ""), no("Six", ""), no("Four", "")}},
	{Text: "What do plants need to grow?", Emoji: "🌱", Explanation: "Plants drink water and use sunlight to make food.",
		Options: []sampleOption{yes("Water and sunlight", "☀️"), no("Only darkness", "🌑")}},
	{Text: "Which bin should a glass jar go in?", Emoji: "🫙", Explanation: "Glass can be melted and made into new jars.",
		Options: []sampleOption{yes("The recycling bin", "♻️"), no("The garden", "🌷"), no("The pond", "🦆")}},
	{Text: "What should you do when a friend is sad?", Emoji: "🤗", Explanation: "Listening shows your friend that you care.",
		Options: []sampleOption{yes("Listen and be kind", "💛"), no("Laugh at them", ""), no("Walk away", "")}},
	{Text: "Can a computer think exactly like a person?", Emoji: "🤖", Explanation: "Computers follow patterns they learned, they do not feel or think like us.",
		Options: []sampleOption{yes("No, it follows patterns", ""), no("Yes, just like me", "")}},
	{Text: "Which animal lives in the ocean?", Emoji: "🐳", Explanation: "Whales live in the sea and breathe air at the surface.",
		Options: []sampleOption{yes("Whale", "🐳"), no("Lion", "🦁"), no("Owl", "🦉")}},
	{Text: "What keeps your teeth healthy?", Emoji: "🪥", Explanation: "Brushing twice a day washes away food and germs.",
		Options: []sampleOption{yes("Brushing every day", "🪥"), no("Eating candy all day", "🍬")}},
	{Text: "What color do you get mixing blue and yellow?", Emoji: "🎨", Explanation: "Blue and yellow paint make green.",
		Options: []sampleOption{yes("Green", "🟢"), no("Red", "🔴"), no("Purple", "🟣")}},
	{Text: "Where does rain come from?", Emoji: "🌧️", Explanation: "Tiny drops in clouds join up until they are heavy enough to fall.",
		Options: []sampleOption{yes("Clouds", "☁️"), no("Trees", "🌳")}},
	{Text: "What should you share online?", Emoji: "💻", Explanation: "Keep your address and passwords private, even from new friends.",
		Options: []sampleOption{yes("Your favorite color", "🎨"), no("Your home address", "🏠"), no("Your password", "🔑")}},
	{Text: "Which is the best way to save water?", Emoji: "🚰", Explanation: "Turning off the tap while brushing saves lots of water.",
		Options: []sampleOption{yes("Turn off the tap", "🚰"), no("Leave the hose on", "")}},
}

// SampleBank returns a question bank with n questions in the shape
// bankgen asks models for. Banks longer than the built-in set repeat it
// with numbered questions so no two are the same.
func SampleBank(n int) json.RawMessage {
	bank := struct {
		Title     string           `json:"title"`
		Subtitle  string           `json:"subtitle"`
		Questions []sampleQuestion `json:"questions"`
	}{
		Title:    "Curious Minds",
		Subtitle: "A little bit of everything",
	}
	for i := range n {
		q := sampleQuestions[i%len(sampleQuestions)]
		if round := i / len(sampleQuestions); round > 0 {
			q.Text = fmt.Sprintf("%s (round %d)", q.Text, round+1)
		}
		bank.Questions = append(bank.Questions, q)
	}
	raw, err := json.Marshal(bank)
	if err != nil {
		panic(fmt.Sprintf("encode sample bank: %v", err))
	}
	return raw
}
