package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/internal/generator"
	"github.com/Proton-105/creator-bot/internal/i18n"
	"github.com/Proton-105/creator-bot/internal/state"
)

const testChatID int64 = 42

var errUpstream = errors.New("upstream unavailable")

type call struct {
	Op        string
	To        string
	Text      string
	URL       string
	MessageID int
	Markup    *telebot.ReplyMarkup
}

// recordingMessenger keeps every outbound call in order.
type recordingMessenger struct {
	mu       sync.Mutex
	calls    []call
	nextID   int
	members  int
	photoErr  error
	sendErr   error
	editErr   error
	deleteErr error
}

func (m *recordingMessenger) SendText(_ context.Context, to, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call{Op: "send", To: to, Text: text})
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.nextID++
	return m.nextID, nil
}

func (m *recordingMessenger) SendKeyboard(_ context.Context, to, text string, markup *telebot.ReplyMarkup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call{Op: "keyboard", To: to, Text: text, Markup: markup})
	return nil
}

func (m *recordingMessenger) EditText(_ context.Context, chatID int64, messageID int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call{Op: "edit", To: strconv.FormatInt(chatID, 10), Text: text, MessageID: messageID})
	return m.editErr
}

func (m *recordingMessenger) Delete(_ context.Context, chatID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call{Op: "delete", To: strconv.FormatInt(chatID, 10), MessageID: messageID})
	return m.deleteErr
}

func (m *recordingMessenger) SendPhoto(_ context.Context, to, url, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call{Op: "photo", To: to, URL: url, Text: caption})
	return m.photoErr
}

func (m *recordingMessenger) MemberCount(_ context.Context, chatID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call{Op: "members", To: strconv.FormatInt(chatID, 10)})
	return m.members
}

func (m *recordingMessenger) Calls() []call {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *recordingMessenger) Ops() []string {
	calls := m.Calls()
	ops := make([]string, 0, len(calls))
	for _, c := range calls {
		ops = append(ops, c.Op)
	}
	return ops
}

func (m *recordingMessenger) CallsOf(op string) []call {
	var out []call
	for _, c := range m.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// fakeContent answers the first prompt with article and every later one
// with imagePrompt.
type fakeContent struct {
	mu          sync.Mutex
	article     generator.Result
	imagePrompt generator.Result
	models      []string
	prompts     []string
	usedModels  []string
}

func (f *fakeContent) Generate(_ context.Context, prompt, model string) generator.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	f.usedModels = append(f.usedModels, model)
	if len(f.prompts) == 1 {
		return f.article
	}
	return f.imagePrompt
}

func (f *fakeContent) ListModels(context.Context) []string {
	if f.models == nil {
		return []string{}
	}
	return f.models
}

type fakeImages struct {
	url     string
	err     error
	prompts []string
}

func (f *fakeImages) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeTranslator struct {
	out string
	err error
}

func (f *fakeTranslator) Translate(context.Context, string, string) (string, error) {
	return f.out, f.err
}

type fixture struct {
	d          *Dispatcher
	msgr       *recordingMessenger
	content    *fakeContent
	images     *fakeImages
	translator *fakeTranslator
	store      *state.MemoryStorage
	texts      i18n.Translator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		msgr: &recordingMessenger{members: 3},
		content: &fakeContent{
			article:     generator.Result{Success: true, Content: "**Launch Day**\n\nWe shipped."},
			imagePrompt: generator.Result{Success: true, Content: "a rocket at dawn"},
			models:      []string{"llama3-8b-8192", "mixtral-8x7b-32768"},
		},
		images:     &fakeImages{url: "https://image.pollinations.ai/prompt/a%20rocket%20at%20dawn"},
		translator: &fakeTranslator{out: "Buenos días"},
		store:      state.NewMemoryStorage(),
		texts:      i18n.MustLoad("en").Translator("en"),
	}

	f.d = NewDispatcher(Deps{
		Messenger:    f.msgr,
		Content:      f.content,
		Images:       f.images,
		Translate:    f.translator,
		Store:        f.store,
		DefaultModel: generator.DefaultModel,
		Texts:        f.texts,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return f
}

func (f *fixture) handle(t *testing.T, update telebot.Update) {
	t.Helper()

	if err := f.d.Handle(context.Background(), update); err != nil {
		t.Fatalf("handle: %v", err)
	}
}

func textUpdate(chatID int64, text string) telebot.Update {
	return telebot.Update{
		ID:      1,
		Message: &telebot.Message{ID: 10, Chat: &telebot.Chat{ID: chatID}, Text: text},
	}
}

func callbackUpdate(chatID int64, data string) telebot.Update {
	return telebot.Update{
		ID: 2,
		Callback: &telebot.Callback{
			ID:      "cb-1",
			Data:    data,
			Message: &telebot.Message{ID: 11, Chat: &telebot.Chat{ID: chatID}},
		},
	}
}
