package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/pipeline/builtin"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	calls []ChatRequest
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GenerateChat(ctx context.Context, req ChatRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeConfigRepo struct {
	values map[string]string
}

func newFakeConfigRepo() *fakeConfigRepo { return &fakeConfigRepo{values: map[string]string{}} }

func (f *fakeConfigRepo) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}
func (f *fakeConfigRepo) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}
func (f *fakeConfigRepo) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}
func (f *fakeConfigRepo) List(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

func TestManagerRespondUsesActiveProviderByDefault(t *testing.T) {
	t.Parallel()

	cfg := newFakeConfigRepo()
	m := NewManager(cfg)
	fp := &fakeProvider{name: "groq", reply: "hello there"}
	m.RegisterProvider(fp, map[string]string{"api_key": "sk-12345678"})
	require.NoError(t, m.Enable(context.Background()))

	reply, err := m.Respond(context.Background(), builtin.AIRequest{Prompt: "hi", SystemPrompt: "be nice"})
	require.NoError(t, err)
	require.Equal(t, "hello there", reply)
	require.Len(t, fp.calls, 1)
	require.Equal(t, []Message{{Role: "system", Content: "be nice"}, {Role: "user", Content: "hi"}}, fp.calls[0].Messages)
}

func TestManagerRespondFailsWhenDisabled(t *testing.T) {
	t.Parallel()

	m := NewManager(nil)
	m.RegisterProvider(&fakeProvider{name: "groq", reply: "x"}, nil)

	_, err := m.Respond(context.Background(), builtin.AIRequest{Prompt: "hi"})
	require.Error(t, err)
}

func TestManagerShowProviderKeysMasksOnlyWhenRequested(t *testing.T) {
	t.Parallel()

	m := NewManager(nil)
	m.RegisterProvider(&fakeProvider{name: "groq"}, map[string]string{"api_key": "sk-abcdef1234"})

	masked, err := m.ProviderKeys("groq", true)
	require.NoError(t, err)
	require.NotEqual(t, "sk-abcdef1234", masked["api_key"])
	require.Contains(t, masked["api_key"], "****")

	unmasked, err := m.ProviderKeys("groq", false)
	require.NoError(t, err)
	require.Equal(t, "sk-abcdef1234", unmasked["api_key"])
}

func TestManagerPersistsEnabledStateToConfigRepository(t *testing.T) {
	t.Parallel()

	cfg := newFakeConfigRepo()
	m := NewManager(cfg)
	require.NoError(t, m.Enable(context.Background()))

	reopened := NewManager(cfg)
	require.True(t, reopened.Enabled())
}
