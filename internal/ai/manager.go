package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/maowbot/maowbot/internal/logger"
	"github.com/maowbot/maowbot/internal/repository/interfaces"
)

const (
	configKeyEnabled        = "ai.enabled"
	configKeyActiveProvider = "ai.active_provider"
)

// registeredProvider pairs a Provider with the raw config it was built
// from, so ShowProviderKeys can report what is configured without
// re-deriving it from the provider itself.
type registeredProvider struct {
	provider Provider
	config   map[string]string
}

// Manager is the runtime home for every configured ai.Provider. It
// satisfies internal/pipeline/builtin.AIResponder for the ai_respond
// pipeline action and backs internal/rpc/pb.AiServiceServer's
// enable/disable/configure/list/generate surface (spec.md §4.7).
//
// Persisted state (enabled flag, active provider name) lives in
// ConfigRepository the same way every other flat setting does
// (spec.md §6); provider API keys stay in-memory only, set via
// ConfigureProvider for the lifetime of the process, since the config
// store is not a secrets vault.
type Manager struct {
	cfg interfaces.ConfigRepository
	log *logger.Logger

	mu        sync.RWMutex
	providers map[string]*registeredProvider
	active    string
	enabled   bool
}

// NewManager creates a Manager. cfg may be nil, in which case enabled/
// active-provider state is held in memory only and does not survive a
// restart.
func NewManager(cfg interfaces.ConfigRepository) *Manager {
	m := &Manager{
		cfg:       cfg,
		log:       logger.New("ai.manager"),
		providers: make(map[string]*registeredProvider),
	}
	if cfg != nil {
		if v, ok, _ := cfg.Get(context.Background(), configKeyEnabled); ok {
			m.enabled = v == "true"
		}
		if v, ok, _ := cfg.Get(context.Background(), configKeyActiveProvider); ok {
			m.active = v
		}
	}
	return m
}

// RegisterProvider makes provider available by name, recording the raw
// config it was built from for ShowProviderKeys. Typically called once at
// startup per configured provider and again whenever ConfigureProvider
// replaces one.
func (m *Manager) RegisterProvider(p Provider, rawConfig map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[p.Name()] = &registeredProvider{provider: p, config: rawConfig}
	if m.active == "" {
		m.active = p.Name()
	}
}

// Generate is the provider-routing core behind both Respond (for the
// pipeline engine) and GenerateChat (for AiServiceServer).
func (m *Manager) Generate(ctx context.Context, providerID, model, systemPrompt, prompt string, maxTokens int, temperature float32) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("ai: disabled")
	}

	m.mu.RLock()
	name := providerID
	if name == "" {
		name = m.active
	}
	rp, ok := m.providers[name]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("ai: provider %q not configured", name)
	}

	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	return rp.provider.GenerateChat(ctx, ChatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
}

// GenerateFromMessages backs AiServiceServer.GenerateChat, which carries a
// full message list rather than the system/prompt split the ai_respond
// pipeline action uses.
func (m *Manager) GenerateFromMessages(ctx context.Context, providerID, model string, messages []Message) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("ai: disabled")
	}

	m.mu.RLock()
	name := providerID
	if name == "" {
		name = m.active
	}
	rp, ok := m.providers[name]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("ai: provider %q not configured", name)
	}

	return rp.provider.GenerateChat(ctx, ChatRequest{Model: model, Messages: messages})
}

// Enable/Disable/Enabled back AiServiceServer.EnableAi/DisableAi/GetStatus.

func (m *Manager) Enable(ctx context.Context) error {
	m.mu.Lock()
	m.enabled = true
	m.mu.Unlock()
	return m.persist(ctx, configKeyEnabled, "true")
}

func (m *Manager) Disable(ctx context.Context) error {
	m.mu.Lock()
	m.enabled = false
	m.mu.Unlock()
	return m.persist(ctx, configKeyEnabled, "false")
}

func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

func (m *Manager) ActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// SetActiveProvider backs ConfigureProvider's implicit activation of the
// most recently configured provider.
func (m *Manager) SetActiveProvider(ctx context.Context, name string) error {
	m.mu.Lock()
	_, ok := m.providers[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("ai: provider %q not configured", name)
	}
	m.active = name
	m.mu.Unlock()
	return m.persist(ctx, configKeyActiveProvider, name)
}

// ListProviders backs AiServiceServer.ListProviders.
func (m *Manager) ListProviders() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

// ProviderKeys backs AiServiceServer.ShowProviderKeys. masked replaces
// every value with asterisks except the first/last two characters, the way
// an operator-facing secrets display should never echo a usable key.
func (m *Manager) ProviderKeys(name string, masked bool) (map[string]string, error) {
	m.mu.RLock()
	rp, ok := m.providers[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("ai: provider %q not configured", name)
	}
	out := make(map[string]string, len(rp.config))
	for k, v := range rp.config {
		if masked {
			out[k] = maskSecret(v)
		} else {
			out[k] = v
		}
	}
	return out, nil
}

func maskSecret(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-2:]
}

func (m *Manager) persist(ctx context.Context, key, value string) error {
	if m.cfg == nil {
		return nil
	}
	if err := m.cfg.Set(ctx, key, value); err != nil {
		m.log.Error("persist %s: %v", key, err)
		return err
	}
	return nil
}
