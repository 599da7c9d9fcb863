package system

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command patterns to responses. Lookup tries the full
	// command line first, then "name arg0", then the bare name.
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// InteractiveErr is returned by ExecuteInteractive if set.
	InteractiveErr error

	// Installed lists executables LookPath should find.
	Installed map[string]bool

	// passthrough routes the named executables to real instead of the
	// canned responses.
	passthrough map[string]bool
	real        CommandExecutor
}

// MockCommand records an executed command.
type MockCommand struct {
	Dir         string
	Name        string
	Args        []string
	Interactive bool
}

// String returns the command line without the directory.
func (c MockCommand) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
		Installed: make(map[string]bool),
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

// Install marks an executable as present on PATH.
func (m *MockExecutor) Install(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		m.Installed[n] = true
	}
}

// PassThrough runs the named executables through real while every other
// command keeps using canned responses. Passed-through commands are still
// recorded.
func (m *MockExecutor) PassThrough(real CommandExecutor, names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.passthrough == nil {
		m.passthrough = make(map[string]bool)
	}
	m.real = real
	for _, n := range names {
		m.passthrough[n] = true
	}
}

func (m *MockExecutor) delegate(name string) CommandExecutor {
	if m.real != nil && m.passthrough[name] {
		return m.real
	}
	return nil
}

func (m *MockExecutor) lookup(name string, args []string) MockResponse {
	full := strings.Join(append([]string{name}, args...), " ")
	if resp, ok := m.Responses[full]; ok {
		return resp
	}
	if len(args) > 0 {
		if resp, ok := m.Responses[name+" "+args[0]]; ok {
			return resp
		}
	}
	if resp, ok := m.Responses[name]; ok {
		return resp
	}
	return m.DefaultResponse
}

func (m *MockExecutor) Execute(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, MockCommand{Dir: dir, Name: name, Args: args})
	real := m.delegate(name)
	resp := m.lookup(name, args)
	m.mu.Unlock()

	if real != nil {
		return real.Execute(ctx, dir, name, args...)
	}
	return resp.Output, resp.Err
}

func (m *MockExecutor) ExecuteInteractive(ctx context.Context, dir string, name string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{Dir: dir, Name: name, Args: args, Interactive: true})

	if m.InteractiveErr != nil {
		return m.InteractiveErr
	}
	return nil
}

func (m *MockExecutor) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if real := m.delegate(name); real != nil {
		return real.LookPath(name)
	}
	if m.Installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// CommandCount returns how many times a command matching prefix was run.
func (m *MockExecutor) CommandCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Commands {
		if strings.HasPrefix(c.String(), prefix) {
			n++
		}
	}
	return n
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}
