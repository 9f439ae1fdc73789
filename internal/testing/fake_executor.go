package testing

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/imamik/hostkit/internal/remote"
)

// Response is a scripted reply for a command.
type Response struct {
	Output     string
	ExitStatus int
	Err        error
}

// OK returns a successful response with the given output.
func OK(output string) Response {
	return Response{Output: output}
}

// Fail returns a response with a non-zero exit status.
func Fail(status int, output string) Response {
	return Response{Output: output, ExitStatus: status}
}

// Broken returns a response that simulates a transport failure.
func Broken(err error) Response {
	return Response{Err: err}
}

type rule struct {
	fragment string
	resp     Response
	once     bool
	used     bool
}

// Upload records a file written through FakeExecutor.Upload.
type Upload struct {
	Path    string
	Content string
	Mode    os.FileMode
}

// FakeExecutor is a remote.Executor that answers from scripted rules.
// The first rule whose fragment is contained in the command line wins;
// unmatched commands succeed with empty output.
type FakeExecutor struct {
	mu       sync.Mutex
	rules    []rule
	commands []string
	uploads  []Upload
}

var _ remote.Executor = (*FakeExecutor)(nil)

// NewFakeExecutor creates an executor with no rules.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{}
}

// On adds a rule. Returns the executor for chaining.
func (f *FakeExecutor) On(fragment string, resp Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{fragment: fragment, resp: resp})
	return f
}

// Once adds a rule that answers a single matching command and is then
// skipped, so a later rule for the same fragment takes over.
func (f *FakeExecutor) Once(fragment string, resp Response) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{fragment: fragment, resp: resp, once: true})
	return f
}

// Execute implements remote.Executor.
func (f *FakeExecutor) Execute(_ context.Context, line string) (remote.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, line)

	for i := range f.rules {
		r := &f.rules[i]
		if r.used || !strings.Contains(line, r.fragment) {
			continue
		}
		r.used = r.once
		if r.resp.Err != nil {
			return remote.Result{}, r.resp.Err
		}
		return remote.Result{Command: line, Output: r.resp.Output, ExitStatus: r.resp.ExitStatus}, nil
	}
	return remote.Result{Command: line}, nil
}

// Upload implements remote.Executor.
func (f *FakeExecutor) Upload(_ context.Context, content io.Reader, remotePath string, mode os.FileMode) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, Upload{Path: remotePath, Content: string(data), Mode: mode})
	return nil
}

// Commands returns every executed command line in order.
func (f *FakeExecutor) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}

// Uploads returns every uploaded file in order.
func (f *FakeExecutor) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Upload, len(f.uploads))
	copy(out, f.uploads)
	return out
}

// UploadTo returns the last upload whose path ends with suffix.
func (f *FakeExecutor) UploadTo(suffix string) (Upload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.uploads) - 1; i >= 0; i-- {
		if strings.HasSuffix(f.uploads[i].Path, suffix) {
			return f.uploads[i], true
		}
	}
	return Upload{}, false
}
