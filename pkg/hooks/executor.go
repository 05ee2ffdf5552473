package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vanderheijden86/tunebook/pkg/debug"
)

// maxOutput caps the captured stdout/stderr kept per hook.
const maxOutput = 4096

// Result is the outcome of one hook run.
type Result struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Error    error
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs the configured hooks for one export.
type Executor struct {
	config  *Config
	context ExportContext
	results []Result
}

// NewExecutor creates an executor. A nil config runs nothing.
func NewExecutor(cfg *Config, ctx ExportContext) *Executor {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Executor{config: cfg, context: ctx}
}

// SetContext replaces the export context, typically after the export has
// produced its output paths.
func (e *Executor) SetContext(ctx ExportContext) { e.context = ctx }

// RunPreExport runs the pre-export hooks in order. The first failing hook
// with on_error=fail stops the run and its error is returned.
func (e *Executor) RunPreExport() error {
	for _, h := range e.config.Hooks.PreExport {
		r := e.run(context.Background(), h, PreExport)
		if !r.Success && h.OnError == "fail" {
			return fmt.Errorf("pre-export hook %q failed: %w", h.Name, r.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook. Failures of on_error=fail
// hooks are joined into the returned error once all hooks have run.
func (e *Executor) RunPostExport() error {
	var errs []error
	for _, h := range e.config.Hooks.PostExport {
		r := e.run(context.Background(), h, PostExport)
		if r.Success {
			continue
		}
		if h.OnError == "fail" {
			errs = append(errs, fmt.Errorf("post-export hook %q failed: %w", h.Name, r.Error))
		} else {
			debug.Log("hooks: post-export hook %q failed: %v", h.Name, r.Error)
		}
	}
	return errors.Join(errs...)
}

func (e *Executor) run(ctx context.Context, h Hook, phase HookPhase) Result {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	cmd.Env = append(os.Environ(), e.context.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	r := Result{
		Hook:     h,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   truncate(strings.TrimSpace(stdout.String()), maxOutput),
		Stderr:   truncate(strings.TrimSpace(stderr.String()), maxOutput),
		Duration: time.Since(start),
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %v", timeout)
		}
		r.Error = err
	}
	debug.Log("hooks: %s %q ok=%v in %v", phase, h.Name, r.Success, r.Duration)
	e.results = append(e.results, r)
	return r
}

// Results returns the hooks run so far.
func (e *Executor) Results() []Result {
	return e.results
}

// Summary formats the results, one line per hook plus indented output.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range e.results {
		status := "ok"
		if !r.Success {
			status = "FAILED: " + r.Error.Error()
		}
		fmt.Fprintf(&sb, "hook %s [%s] %s (%v)\n", r.Hook.Name, r.Phase, status, r.Duration.Round(time.Millisecond))
		if r.Stdout != "" {
			fmt.Fprintf(&sb, "  %s\n", strings.ReplaceAll(r.Stdout, "\n", "\n  "))
		}
		if r.Stderr != "" && !r.Success {
			fmt.Fprintf(&sb, "  stderr: %s\n", strings.ReplaceAll(r.Stderr, "\n", "\n  "))
		}
	}
	return sb.String()
}

// RunHooks loads the hooks in dir and returns the load warnings for the
// caller to show. The executor is nil when hooks are disabled or none are
// configured.
func RunHooks(dir string, ctx ExportContext, noHooks bool) (*Executor, []string, error) {
	if noHooks {
		return nil, nil, nil
	}
	loader := NewLoader(WithConfigDir(dir))
	if err := loader.Load(); err != nil {
		return nil, nil, err
	}
	warnings := loader.Warnings()
	for _, w := range warnings {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, warnings, nil
	}
	return NewExecutor(loader.Config(), ctx), warnings, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
