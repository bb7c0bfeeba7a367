package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/jmgilman/go/exec"

	"github.com/microcosm-cc/astral/cache"
	"github.com/microcosm-cc/astral/models"
)

// ErrNoOutput is returned when the renderer exits cleanly but produces nothing
var ErrNoOutput = errors.New("renderer produced no output")

// Generator computes chart artifacts
type Generator interface {
	Generate(ctx context.Context, m models.Subject) ([]byte, cache.Kind, error)
}

// ComputationError is returned when the external renderer fails
type ComputationError struct {
	Subject  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ComputationError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf(
			"rendering %s failed (exit %d): %v: %s",
			e.Subject,
			e.ExitCode,
			e.Err,
			e.Stderr,
		)
	}
	return fmt.Sprintf("rendering %s failed: %v", e.Subject, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// RendererConfig holds the settings for a Renderer
type RendererConfig struct {
	// Command is the renderer executable and any leading arguments, split on
	// whitespace
	Command string

	// Timeout is a time.ParseDuration string bounding each render
	Timeout string

	// Language is passed to the renderer for chart labels
	Language string

	// ThemePath is a CSS file embedded into every SVG chart
	ThemePath string

	// TempDir is where each SVG render gets its own scratch directory
	TempDir string
}

// Renderer runs an external program to compute charts.
//
// The program is called as
//
//	<command> --name N --year Y ... --language L --json
//	<command> --name N --year Y ... --language L --svg --output-dir DIR
//
// and is expected to print subject JSON to stdout, or to write one or more
// .svg files into DIR.
type Renderer struct {
	executor exec.Executor
	command  []string
	cfg      RendererConfig
}

// NewRenderer returns a Renderer running commands through executor
func NewRenderer(cfg RendererConfig, executor exec.Executor) (*Renderer, error) {
	command := strings.Fields(cfg.Command)
	if len(command) == 0 {
		return nil, fmt.Errorf("renderer command is empty")
	}

	return &Renderer{
		executor: executor,
		command:  command,
		cfg:      cfg,
	}, nil
}

// Generate renders the subject as JSON or SVG depending on m.SVG
func (r *Renderer) Generate(
	ctx context.Context,
	m models.Subject,
) (
	[]byte,
	cache.Kind,
	error,
) {
	if m.SVG {
		svg, err := r.renderSVG(ctx, m)
		return svg, cache.KindSVG, err
	}

	out, err := r.run(ctx, m, "--json")
	if err != nil {
		return nil, 0, err
	}

	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, 0, &ComputationError{Subject: m.Name, Err: ErrNoOutput}
	}
	if !json.Valid(out) {
		return nil, 0, &ComputationError{
			Subject: m.Name,
			Err:     errors.New("renderer returned invalid JSON"),
		}
	}

	return out, cache.KindJSON, nil
}

func (r *Renderer) renderSVG(ctx context.Context, m models.Subject) ([]byte, error) {
	if err := os.MkdirAll(r.cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", r.cfg.TempDir, err)
	}

	dir, err := os.MkdirTemp(r.cfg.TempDir, "render-")
	if err != nil {
		return nil, fmt.Errorf("creating render directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			glog.Warningf("os.RemoveAll(%s) %+v", dir, err)
		}
	}()

	if _, err := r.run(ctx, m, "--svg", "--output-dir", dir); err != nil {
		return nil, err
	}

	path, err := newestSVG(dir)
	if err != nil {
		return nil, &ComputationError{Subject: m.Name, Err: err}
	}

	svg, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	css, err := loadTheme(r.cfg.ThemePath)
	if err != nil {
		glog.Errorf("loadTheme(%s) %+v", r.cfg.ThemePath, err)
		return svg, nil
	}

	return EmbedStylesheet(svg, css), nil
}

func (r *Renderer) run(ctx context.Context, m models.Subject, mode ...string) ([]byte, error) {
	args := make([]string, 0, len(r.command)+len(mode)+24)
	args = append(args, r.command...)
	args = append(args, subjectArgs(m, r.cfg.Language)...)
	args = append(args, mode...)

	ex := r.executor.Clone().WithContext(ctx)
	if r.cfg.Timeout != "" {
		ex = ex.WithTimeout(r.cfg.Timeout)
	}

	if glog.V(2) {
		glog.Infof("Rendering %s (svg=%t)", m.Name, m.SVG)
	}

	res, err := ex.Run(args...)
	if err != nil {
		ce := &ComputationError{Subject: m.Name, ExitCode: -1, Err: err}

		var execErr *exec.ExecError
		if errors.As(err, &execErr) {
			ce.ExitCode = execErr.ExitCode
			ce.Stderr = strings.TrimSpace(execErr.Stderr)
			ce.Err = execErr.Err
		}
		return nil, ce
	}

	return []byte(res.Stdout), nil
}

func subjectArgs(m models.Subject, language string) []string {
	args := []string{
		"--name", m.Name,
		"--year", strconv.FormatInt(m.Year, 10),
		"--month", strconv.FormatInt(m.Month, 10),
		"--day", strconv.FormatInt(m.Day, 10),
		"--hour", strconv.FormatInt(m.Hour, 10),
		"--minute", strconv.FormatInt(m.Minute, 10),
		"--city", m.City,
		"--lng", strconv.FormatFloat(m.Lng, 'f', -1, 64),
		"--lat", strconv.FormatFloat(m.Lat, 'f', -1, 64),
		"--tz-str", m.TZ,
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	return args
}

// newestSVG returns the most recently modified .svg file in dir
func newestSVG(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	if err != nil {
		return "", err
	}

	var (
		newest string
		newMod int64
	)
	for _, p := range matches {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if mod := fi.ModTime().UnixNano(); newest == "" || mod > newMod {
			newest, newMod = p, mod
		}
	}

	if newest == "" {
		return "", ErrNoOutput
	}

	return newest, nil
}
