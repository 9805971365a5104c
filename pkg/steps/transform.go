package steps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/testrun/pkg/api"
)

// Transformer turns source text into transformed text.
type Transformer interface {
	Transform(ctx context.Context, src string) (string, error)
}

// CommandTransformer pipes the source through an external command:
// source on stdin, result on stdout.
type CommandTransformer struct {
	Command string
	Args    []string
	Dir     string
}

func (t *CommandTransformer) Transform(ctx context.Context, src string) (string, error) {
	cmd := exec.CommandContext(ctx, t.Command, t.Args...)
	cmd.Dir = t.Dir
	cmd.Stdin = strings.NewReader(src)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w\nstderr: %s", t.Command, err, stderr.String())
	}
	return stdout.String(), nil
}

// Chain runs each pass in order, feeding the output of one into the next.
type Chain []Transformer

func (c Chain) Transform(ctx context.Context, src string) (string, error) {
	out := src
	for i, pass := range c {
		var err error
		if out, err = pass.Transform(ctx, out); err != nil {
			return "", fmt.Errorf("pass %d: %w", i, err)
		}
	}
	return out, nil
}

// BannerData is the data available to banner templates.
type BannerData struct {
	Source string
	Dest   string
}

type bannerKey struct{}

// WithBannerData attaches the conversion's file names for BannerTransformer.
func WithBannerData(ctx context.Context, data BannerData) context.Context {
	return context.WithValue(ctx, bannerKey{}, data)
}

// BannerTransformer prepends a rendered template to the output of Next.
type BannerTransformer struct {
	Next     Transformer
	template *template.Template
}

// NewBannerTransformer parses text with the sprig function map.
func NewBannerTransformer(text string, next Transformer) (*BannerTransformer, error) {
	tmpl, err := template.New("banner").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing banner template: %w", err)
	}
	return &BannerTransformer{Next: next, template: tmpl}, nil
}

func (t *BannerTransformer) Transform(ctx context.Context, src string) (string, error) {
	out, err := t.Next.Transform(ctx, src)
	if err != nil {
		return "", err
	}

	data, _ := ctx.Value(bannerKey{}).(BannerData)

	var buf bytes.Buffer
	if err := t.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing banner template: %w", err)
	}
	return buf.String() + out, nil
}

// NewTransformers builds the base transformer and the extended one, which
// additionally runs the configured passes.
func NewTransformers(cfg api.TransformConfig, workDir string) (base, extended Transformer, err error) {
	cmd := &CommandTransformer{Command: resolveCommand(workDir, cfg.Command), Args: cfg.Args, Dir: workDir}

	chain := Chain{cmd}
	for _, p := range cfg.Passes {
		chain = append(chain, &CommandTransformer{Command: resolveCommand(workDir, p.Command), Args: p.Args, Dir: workDir})
	}

	base, extended = cmd, chain
	if cfg.Banner == "" {
		return base, extended, nil
	}

	if base, err = NewBannerTransformer(cfg.Banner, base); err != nil {
		return nil, nil, err
	}
	if extended, err = NewBannerTransformer(cfg.Banner, extended); err != nil {
		return nil, nil, err
	}
	return base, extended, nil
}

// resolveCommand anchors commands given as relative paths ("./bin/tool") to
// workDir; bare names are left for PATH lookup.
func resolveCommand(workDir, command string) string {
	if filepath.IsAbs(command) || !strings.ContainsAny(command, `/\`) {
		return command
	}
	return filepath.Join(workDir, command)
}
