// Package pipeline runs the column stages in their fixed order and anonymizes
// last.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/wdm0006/anonymizer/pkg/anonymize"
	"github.com/wdm0006/anonymizer/pkg/frame"
	tr "github.com/wdm0006/anonymizer/pkg/transform"
	"github.com/wdm0006/anonymizer/pkg/transform/columns"
	"github.com/wdm0006/anonymizer/pkg/transform/discretize"
	"github.com/wdm0006/anonymizer/pkg/transform/encode"
	"github.com/wdm0006/anonymizer/pkg/transform/impute"
	"github.com/wdm0006/anonymizer/pkg/transform/outliers"
	"github.com/wdm0006/anonymizer/pkg/transform/scale"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

// Options holds the raw arguments of each stage as given on the command line.
// A nil or empty slice means the stage was not requested.
type Options struct {
	Remove      []string
	MinMaxScale []string
	Binarize    []string
	Categorize  []string
	Fill        []string
	Clamp       []string
	Round       []string
	Anonymize   []string
}

type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline composes a sequence of Transforms followed by an optional
// anonymization step.
type Pipeline struct {
	steps  []tr.Transform
	anon   *anonymize.Anonymizer
	logger *slog.Logger
}

func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) Add(t tr.Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Anonymize sets the columns renamed after every stage has run.
func (p *Pipeline) Anonymize(cols []string) *Pipeline {
	p.anon = &anonymize.Anonymizer{Columns: cols}
	return p
}

// Stages lists the stage names in run order.
func (p *Pipeline) Stages() []string {
	out := make([]string, 0, len(p.steps)+1)
	for _, t := range p.steps {
		out = append(out, t.Name())
	}
	if p.anon != nil {
		out = append(out, p.anon.Name())
	}
	return out
}

// Build assembles the stages requested in o. The order is fixed no matter the
// order the flags were given in. Fill, Clamp and Round with fewer arguments
// than they need are skipped without error.
func Build(o Options, opts ...Option) (*Pipeline, error) {
	p := NewPipeline(opts...)
	if len(o.Remove) > 0 {
		p.Add(&columns.Remove{Columns: o.Remove})
	}
	if len(o.MinMaxScale) > 0 {
		p.Add(&scale.MinMax{Columns: o.MinMaxScale})
	}
	if len(o.Binarize) > 0 {
		p.Add(&scale.Binarize{Columns: o.Binarize})
	}
	if len(o.Categorize) > 0 {
		p.Add(&encode.Categorize{Columns: o.Categorize})
	}
	if p.wants(tr.StageFill, o.Fill, tr.MinFillArgs) {
		t, err := impute.NewFill(o.Fill)
		if err != nil {
			return nil, err
		}
		p.Add(t)
	}
	if p.wants(tr.StageClamp, o.Clamp, tr.MinClampArgs) {
		t, err := outliers.NewClamp(o.Clamp)
		if err != nil {
			return nil, err
		}
		p.Add(t)
	}
	if p.wants(tr.StageRound, o.Round, tr.MinRoundArgs) {
		t, err := discretize.NewRound(o.Round)
		if err != nil {
			return nil, err
		}
		p.Add(t)
	}
	if len(o.Anonymize) > 0 {
		p.Anonymize(o.Anonymize)
	}
	return p, nil
}

func (p *Pipeline) wants(stage string, args []string, min int) bool {
	if len(args) == 0 {
		return false
	}
	if len(args) < min {
		p.logger.Debug("stage skipped", "stage", stage, "args", len(args), "min_args", min)
		return false
	}
	return true
}

// Result is the outcome of a run.
type Result struct {
	Frame   *frame.Frame
	Log     *translog.Log
	Mapping anonymize.Mapping
}

// Run applies every stage to f in order. The first error aborts the run and
// no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, f *frame.Frame) (*Result, error) {
	var err error
	cur := f
	log := translog.New()
	for _, t := range p.steps {
		p.logger.Debug("running stage", "stage", t.Name())
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, err
		}
		if r, ok := t.(tr.Recorder); ok {
			log.Append(r.Record())
		}
	}
	res := &Result{Frame: cur, Log: log}
	if p.anon != nil {
		m, err := p.anon.Apply(ctx, cur, log)
		if err != nil {
			return nil, err
		}
		res.Mapping = m
		p.logger.Info("anonymized columns", "count", len(m))
	}
	return res, nil
}
