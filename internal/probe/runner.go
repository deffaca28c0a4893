// Package probe runs labelled prompts against the chat API and prints a
// human readable report of each exchange.
package probe

import (
	"context"
	"io"

	"github.com/metalagman/glmprobe/internal/zhipu"
	"github.com/rs/zerolog/log"
)

// Completer sends one prompt and returns the API response.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...zhipu.CallOption) (*zhipu.Response, error)
}

// Outcome is the result of running one Case.
// Err is nil only when content was extracted from a 2xx response.
type Outcome struct {
	Case     Case
	Response *zhipu.Response
	Err      error
}

// Runner executes cases one at a time and writes the report to out.
type Runner struct {
	client   Completer
	out      io.Writer
	markdown bool
	opts     []zhipu.CallOption
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMarkdown renders generated content as markdown.
func WithMarkdown(enabled bool) RunnerOption {
	return func(r *Runner) { r.markdown = enabled }
}

// WithCallOptions applies per-call overrides to every request.
func WithCallOptions(opts ...zhipu.CallOption) RunnerOption {
	return func(r *Runner) { r.opts = append(r.opts, opts...) }
}

// NewRunner creates a Runner.
func NewRunner(client Completer, out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{client: client, out: out}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sends c.Prompt and reports the exchange. Failures are printed and
// returned in the Outcome, never raised.
func (r *Runner) Run(ctx context.Context, c Case) Outcome {
	p := printer{w: r.out, markdown: r.markdown}
	p.header(c.Label)
	p.prompt(c.Prompt)

	resp, err := r.client.Complete(ctx, c.Prompt, r.opts...)
	out := Outcome{Case: c, Response: resp, Err: err}

	logger := log.With().Str("case", c.Label).Logger()
	if err != nil {
		logger.Debug().Err(err).Str("kind", string(zhipu.KindOf(err))).Msg("case failed")
	}

	if resp == nil {
		switch {
		case zhipu.IsAuthFailure(err):
			p.errorf("cannot build a valid token, request not sent: %v", err)
		case err != nil:
			p.errorf("%v", err)
		}
		return out
	}

	p.raw(resp)

	switch {
	case !resp.OK():
		p.errorf("request failed with status %d", resp.StatusCode)
	case zhipu.IsKind(err, zhipu.KindUnexpectedBody):
		p.warnf("response format was not as expected")
	case err != nil:
		p.errorf("%v", err)
	default:
		p.content(resp.Content)
		if resp.Usage != nil {
			p.usage(resp.Usage)
		}
		logger.Info().Str("request_id", resp.RequestID).Int("total_tokens", totalTokens(resp)).Msg("case completed")
	}
	return out
}

// RunAll runs cases sequentially. Each case starts after the previous one's
// report has been written.
func (r *Runner) RunAll(ctx context.Context, cases []Case) []Outcome {
	outcomes := make([]Outcome, 0, len(cases))
	for _, c := range cases {
		outcomes = append(outcomes, r.Run(ctx, c))
	}
	return outcomes
}

// Failed counts outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

func totalTokens(resp *zhipu.Response) int {
	if resp.Usage == nil {
		return 0
	}
	return resp.Usage.TotalTokens
}
