// Package coordinator routes each author turn to exactly one workflow: image
// turns to figure interpretation, marker turns to their named workflow, and
// everything else to the drafting pipeline. Route priority is declaration
// order; a turn nothing claims is a structured routing error, not a silent
// fallthrough.
package coordinator

import (
	"context"
	"net/http"
	"strings"

	"github.com/hyper-light/quill/agents/assembler"
	"github.com/hyper-light/quill/agents/citations"
	"github.com/hyper-light/quill/agents/drafter"
	"github.com/hyper-light/quill/agents/figure"
	"github.com/hyper-light/quill/agents/interpreter"
	"github.com/hyper-light/quill/agents/repopaper"
	"github.com/hyper-light/quill/agents/retraction"
	"github.com/hyper-light/quill/agents/reviewer"
	"github.com/hyper-light/quill/core/config"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/state"
	"github.com/hyper-light/quill/core/tools"
)

// Deps are the shared services the coordinator's workflows draw on.
type Deps struct {
	Model    providers.Provider
	Config   *config.Config
	Searcher *tools.LiteratureSearcher
	Store    *retraction.Store

	// HTTPClient serves the repository workflow's fetch tool. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// New builds the full coordinator tree.
func New(deps Deps) *flow.Node {
	cfg := deps.Config

	draftModel := cfg.ModelFor("draft")
	reviewModel := cfg.ModelFor("review")
	figureModel := cfg.ModelFor("figure")

	reviewOpts := reviewer.Options{
		MaxIterations: cfg.Workflow.MaxReviewIterations,
		ToolRetries:   cfg.Workflow.ToolRetries,
	}

	drafting := flow.NewSequence("drafting",
		interpreter.New(deps.Model, draftModel),
		drafter.New(deps.Model, draftModel),
		assembler.New(),
		reviewer.New(deps.Model, reviewModel, reviewOpts),
		writer(),
	)

	repoPipeline := flow.NewSequence("repo_paper",
		repopaper.New(deps.Model, draftModel, repopaper.Options{
			ToolRetries: cfg.Workflow.ToolRetries,
			HTTPClient:  deps.HTTPClient,
		}),
		drafter.New(deps.Model, draftModel),
		assembler.New(),
		writer(),
	)

	citationsPipeline := flow.NewSequence("citations_pass",
		prepare(),
		citations.New(deps.Model, draftModel, deps.Searcher),
		writer(),
	)

	retractionPipeline := flow.NewSequence("retraction_pass",
		prepare(),
		retraction.New(deps.Model, reviewModel, deps.Store),
		writer(),
	)

	enhancePipeline := flow.NewSequence("enhance",
		prepare(),
		flow.NewParallel("enhance.gather",
			citations.Gather(deps.Model, draftModel, deps.Searcher),
			retraction.Gather(deps.Model, reviewModel, deps.Store),
		),
		enhanceMerge(deps.Model, draftModel),
		writer(),
	)

	reviewPipeline := flow.NewSequence("review_pass",
		prepare(),
		reviewer.New(deps.Model, reviewModel, reviewOpts),
		writer(),
	)

	return flow.NewRouter("coordinator",
		flow.Route{
			Name:   "figure",
			When:   func(in flow.Input) bool { return in.HasImage() },
			Target: figure.New(deps.Model, figureModel),
		},
		flow.Route{
			Name:   "repo_paper",
			When:   markerRoute(MarkerRepo),
			Target: repoPipeline,
		},
		flow.Route{
			Name:   "enhance",
			When:   markerRoute(MarkerEnhance),
			Target: enhancePipeline,
		},
		flow.Route{
			Name:   "citations",
			When:   markerRoute(MarkerCitations),
			Target: citationsPipeline,
		},
		flow.Route{
			Name:   "retractions",
			When:   markerRoute(MarkerRetractions),
			Target: retractionPipeline,
		},
		flow.Route{
			Name:   "review",
			When:   markerRoute(MarkerReview),
			Target: reviewPipeline,
		},
		flow.Route{
			Name:   "drafting",
			When:   func(in flow.Input) bool { return strings.TrimSpace(in.Text) != "" },
			Target: drafting,
		},
	)
}

func markerRoute(marker string) func(flow.Input) bool {
	return func(in flow.Input) bool { return hasMarker(in.Text, marker) }
}

// prepare guarantees the keys the enhancement prompts reference exist, and
// reassembles the manuscript from any seeded section drafts when no
// assembled copy was carried over.
func prepare() *flow.Node {
	return flow.NewLeaf("prepare", &flow.Leaf{
		Func: func(_ context.Context, rt *flow.Runtime) (string, error) {
			if rt.State.GetString(state.KeyFullManuscript) == "" {
				rt.State.Set(state.KeyFullManuscript, assembler.Assemble(rt.State))
			}

			rt.State.Set(state.KeyFigureDescriptions, rt.State.RenderFigureDescriptions())

			return "", nil
		},
	})
}

// writer surfaces the assembled manuscript as the turn's reply.
func writer() *flow.Node {
	return flow.NewLeaf("writer", &flow.Leaf{
		Func: func(_ context.Context, rt *flow.Runtime) (string, error) {
			return rt.State.GetString(state.KeyFullManuscript), nil
		},
	})
}

// enhanceMerge rewrites the draft using both gathered enrichment blocks in a
// single pass.
func enhanceMerge(model providers.Provider, modelName string) *flow.Node {
	return flow.NewLeaf("enhance.merge", &flow.Leaf{
		Model:       model,
		ModelName:   modelName,
		Instruction: enhancePrompt,
		OutputKey:   state.KeyEnhancedDraft,
		After: func(rt *flow.Runtime, output string) (string, error) {
			rt.State.Set(state.KeyFullManuscript, output)
			return output, nil
		},
	})
}
