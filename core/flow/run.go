package flow

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/state"
)

// Run executes a node tree against the runtime. Dispatch is a single
// exhaustive switch over the node kind; an unknown kind is a programming
// error and fails loudly.
func Run(ctx context.Context, n *Node, rt *Runtime) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if n.Guard != nil && !n.Guard(rt.State) {
		rt.Stream.Emit(
			events.EventUnitSkipped,
			n.Name,
			events.WithContent("guard declined"),
		)

		return nil
	}

	switch n.Kind {
	case KindLeaf:
		return runLeaf(ctx, n, rt)
	case KindSequence:
		return runSequence(ctx, n, rt)
	case KindParallel:
		return runParallel(ctx, n, rt)
	case KindLoop:
		return runLoop(ctx, n, rt)
	case KindRouter:
		return runRouter(ctx, n, rt)
	default:
		return qerrors.New(
			qerrors.CategoryGeneric,
			n.Name,
			fmt.Sprintf("unknown node kind %d", n.Kind),
		)
	}
}

// ==============================================================================
// Sequence
// ==============================================================================

func runSequence(ctx context.Context, n *Node, rt *Runtime) error {
	rt.Stream.Emit(events.EventUnitStarted, n.Name)

	for _, child := range n.Children {
		if err := Run(ctx, child, rt); err != nil {
			rt.Stream.Emit(
				events.EventUnitFailed,
				n.Name,
				events.WithContent(err.Error()),
				events.WithData(map[string]any{"failed_child": child.Name}),
			)

			return err
		}
	}

	rt.Stream.Emit(events.EventUnitCompleted, n.Name)

	return nil
}

// ==============================================================================
// Parallel
// ==============================================================================

// runParallel fans the children out concurrently. Each member runs against
// its own copy of the pre-block state so no member observes another's
// writes; completed members are merged back in declaration order after all
// have finished. Members are required to write disjoint keys, so merge
// order only matters for the shared keys they all read.
func runParallel(ctx context.Context, n *Node, rt *Runtime) error {
	rt.Stream.Emit(events.EventUnitStarted, n.Name)

	snapshot := rt.State.Snapshot()

	members := make([]*Runtime, len(n.Children))

	var group errgroup.Group

	for i, child := range n.Children {
		members[i] = &Runtime{
			State:  state.New(snapshot),
			Stream: rt.Stream,
			Input:  rt.Input,
		}

		group.Go(func() error {
			return Run(ctx, child, members[i])
		})
	}

	// The block completes only once every member has completed or
	// failed; one member's failure fails the block.
	if err := group.Wait(); err != nil {
		rt.Stream.Emit(
			events.EventUnitFailed,
			n.Name,
			events.WithContent(err.Error()),
		)

		return err
	}

	for _, m := range members {
		rt.State.Merge(m.State.Snapshot())
	}

	rt.Stream.Emit(events.EventUnitCompleted, n.Name)

	return nil
}

// ==============================================================================
// Loop
// ==============================================================================

func runLoop(ctx context.Context, n *Node, rt *Runtime) error {
	loop := n.Loop
	if loop == nil || len(loop.Body) == 0 {
		return qerrors.Wrap(qerrors.CategoryConfig, n.Name, ErrEmptyLoop)
	}

	maxIterations := loop.MaxIterations
	if maxIterations < 1 {
		maxIterations = 1
	}

	rt.Stream.Emit(events.EventUnitStarted, n.Name)

	loopState := LoopRunning

	for iteration := 1; iteration <= maxIterations; iteration++ {
		rt.Stream.Emit(
			events.EventLoopIteration,
			n.Name,
			events.WithData(map[string]any{
				"iteration": iteration,
				"max":       maxIterations,
			}),
		)

		for _, child := range loop.Body {
			if err := Run(ctx, child, rt); err != nil {
				rt.Stream.Emit(
					events.EventUnitFailed,
					n.Name,
					events.WithContent(err.Error()),
				)

				return err
			}
		}

		// The stop condition is evaluated only after a full body pass.
		if loop.Stop != nil {
			value := strings.TrimSpace(rt.State.GetString(loop.Stop.Key))
			if value == loop.Stop.Sentinel {
				loopState = LoopStoppedByCondition

				break
			}
		}
	}

	// Hitting the cap without the condition firing is best effort, not
	// an error. The last iteration's state stands.
	if loopState == LoopRunning {
		loopState = LoopStoppedByLimit
	}

	rt.Stream.Emit(
		events.EventLoopStopped,
		n.Name,
		events.WithContent(loopState.String()),
	)
	rt.Stream.Emit(events.EventUnitCompleted, n.Name)

	return nil
}

// ==============================================================================
// Router
// ==============================================================================

func runRouter(ctx context.Context, n *Node, rt *Runtime) error {
	for _, route := range n.Router.Routes {
		if !route.When(rt.Input) {
			continue
		}

		rt.Stream.Emit(
			events.EventTransfer,
			n.Name,
			events.WithTarget(route.Target.Name),
			events.WithData(map[string]any{"route": route.Name}),
		)

		return Run(ctx, route.Target, rt)
	}

	names := make([]string, 0, len(n.Router.Routes))
	for _, route := range n.Router.Routes {
		names = append(names, route.Name)
	}

	return qerrors.New(
		qerrors.CategoryRoutingMiss,
		n.Name,
		fmt.Sprintf(
			"no route matched the input (routes: %s)",
			strings.Join(names, ", "),
		),
	)
}
