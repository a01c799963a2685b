package flow

import (
	"context"
	"fmt"
	"strings"

	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/prompt"
	"github.com/hyper-light/quill/core/providers"
)

const (
	defaultToolRounds = 6

	// fallbackUserTurn stands in when the leaf does not include the user
	// input; providers require at least one message.
	fallbackUserTurn = "Proceed according to your instructions."
)

func runLeaf(ctx context.Context, n *Node, rt *Runtime) error {
	leaf := n.Leaf

	rt.Stream.Emit(events.EventUnitStarted, n.Name)

	output, err := executeLeaf(ctx, n.Name, leaf, rt)
	if err != nil {
		rt.Stream.Emit(
			events.EventUnitFailed,
			n.Name,
			events.WithContent(err.Error()),
		)

		return err
	}

	rt.Output = output
	rt.Stream.Emit(
		events.EventUnitCompleted,
		n.Name,
		events.WithContent(output),
	)

	return nil
}

func executeLeaf(ctx context.Context, name string, leaf *Leaf, rt *Runtime) (string, error) {
	if leaf.Before != nil {
		if err := leaf.Before(rt); err != nil {
			return "", qerrors.Wrap(qerrors.CategoryGeneric, name, err)
		}
	}

	var (
		output string
		err    error
	)

	switch {
	case leaf.Func != nil:
		output, err = leaf.Func(ctx, rt)
		if err != nil {
			return "", qerrors.Wrap(qerrors.CategoryGeneric, name, err)
		}
	case leaf.Model != nil:
		output, err = generate(ctx, name, leaf, rt)
		if err != nil {
			return "", err
		}
	default:
		return "", qerrors.Wrap(qerrors.CategoryConfig, name, ErrNoModel)
	}

	// Contract validation replaces the raw text with the decoded value;
	// the output key only ever sees validated structure.
	var stored any = output

	if leaf.Contract != nil {
		decoded, decodeErr := leaf.Contract.Decode(output)
		if decodeErr != nil {
			return "", qerrors.Wrap(qerrors.CategoryValidation, name, decodeErr)
		}

		stored = decoded
	}

	var (
		prevValue any
		prevFound bool
	)

	if leaf.OutputKey != "" {
		prevValue, prevFound = rt.State.Get(leaf.OutputKey)
		rt.State.Set(leaf.OutputKey, stored)
	}

	if leaf.After != nil {
		output, err = leaf.After(rt, output)
		if err != nil {
			// A failed unit must not leave its output key written.
			if leaf.OutputKey != "" {
				if prevFound {
					rt.State.Set(leaf.OutputKey, prevValue)
				} else {
					rt.State.Delete(leaf.OutputKey)
				}
			}

			return "", qerrors.Wrap(qerrors.CategoryGeneric, name, err)
		}
	}

	return output, nil
}

// generate resolves the instruction against the current state and drives the
// model, retrying whole attempts on recognized tool routing failures. The
// tool set offered to the model never changes across attempts; recovery is a
// hint prepended to the instruction naming what failed and what exists.
func generate(ctx context.Context, name string, leaf *Leaf, rt *Runtime) (string, error) {
	instruction, err := prompt.Resolve(leaf.Instruction, rt.State.Snapshot())
	if err != nil {
		return "", qerrors.Wrap(qerrors.CategoryConfig, name, err)
	}

	maxAttempts := leaf.ToolRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var failures []string

	for attempt := 1; ; attempt++ {
		system := instruction
		if len(failures) > 0 {
			system = retryHint(failures, leaf) + "\n\n" + instruction
		}

		output, genErr := converse(ctx, name, leaf, rt, system)
		if genErr == nil {
			return output, nil
		}

		if !qerrors.IsToolRouting(genErr) {
			return "", genErr
		}

		failures = appendUnique(failures, genErr.Error())

		rt.Stream.Emit(
			events.EventToolFailed,
			name,
			events.WithContent(genErr.Error()),
			events.WithData(map[string]any{"attempt": attempt}),
		)

		if attempt >= maxAttempts {
			return "", qerrors.Wrap(
				qerrors.CategoryToolRouting,
				name,
				fmt.Errorf("tool routing failed after %d attempts: %w", attempt, genErr),
			)
		}
	}
}

// converse runs one full attempt: model call, tool rounds, final text.
func converse(ctx context.Context, name string, leaf *Leaf, rt *Runtime, system string) (string, error) {
	req := &providers.Request{
		Model:        leaf.ModelName,
		SystemPrompt: system,
	}

	if leaf.Tools != nil {
		req.Tools = leaf.Tools.Declarations()
	}

	userTurn := providers.Message{Role: providers.RoleUser, Content: fallbackUserTurn}
	if leaf.IncludeInput {
		userTurn.Content = rt.Input.Text
		userTurn.ImageMIME = rt.Input.ImageMIME
		userTurn.ImageData = rt.Input.ImageData
	}

	req.Messages = append(req.Messages, userTurn)

	maxRounds := leaf.MaxToolRounds
	if maxRounds < 1 {
		maxRounds = defaultToolRounds
	}

	for round := 0; round <= maxRounds; round++ {
		resp, err := leaf.Model.Generate(ctx, req)
		if err != nil {
			return "", qerrors.Wrap(qerrors.Classify(err), name, err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		if leaf.Tools == nil {
			return "", qerrors.New(
				qerrors.CategoryToolRouting,
				name,
				fmt.Sprintf("model requested tool %q but the unit has no tools", resp.ToolCalls[0].Name),
			)
		}

		req.Messages = append(req.Messages, providers.Message{
			Role:      providers.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			rt.Stream.Emit(
				events.EventToolCalled,
				name,
				events.WithTarget(call.Name),
				events.WithContent(call.Arguments),
			)

			result, invokeErr := leaf.Tools.Invoke(ctx, call, rt.State)
			if invokeErr != nil {
				return "", invokeErr
			}

			// Graceful tools degrade to warning strings; surface those
			// on the stream so the degradation is visible.
			if strings.HasPrefix(result, "WARNING:") {
				rt.Stream.Emit(
					events.EventAdvisory,
					name,
					events.WithTarget(call.Name),
					events.WithContent(result),
				)
			}

			req.Messages = append(req.Messages, providers.Message{
				Role:       providers.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", qerrors.Wrap(qerrors.CategoryModel, name, ErrToolRoundsExhausted)
}

// retryHint names the failed tool calls and the tools that actually exist.
func retryHint(failures []string, leaf *Leaf) string {
	var b strings.Builder

	b.WriteString("NOTE: previous attempts failed with tool errors:\n")
	for _, f := range failures {
		b.WriteString("  - ")
		b.WriteString(f)
		b.WriteString("\n")
	}

	if leaf.Tools != nil {
		b.WriteString("Only call tools from this list: ")
		b.WriteString(strings.Join(leaf.Tools.Names(), ", "))
		b.WriteString(".")
	} else {
		b.WriteString("Do not call any tools.")
	}

	return b.String()
}

func appendUnique(list []string, entry string) []string {
	for _, existing := range list {
		if existing == entry {
			return list
		}
	}

	return append(list, entry)
}
