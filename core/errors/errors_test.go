package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/hyper-light/quill/core/errors"
)

func TestCategoryOf_ExtractsThroughWrapping(t *testing.T) {
	base := qerrors.New(qerrors.CategoryAuth, "generate", "invalid api key")
	wrapped := fmt.Errorf("run failed: %w", base)

	assert.Equal(t, qerrors.CategoryAuth, qerrors.CategoryOf(wrapped))
	assert.True(t, qerrors.Is(wrapped, qerrors.CategoryAuth))
	assert.Equal(t, qerrors.CategoryGeneric, qerrors.CategoryOf(stderrors.New("plain")))
}

func TestWrap_NilPassesThrough(t *testing.T) {
	assert.NoError(t, qerrors.Wrap(qerrors.CategoryModel, "generate", nil))
}

func TestEveryCategoryHasASuggestion(t *testing.T) {
	categories := []qerrors.Category{
		qerrors.CategoryGeneric,
		qerrors.CategoryConfig,
		qerrors.CategoryValidation,
		qerrors.CategoryToolRouting,
		qerrors.CategoryRoutingMiss,
		qerrors.CategoryModel,
		qerrors.CategoryConnection,
		qerrors.CategoryAuth,
		qerrors.CategoryRateLimit,
		qerrors.CategoryExternal,
	}

	for _, c := range categories {
		assert.NotEmpty(t, c.Suggestion(), c.String())
		assert.NotEqual(t, "unknown", c.String())
	}
}

func TestIsToolRouting_RecognizesSignatures(t *testing.T) {
	recognized := []error{
		qerrors.New(qerrors.CategoryToolRouting, "invoke", "anything"),
		stderrors.New(`tool "clone_repo" not found in the tool registry`),
		stderrors.New("Unknown tool: search_web"),
		stderrors.New(`invalid tool arguments for "exit_loop"`),
	}
	for _, err := range recognized {
		assert.True(t, qerrors.IsToolRouting(err), err.Error())
	}

	unrecognized := []error{
		stderrors.New("disk on fire"),
		stderrors.New("connection refused"),
		nil,
	}
	for _, err := range unrecognized {
		assert.False(t, qerrors.IsToolRouting(err))
	}
}

func TestClassify_ProviderSignatures(t *testing.T) {
	cases := []struct {
		err  error
		want qerrors.Category
	}{
		{stderrors.New("401 unauthorized"), qerrors.CategoryAuth},
		{stderrors.New("429 too many requests"), qerrors.CategoryRateLimit},
		{stderrors.New("dial tcp: connection refused"), qerrors.CategoryConnection},
		{stderrors.New("503 service overloaded"), qerrors.CategoryModel},
		{stderrors.New("something else entirely"), qerrors.CategoryGeneric},
		{qerrors.New(qerrors.CategoryValidation, "decode", "bad shape"), qerrors.CategoryValidation},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, qerrors.Classify(tc.err), tc.err.Error())
	}
}

func TestError_MessageIncludesCategoryAndOp(t *testing.T) {
	err := qerrors.New(qerrors.CategoryRoutingMiss, "coordinator", "no route matched")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "routing_miss")
	assert.Contains(t, err.Error(), "coordinator")
}
