package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ai"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

func replyWith(text string) func(context.Context, string, driven.GenerateOptions) (*driven.Generation, error) {
	return func(context.Context, string, driven.GenerateOptions) (*driven.Generation, error) {
		return &driven.Generation{Text: text}, nil
	}
}

func TestStructureCmd_Defaults(t *testing.T) {
	assert.Equal(t, domain.DefaultTopicsFile, structureCmd.Flags().Lookup("input-file").DefValue)
	assert.Equal(t, domain.DefaultStructuredTopicsFile, structureCmd.Flags().Lookup("output-file").DefValue)
}

func TestStructureCmd_WritesModelOrder(t *testing.T) {
	env := setupTestServices(t)
	in := env.path("topics.json")
	out := env.path("structured/topics.json")
	writeFile(t, in, `["Graphs", "Big-O notation"]`)
	env.llm.GenerateFunc = func(_ context.Context, _ string, opts driven.GenerateOptions) (*driven.Generation, error) {
		assert.Equal(t, driven.SafetyBlockLowAndAbove, opts.Safety)
		return &driven.Generation{Text: "Sure:\n```json\n[\"Big-O notation\", \"Graphs\"]\n```"}, nil
	}

	stdout, stderr, err := run(t, "structure-topics", "--input-file", in, "--output-file", out)

	require.NoError(t, err)
	assert.Equal(t, []string{"Big-O notation", "Graphs"}, readTopics(t, out))
	assert.Contains(t, stdout, "Loaded 2 topics")
	assert.NotContains(t, stderr, "Warning")
	assert.Equal(t, []ai.Role{ai.RoleSynthesis}, env.roles)
	require.Len(t, env.llm.prompts, 1)
	assert.Contains(t, env.llm.prompts[0], "- Graphs\n- Big-O notation")
}

func TestStructureCmd_AcceptsTopicsObject(t *testing.T) {
	env := setupTestServices(t)
	in := env.path("topics.json")
	out := env.path("out.json")
	writeFile(t, in, `{"topics": ["A", "B"]}`)
	env.llm.GenerateFunc = replyWith(`["B", "A"]`)

	_, _, err := run(t, "structure-topics", "--input-file", in, "--output-file", out)

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, readTopics(t, out))
}

func TestStructureCmd_CountMismatchStillWrites(t *testing.T) {
	env := setupTestServices(t)
	in := env.path("topics.json")
	out := env.path("out.json")
	writeFile(t, in, `["A", "B"]`)
	env.llm.GenerateFunc = replyWith(`["A"]`)

	_, stderr, err := run(t, "structure-topics", "--input-file", in, "--output-file", out)

	require.NoError(t, err)
	assert.Contains(t, stderr, "sent 2 topics but received 1")
	assert.Equal(t, []string{"A"}, readTopics(t, out))
}

func TestStructureCmd_UnparsableReply(t *testing.T) {
	env := setupTestServices(t)
	in := env.path("topics.json")
	out := env.path("out.json")
	writeFile(t, in, `["A"]`)
	env.llm.GenerateFunc = replyWith("I cannot help with that.")

	_, _, err := run(t, "structure-topics", "--input-file", in, "--output-file", out)

	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestStructureCmd_ObjectReplyRejected(t *testing.T) {
	env := setupTestServices(t)
	in := env.path("topics.json")
	out := env.path("out.json")
	writeFile(t, in, `["A"]`)
	env.llm.GenerateFunc = replyWith(`{"order": ["A"]}`)

	_, _, err := run(t, "structure-topics", "--input-file", in, "--output-file", out)

	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestStructureCmd_EmptyInput(t *testing.T) {
	env := setupTestServices(t)
	in := env.path("topics.json")
	writeFile(t, in, `[]`)

	stdout, _, err := run(t, "structure-topics", "--input-file", in, "--output-file", env.path("out.json"))

	require.NoError(t, err)
	assert.Contains(t, stdout, "Nothing to structure")
	assert.Empty(t, env.llm.prompts)
}

func TestStructureCmd_MalformedInput(t *testing.T) {
	env := setupTestServices(t)
	in := env.path("topics.json")
	writeFile(t, in, `{"items": ["A"]}`)

	_, _, err := run(t, "structure-topics", "--input-file", in, "--output-file", env.path("out.json"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
