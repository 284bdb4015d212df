package tutor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAssemblerWindowsHistory(t *testing.T) {
	store := newMemConversationStore()
	threadID, err := store.EnsureThread(context.Background(), "u1", "c1", "ch1")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		require.NoError(t, store.Append(context.Background(), threadID, role, fmt.Sprintf("turn %d", i)))
	}

	assembler := NewContextAssembler(store, 14)
	prompt, err := assembler.Build(context.Background(), threadID, lessonFixture(), "the summary")
	require.NoError(t, err)

	require.Len(t, prompt, 15, "system message plus the window")
	assert.Equal(t, RoleSystem, prompt[0].Role)
	assert.Contains(t, prompt[0].Content, "the summary")

	// Oldest turns fell out; the rest stay chronological.
	assert.Equal(t, "turn 6", prompt[1].Content)
	assert.Equal(t, "turn 19", prompt[14].Content)
	for i := 1; i < len(prompt)-1; i++ {
		assert.NotEqual(t, prompt[i].Role, prompt[i+1].Role, "roles alternate in this fixture")
	}
}

func TestContextAssemblerShortThread(t *testing.T) {
	store := newMemConversationStore()
	threadID, err := store.EnsureThread(context.Background(), "u1", "c1", "ch1")
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), threadID, RoleUser, "only question"))

	assembler := NewContextAssembler(store, 14)
	prompt, err := assembler.Build(context.Background(), threadID, lessonFixture(), "summary")
	require.NoError(t, err)

	require.Len(t, prompt, 2)
	assert.Equal(t, RoleSystem, prompt[0].Role)
	assert.Equal(t, "only question", prompt[1].Content)
}
