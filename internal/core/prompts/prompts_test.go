package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

func TestBuildChatPromptRejectsEmptyQuery(t *testing.T) {
	_, err := BuildChatPrompt(ChatInput{Query: "   "})
	require.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestBuildChatPromptIncludesHistoryAndQuery(t *testing.T) {
	prompt, err := BuildChatPrompt(ChatInput{
		Query: "What is the penalty?",
		History: []models.ChatTurn{
			{Role: models.RoleUser, Text: "What is phishing?"},
			{Role: models.RoleModel, Text: "Phishing is a fraudulent attempt..."},
		},
	})
	require.NoError(t, err)
	require.Contains(t, prompt, "User: What is phishing?")
	require.Contains(t, prompt, "CyberMozhi: Phishing is a fraudulent attempt...")
	require.Contains(t, prompt, "User's Current Question: What is the penalty?")
}

func TestBuildChatPromptProfileNudge(t *testing.T) {
	prompt, err := BuildChatPrompt(ChatInput{Query: "hello", ProfileIncomplete: true})
	require.NoError(t, err)
	require.Contains(t, prompt, "[profile settings](/profile)")

	prompt, err = BuildChatPrompt(ChatInput{Query: "hello"})
	require.NoError(t, err)
	require.NotContains(t, prompt, "[profile settings](/profile)")
}

func TestBuildChatPromptProfileDetails(t *testing.T) {
	age := 34
	prompt, err := BuildChatPrompt(ChatInput{
		Query: "how do I file a complaint?",
		Profile: &models.Profile{
			State:         "Tamil Nadu",
			City:          "Madurai",
			MaritalStatus: "Married",
			Age:           &age,
		},
	})
	require.NoError(t, err)
	require.Contains(t, prompt, "State: Tamil Nadu")
	require.Contains(t, prompt, "City: Madurai")
	require.Contains(t, prompt, "Age: 34")
}

func TestBuildChatPromptReferences(t *testing.T) {
	prompt, err := BuildChatPrompt(ChatInput{
		Query: "identity theft punishment",
		References: []Reference{
			{Title: "Punishment for Identity Theft", Section: "Section 66C", Summary: "Criminalizes fraudulent use of another person's identity."},
		},
	})
	require.NoError(t, err)
	require.Contains(t, prompt, "Punishment for Identity Theft (Section 66C)")
}

func TestTemplateShapes(t *testing.T) {
	require.Nil(t, ChatAnswer.JSONShape)
	require.Contains(t, ChatTitle.JSONShape, "title")
	require.Contains(t, AttackSummary.JSONShape, "summary")
	require.Contains(t, AttackSummary.JSONShape, "relevantLaws")
	require.Equal(t, BlockOnlyHigh, ChatAnswer.Safety.DangerousContent)
	require.Equal(t, BlockMediumAndAbove, ChatAnswer.Safety.Harassment)
}
