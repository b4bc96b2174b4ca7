package prompts

import (
	"fmt"
	"strings"

	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

// Reference is one law summary retrieved to ground the answer.
type Reference struct {
	Title   string
	Section string
	Summary string
}

// ChatInput carries everything the chat-answer template needs for one turn.
type ChatInput struct {
	Query             string
	UserName          string
	History           []models.ChatTurn
	Profile           *models.Profile
	ProfileIncomplete bool
	References        []Reference
}

// BuildChatPrompt assembles the user-side prompt for the chat-answer
// template. Validation failures never reach the model provider.
func BuildChatPrompt(in ChatInput) (string, error) {
	if strings.TrimSpace(in.Query) == "" {
		return "", fmt.Errorf("%w: empty query", apperr.ErrInvalidInput)
	}

	var b strings.Builder

	if in.UserName != "" {
		fmt.Fprintf(&b, "The user's name is %s. Use it to personalize greetings.\n\n", in.UserName)
	}

	if in.Profile != nil {
		b.WriteString("User profile details, for tailoring the response (do not repeat them back verbatim):\n")
		writeProfileLine(&b, "Gender", in.Profile.Gender)
		if in.Profile.Age != nil {
			fmt.Fprintf(&b, "- Age: %d\n", *in.Profile.Age)
		}
		writeProfileLine(&b, "Marital status", in.Profile.MaritalStatus)
		writeProfileLine(&b, "Country", in.Profile.Country)
		writeProfileLine(&b, "State", in.Profile.State)
		writeProfileLine(&b, "City", in.Profile.City)
		writeProfileLine(&b, "Preferred language", in.Profile.PreferredLanguage)
		b.WriteString("If the query concerns legal procedures like filing a complaint, make the guidance specific to the user's state or city (e.g. the state's cyber crime cell or local police). If a preferred language is specified, lean towards it while still respecting the language of the current query.\n\n")
	}

	if in.ProfileIncomplete {
		b.WriteString("The user's profile is new or incomplete. As part of your main response, gently encourage them to complete it for more personalized advice, with a Markdown link like: \"For more tailored guidance, consider completing your [profile settings](/profile).\" This must be a friendly suggestion, not a requirement.\n\n")
	}

	if len(in.References) > 0 {
		b.WriteString("Reference material from the CyberMozhi law library. Use it to ground legal citations when relevant:\n")
		for _, ref := range in.References {
			fmt.Fprintf(&b, "- %s (%s): %s\n", ref.Title, ref.Section, ref.Summary)
		}
		b.WriteString("\n")
	}

	if len(in.History) > 0 {
		b.WriteString("Here is the previous conversation history:\n")
		for _, turn := range in.History {
			switch turn.Role {
			case models.RoleUser:
				fmt.Fprintf(&b, "User: %s\n", turn.Text)
			case models.RoleModel:
				fmt.Fprintf(&b, "CyberMozhi: %s\n", turn.Text)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User's Current Question: %s\nAnswer:\n", in.Query)
	return b.String(), nil
}

// BuildTitlePrompt assembles the input for the chat-title template.
func BuildTitlePrompt(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", apperr.ErrInvalidInput)
	}
	return fmt.Sprintf("User Query: %s\n", query), nil
}

// BuildAttackSummaryPrompt assembles the input for the attack-summary template.
func BuildAttackSummaryPrompt(description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("%w: empty attack description", apperr.ErrInvalidInput)
	}
	return fmt.Sprintf("Description: %s\n", description), nil
}

func writeProfileLine(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}
