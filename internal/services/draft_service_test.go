package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
)

func TestDraftFIRLeavesPlaceholdersForUnknownFacts(t *testing.T) {
	svc := NewDraftService(newMemStore(), nil, "")

	doc, err := svc.Draft(context.Background(), "u1", DraftRequest{
		DocumentType:    DocTypeFIR,
		IncidentDetails: "On my UPI app, Rs 50,000 was transferred without my consent.",
		UserName:        "Arun Kumar",
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "Arun Kumar")
	assert.Contains(t, doc, "Rs 50,000 was transferred")
	// Facts the user never supplied stay as fill-in markers.
	assert.Contains(t, doc, "[ACCUSED'S NAME / USERNAME / WEBSITE, IF KNOWN]")
	assert.Contains(t, doc, "[YOUR CONTACT DETAILS - PHONE / EMAIL]")
	assert.Contains(t, doc, "[PLEASE FILL IN THE EXACT DATE OF THE INCIDENT]")
	assert.True(t, strings.HasSuffix(doc, DraftDisclaimer))
}

func TestDraftAllDocumentTypes(t *testing.T) {
	svc := NewDraftService(newMemStore(), nil, "")

	for _, docType := range []string{DocTypeFIR, DocTypeComplaintLetter, DocTypeTakedownNotice} {
		t.Run(docType, func(t *testing.T) {
			doc, err := svc.Draft(context.Background(), "u1", DraftRequest{
				DocumentType:    docType,
				IncidentDetails: "My photos were posted without consent.",
				UserName:        "Meena",
				UserContact:     "meena@example.com",
			})
			require.NoError(t, err)
			assert.Contains(t, doc, "Meena")
			assert.Contains(t, doc, "My photos were posted without consent.")
			assert.True(t, strings.HasSuffix(doc, DraftDisclaimer))
		})
	}
}

func TestDraftIsDeterministic(t *testing.T) {
	svc := NewDraftService(newMemStore(), nil, "")
	req := DraftRequest{
		DocumentType:    DocTypeTakedownNotice,
		IncidentDetails: "A fake profile impersonating me.",
		UserName:        "Ravi",
	}

	a, err := svc.Draft(context.Background(), "u1", req)
	require.NoError(t, err)
	b, err := svc.Draft(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDraftValidation(t *testing.T) {
	svc := NewDraftService(newMemStore(), nil, "")

	_, err := svc.Draft(context.Background(), "u1", DraftRequest{
		DocumentType:    "AffidavitOfTruth",
		IncidentDetails: "something happened",
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)

	_, err = svc.Draft(context.Background(), "u1", DraftRequest{
		DocumentType:    DocTypeFIR,
		IncidentDetails: "   ",
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
}

func TestDraftRecordsForAuthenticatedUserOnly(t *testing.T) {
	store := newMemStore()
	svc := NewDraftService(store, nil, "")

	_, err := svc.Draft(context.Background(), "u1", DraftRequest{
		DocumentType:    DocTypeComplaintLetter,
		IncidentDetails: "Online harassment on social media.",
	})
	require.NoError(t, err)
	require.Len(t, store.drafts["u1"], 1)
	assert.Equal(t, DocTypeComplaintLetter, store.drafts["u1"][0].DocumentType)

	// Guest drafts are rendered but never persisted.
	_, err = svc.Draft(context.Background(), "", DraftRequest{
		DocumentType:    DocTypeComplaintLetter,
		IncidentDetails: "Online harassment on social media.",
	})
	require.NoError(t, err)
	assert.Empty(t, store.drafts[""])
}

func TestToolHandlerReturnsDocument(t *testing.T) {
	svc := NewDraftService(newMemStore(), nil, "")
	handler := svc.ToolHandler("u1")

	out, err := handler(context.Background(), DraftToolName, map[string]any{
		"documentType":    DocTypeFIR,
		"incidentDetails": "My email account was hacked.",
		"userName":        "Karthik",
	})
	require.NoError(t, err)
	doc, ok := out["generatedDocument"].(string)
	require.True(t, ok)
	assert.Contains(t, doc, "Karthik")
	assert.Contains(t, doc, "My email account was hacked.")
}

func TestToolHandlerApologizesInsteadOfFailing(t *testing.T) {
	svc := NewDraftService(newMemStore(), nil, "")
	handler := svc.ToolHandler("u1")

	out, err := handler(context.Background(), DraftToolName, map[string]any{
		"documentType": "NotARealDocument",
	})
	require.NoError(t, err)
	assert.Equal(t, DraftApology, out["generatedDocument"])
}

func TestToolHandlerRejectsUnknownTool(t *testing.T) {
	svc := NewDraftService(newMemStore(), nil, "")
	handler := svc.ToolHandler("u1")

	_, err := handler(context.Background(), "deleteAllEvidence", nil)
	require.Error(t, err)
}
