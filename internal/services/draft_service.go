package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/models"
)

// Supported legal document types. Closed enumeration.
const (
	DocTypeFIR             = "FIR"
	DocTypeComplaintLetter = "ComplaintLetter"
	DocTypeTakedownNotice  = "TakedownNotice"
)

// DraftToolName is the function name the model uses to invoke drafting
// mid-turn.
const DraftToolName = "generateLegalDocument"

// Disclaimer appended to every generated document, verbatim.
const DraftDisclaimer = "***Disclaimer: This is an AI-generated draft for initial correspondence. It is not a substitute for formal legal advice. Please review and edit it carefully, and consult a legal professional for serious matters.***"

// DraftApology is returned to the model when a tool invocation cannot be
// served, instead of failing the enclosing turn.
const DraftApology = "Sorry, I was unable to generate the document at this time. Please try rephrasing your request."

// DraftRequest carries the incident facts supplied by the user. Absent
// optional fields are rendered as bracketed placeholders; the drafter never
// invents names, dates or addresses it was not given.
type DraftRequest struct {
	DocumentType    string `json:"documentType"`
	IncidentDetails string `json:"incidentDetails"`
	UserName        string `json:"userName,omitempty"`
	UserContact     string `json:"userContact,omitempty"`
	AccusedDetails  string `json:"accusedDetails,omitempty"`
}

// DraftService renders legal document drafts from fixed structural templates
// and keeps a per-user record of generated drafts, archived best-effort to
// object storage.
type DraftService struct {
	db      core.DbClient
	archive core.ObjectClient
	bucket  string
}

func NewDraftService(db core.DbClient, archive core.ObjectClient, bucket string) *DraftService {
	return &DraftService{db: db, archive: archive, bucket: bucket}
}

type draftFields struct {
	UserName        string
	UserContact     string
	AccusedDetails  string
	IncidentDetails string
}

var draftTemplates = map[string]*template.Template{
	DocTypeFIR:             template.Must(template.New(DocTypeFIR).Parse(firTemplate)),
	DocTypeComplaintLetter: template.Must(template.New(DocTypeComplaintLetter).Parse(complaintTemplate)),
	DocTypeTakedownNotice:  template.Must(template.New(DocTypeTakedownNotice).Parse(takedownTemplate)),
}

// Draft renders the requested document. The returned Markdown always ends
// with the fixed disclaimer.
func (s *DraftService) Draft(ctx context.Context, userID string, req DraftRequest) (string, error) {
	tpl, ok := draftTemplates[req.DocumentType]
	if !ok {
		return "", fmt.Errorf("%w: unknown document type %q", apperr.ErrInvalidRequest, req.DocumentType)
	}
	if strings.TrimSpace(req.IncidentDetails) == "" {
		return "", fmt.Errorf("%w: incident details are required", apperr.ErrInvalidRequest)
	}

	fields := draftFields{
		UserName:        orPlaceholder(req.UserName, "[YOUR FULL NAME]"),
		UserContact:     orPlaceholder(req.UserContact, "[YOUR CONTACT DETAILS - PHONE / EMAIL]"),
		AccusedDetails:  orPlaceholder(req.AccusedDetails, "[ACCUSED'S NAME / USERNAME / WEBSITE, IF KNOWN]"),
		IncidentDetails: strings.TrimSpace(req.IncidentDetails),
	}

	var b strings.Builder
	if err := tpl.Execute(&b, fields); err != nil {
		return "", fmt.Errorf("render %s: %w", req.DocumentType, err)
	}
	b.WriteString("\n\n")
	b.WriteString(DraftDisclaimer)
	doc := b.String()

	s.record(ctx, userID, req.DocumentType, doc)
	return doc, nil
}

// record persists the draft and archives it to object storage. Both writes
// are best-effort: the user still receives their document if saving fails.
func (s *DraftService) record(ctx context.Context, userID, documentType, doc string) {
	if s.db == nil || userID == "" {
		return
	}

	draft := &models.LegalDraft{
		ID:           uuid.NewString(),
		UserID:       userID,
		DocumentType: documentType,
		Content:      doc,
	}

	if s.archive != nil && s.bucket != "" {
		key := fmt.Sprintf("drafts/%s/%s.md", userID, draft.ID)
		url, err := s.archive.UploadFile(ctx, s.bucket, key, []byte(doc), "text/markdown")
		if err != nil {
			log.Printf("draft archive failed for user %s: %v", userID, err)
		} else {
			draft.StorageURL = url
		}
	}

	if err := s.db.CreateLegalDraft(ctx, draft); err != nil {
		log.Printf("draft save failed for user %s: %v", userID, err)
	}
}

// ListDrafts returns the user's saved drafts, newest first.
func (s *DraftService) ListDrafts(ctx context.Context, userID string) ([]models.LegalDraft, error) {
	return s.db.ListLegalDrafts(ctx, userID)
}

// DraftToolDeclaration exposes the drafter to the model as a callable function.
func DraftToolDeclaration() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        DraftToolName,
				Description: "Generates legal document drafts (FIR, Complaint Letter, Takedown Notice) based on user-provided details about a cyber incident. Use this when a user explicitly asks to draft a legal document.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"documentType": {
							Type:        genai.TypeString,
							Enum:        []string{DocTypeFIR, DocTypeComplaintLetter, DocTypeTakedownNotice},
							Description: "The type of legal document to generate.",
						},
						"incidentDetails": {
							Type:        genai.TypeString,
							Description: "A detailed description of the incident: what happened, when, who was involved, and any evidence available.",
						},
						"userName": {
							Type:        genai.TypeString,
							Description: "The user's full name.",
						},
						"userContact": {
							Type:        genai.TypeString,
							Description: "The user's contact information (phone or email).",
						},
						"accusedDetails": {
							Type:        genai.TypeString,
							Description: "Details about the accused person or entity, if known.",
						},
					},
					Required: []string{"documentType", "incidentDetails"},
				},
			},
		},
	}
}

// ToolHandler adapts the drafter to model-initiated invocations. Failures
// become a fixed apology string rather than failing the enclosing turn.
func (s *DraftService) ToolHandler(userID string) core.ToolHandler {
	return func(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
		if name != DraftToolName {
			return nil, fmt.Errorf("unknown tool %q", name)
		}
		req := DraftRequest{
			DocumentType:    stringArg(args, "documentType"),
			IncidentDetails: stringArg(args, "incidentDetails"),
			UserName:        stringArg(args, "userName"),
			UserContact:     stringArg(args, "userContact"),
			AccusedDetails:  stringArg(args, "accusedDetails"),
		}
		doc, err := s.Draft(ctx, userID, req)
		if err != nil {
			log.Printf("draft tool invocation failed: %v", err)
			doc = DraftApology
		}
		return map[string]any{"generatedDocument": doc}, nil
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return strings.TrimSpace(v)
}

const firTemplate = `To,
The Officer in Charge,
[POLICE STATION / CYBER CRIME CELL]

From,
{{.UserName}}
{{.UserContact}}

**Subject: Filing of First Information Report (F.I.R) regarding a cyber crime incident**

Respected Sir/Madam,

## Complainant Details

- **Name:** {{.UserName}}
- **Contact:** {{.UserContact}}
- **Address:** [YOUR FULL ADDRESS]

## Incident Details

On [PLEASE FILL IN THE EXACT DATE OF THE INCIDENT], the following took place:

{{.IncidentDetails}}

## Details of the Accused

{{.AccusedDetails}}

## Evidence Available

- [LIST EVIDENCE AVAILABLE, e.g. screenshots, bank statements, URLs]

I humbly request you to register a First Information Report under the relevant sections of the Information Technology Act, 2000 and the Indian Penal Code, and to take necessary action against the accused at the earliest.

Yours Sincerely,

{{.UserName}}`

const complaintTemplate = `To,
The Cyber Crime Cell / Concerned Authority,
[AUTHORITY NAME AND ADDRESS]

From,
{{.UserName}}
{{.UserContact}}

**Date:** [PLEASE FILL IN TODAY'S DATE]

**Subject: Complaint regarding a cyber incident**

Respected Sir/Madam,

I wish to bring the following matter to your attention:

{{.IncidentDetails}}

**Details of the person/entity responsible, if known:**

{{.AccusedDetails}}

I request you to investigate this matter and take appropriate action against the perpetrator under the applicable provisions of the Information Technology Act, 2000 and other relevant laws.

Thanking you,

Yours faithfully,

{{.UserName}}
{{.UserContact}}`

const takedownTemplate = `To,
The Grievance Officer / Legal Department,
[HOSTING PROVIDER/PLATFORM NAME - PLEASE SPECIFY]

**Subject: Takedown Notice under Section 79 of the IT Act, 2000 and the Copyright Act, 1957**

Dear Sir/Madam,

I, {{.UserName}} ({{.UserContact}}), submit this notice regarding unlawful content hosted on your platform.

## Description of the Unlawful Content

{{.IncidentDetails}}

**Location of the content:** [EXACT URL(S) OF THE INFRINGING/DEFAMATORY CONTENT]

**Uploader / responsible party, if known:**

{{.AccusedDetails}}

## Declaration

I declare in good faith that the information in this notice is accurate and that I am authorized to act in respect of the content identified above.

I request you to expeditiously remove or disable access to the specified content as per your obligations under Indian law.

For any follow-up, I can be reached at {{.UserContact}}.

Sincerely,

{{.UserName}}`
