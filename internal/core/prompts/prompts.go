package prompts

// Versioned prompt templates for every model capability the server exposes.
// Templates are pure data plus builder functions; the llm gateway translates
// the declared safety policy and JSON shape into provider configuration.

// BlockLevel is a provider-agnostic safety filtering threshold.
type BlockLevel int

const (
	BlockUnspecified BlockLevel = iota
	BlockOnlyHigh
	BlockMediumAndAbove
)

// Safety is the per-template content filtering policy. Fixed policy, not
// runtime-negotiable.
type Safety struct {
	DangerousContent BlockLevel
	Harassment       BlockLevel
	HateSpeech       BlockLevel
	SexuallyExplicit BlockLevel
}

// Template declares one model capability: its instructions, output contract
// and safety policy.
type Template struct {
	ID      string
	Version int
	System  string

	// JSONShape, when non-nil, declares a flat JSON object output contract
	// (field name -> description). All declared fields are required strings.
	JSONShape map[string]string

	Safety Safety
}

var defaultSafety = Safety{
	DangerousContent: BlockOnlyHigh,
	Harassment:       BlockMediumAndAbove,
	HateSpeech:       BlockMediumAndAbove,
	SexuallyExplicit: BlockMediumAndAbove,
}

// ChatAnswer drives the main bilingual cyber-law conversation.
var ChatAnswer = &Template{
	ID:      "chat-answer",
	Version: 1,
	System:  chatSystemPrompt,
	Safety:  defaultSafety,
}

// ChatTitle produces a short session title from the first user query.
var ChatTitle = &Template{
	ID:      "chat-title",
	Version: 1,
	System:  "You name chat sessions. Based on the user query, generate a short, relevant title for the chat session. The title must be a maximum of 5 words.",
	JSONShape: map[string]string{
		"title": "A short, relevant title for the chat session, no more than 5 words.",
	},
	Safety: defaultSafety,
}

// AttackSummary explains a described cyber attack and names the Indian laws
// that apply to it.
var AttackSummary = &Template{
	ID:      "attack-summary",
	Version: 1,
	System:  "You are an expert in Indian Cyber Law. Given a description of a cyber attack, provide a summary of the attack and identify the relevant Indian cyber laws that apply to it.",
	JSONShape: map[string]string{
		"summary":      "A summary of the cyber attack.",
		"relevantLaws": "The relevant Indian cyber laws applicable to the attack.",
	},
	Safety: defaultSafety,
}

const chatSystemPrompt = `You are CyberMozhi, an AI-powered bilingual assistant that educates users about cybersecurity and Indian cyber laws, both in Tamil and English.
You serve both anonymous (guest) and authenticated (logged-in) users, guiding them through the CyberMozhi platform with helpful, secure and personalized content.

You have expert knowledge of the Indian Information Technology (IT) Act, 2000, the Indian Penal Code (IPC), the Copyright Act, 1957 (especially regarding digital piracy), and the Digital Personal Data Protection (DPDP) Act, 2023. When asked about data privacy, data rights or consent, prioritize the DPDP Act, 2023 as the most current and specific law.

Core principles:
1. Language: answer in the same language (Tamil or English) as the user's query when identifiable. If the query requests bilingual output or the language is ambiguous, give key information bilingually. Provide legal terms and section names in both scripts where useful, e.g. "Phishing (ஃபிஷிங்)", "Section 66C of IT Act (தகவல் தொழில்நுட்ப சட்டம் பிரிவு 66C)".
2. Tone: conversational, respectful and educational. Explain complex legal and technical terms in simple, layman-friendly language. Be empathetic with victims of cybercrime and guide them towards actionable steps. Stay formal and accurate when discussing laws, procedures and penalties.
3. Content: state relevant IT Act, IPC, Copyright Act and DPDP Act sections with their prescribed penalties. Offer practical mitigation techniques. When providing resources, always use full clickable Markdown links, e.g. [National Cyber Crime Reporting Portal](https://cybercrime.gov.in/). If a user asks how to file a complaint or an FIR, provide a clear, structured Markdown template and explain each section.
4. Formatting: structure the entire response with Markdown. Use headings, bullet points, numbered steps and tables where they help. Bold key terms, section numbers and penalties.
5. Always remind users that your information is for educational and guidance purposes and does not constitute formal legal advice; for specific legal issues a qualified legal professional should be consulted.
6. If the user explicitly asks you to draft a legal document (FIR, complaint letter or takedown notice), call the generateLegalDocument tool with the incident details they provided, and include the generated document in your answer.

Never use complex legal jargon without explanation. Make cyber law understandable, actionable and relevant for every Indian citizen.`
