package content

import "strings"

// LawSummary is one plain-language summary of an Indian cyber-law provision.
type LawSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Act     string `json:"act"`
	Section string `json:"section"`
	Summary string `json:"summary"`
	Details string `json:"details"`
	Penalty string `json:"penalty"`
}

var lawSummaries = []LawSummary{
	{
		ID:      "1",
		Title:   "Tampering with Computer Source Documents",
		Act:     "IT Act, 2000",
		Section: "Section 65",
		Summary: "Prohibits intentionally concealing, destroying, or altering computer source code used for a computer, computer program, computer system or computer network, when the source code is required to be kept or maintained by law.",
		Details: "This section aims to protect the integrity of software and ensure that critical source code, vital for the functioning and understanding of computer systems, is not maliciously altered or hidden.",
		Penalty: "Imprisonment up to three years, or with fine up to two lakh rupees, or with both.",
	},
	{
		ID:      "2",
		Title:   "Hacking with Computer Systems",
		Act:     "IT Act, 2000",
		Section: "Section 66",
		Summary: "Addresses hacking, defined as fraudulent or dishonest acts under section 43 (e.g. unauthorized access, data damage, introducing viruses). If committed dishonestly or fraudulently, it becomes an offense under this section.",
		Details: "This is a broad section covering various malicious activities against computer systems when performed with dishonest intent. It builds upon the civil liabilities defined in Section 43.",
		Penalty: "Imprisonment up to three years, or with fine up to five lakh rupees, or with both.",
	},
	{
		ID:      "3",
		Title:   "Punishment for Identity Theft",
		Act:     "IT Act, 2000",
		Section: "Section 66C",
		Summary: "Criminalizes the fraudulent or dishonest use of another person's electronic signature, password, or any other unique identification feature.",
		Details: "This section specifically targets identity theft in the digital realm, where impersonation can lead to significant financial or reputational harm.",
		Penalty: "Imprisonment of either description for a term which may extend to three years and shall also be liable to fine which may extend to rupees one lakh.",
	},
	{
		ID:      "4",
		Title:   "Punishment for Cheating by Personation by using Computer Resource",
		Act:     "IT Act, 2000",
		Section: "Section 66D",
		Summary: "Punishes cheating by personation using any communication device or computer resource.",
		Details: "This targets individuals who impersonate others online (e.g., creating fake social media profiles for fraudulent purposes) to deceive and cheat victims.",
		Penalty: "Imprisonment of either description for a term which may extend to three years and shall also be liable to fine which may extend to rupees one lakh.",
	},
	{
		ID:      "5",
		Title:   "Punishment for violation of privacy",
		Act:     "IT Act, 2000",
		Section: "Section 66E",
		Summary: "Criminalizes capturing, publishing, or transmitting images of a private area of any person without their consent, under circumstances violating their privacy.",
		Details: "This section is crucial for protecting personal privacy against voyeurism and non-consensual image sharing in the digital age.",
		Penalty: "Imprisonment which may extend to three years or with fine not exceeding two lakh rupees, or with both.",
	},
	{
		ID:      "6",
		Title:   "Punishment for Cyber Terrorism",
		Act:     "IT Act, 2000",
		Section: "Section 66F",
		Summary: "Deals with acts of cyber terrorism, including denying access to authorized persons, unauthorized access to or penetration of a computer resource, or introducing contaminants with intent to threaten national security, unity, integrity, or sovereignty, or to strike terror.",
		Details: "This is a serious offense targeting large-scale attacks that can cripple critical infrastructure or threaten national security.",
		Penalty: "Imprisonment for life.",
	},
	{
		ID:      "7",
		Title:   "Punishment for publishing or transmitting obscene material in electronic form",
		Act:     "IT Act, 2000",
		Section: "Section 67",
		Summary: "Punishes the publication or transmission of material which is lascivious or appeals to the prurient interest or if its effect is such as to tend to deprave and corrupt persons.",
		Details: "This section addresses the dissemination of pornographic or obscene content online. It has different penalties for first conviction and subsequent convictions.",
		Penalty: "First conviction: imprisonment up to three years and fine up to five lakh rupees. Subsequent conviction: imprisonment up to five years and fine up to ten lakh rupees.",
	},
	{
		ID:      "8",
		Title:   "Punishment for publishing or transmitting of material containing sexually explicit act, etc., in electronic form",
		Act:     "IT Act, 2000",
		Section: "Section 67A",
		Summary: "Specifically punishes publishing or transmitting material containing sexually explicit acts or conduct.",
		Details: "This section is more specific than Section 67 and focuses on material depicting sexual acts.",
		Penalty: "First conviction: imprisonment up to five years and fine up to ten lakh rupees. Subsequent conviction: imprisonment up to seven years and fine up to ten lakh rupees.",
	},
}

// Laws returns every law summary in display order.
func Laws() []LawSummary {
	out := make([]LawSummary, len(lawSummaries))
	copy(out, lawSummaries)
	return out
}

// LawsByAct filters the law summaries by act name (case-insensitive).
func LawsByAct(act string) []LawSummary {
	if act == "" {
		return Laws()
	}
	var out []LawSummary
	for _, l := range lawSummaries {
		if strings.EqualFold(l.Act, act) {
			out = append(out, l)
		}
	}
	return out
}

// FindLaw looks a law summary up by its section label, e.g. "Section 66C".
func FindLaw(section string) (LawSummary, bool) {
	for _, l := range lawSummaries {
		if strings.EqualFold(l.Section, section) {
			return l, true
		}
	}
	return LawSummary{}, false
}
