package content

import "strings"

// GlossaryTerm is one entry of the cyber-law / cybersecurity glossary.
type GlossaryTerm struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Category   string `json:"category"`
}

var glossaryTerms = []GlossaryTerm{
	{
		ID:         "1",
		Term:       "Phishing",
		Definition: "A fraudulent attempt to obtain sensitive information such as usernames, passwords, and credit card details by disguising as a trustworthy entity in an electronic communication.",
		Category:   "Cyber Attacks",
	},
	{
		ID:         "2",
		Term:       "DDoS (Distributed Denial of Service)",
		Definition: "An attack where multiple compromised computer systems attack a target, such as a server, website or other network resource, and cause a denial of service for users of the targeted resource.",
		Category:   "Cyber Attacks",
	},
	{
		ID:         "3",
		Term:       "Malware",
		Definition: "Software specifically designed to disrupt, damage, or gain unauthorized access to a computer system. Examples include viruses, worms, trojan horses, ransomware, and spyware.",
		Category:   "Cyber Attacks",
	},
	{
		ID:         "4",
		Term:       "Ransomware",
		Definition: "A type of malware that threatens to publish the victim's data or perpetually block access to it unless a ransom is paid.",
		Category:   "Cyber Attacks",
	},
	{
		ID:         "5",
		Term:       "IT Act, 2000",
		Definition: "The Information Technology Act, 2000 is the primary law in India dealing with cybercrime and electronic commerce. It provides legal recognition for transactions carried out by means of electronic data interchange.",
		Category:   "Indian Cyber Law",
	},
	{
		ID:         "6",
		Term:       "Section 66C (IT Act)",
		Definition: "Punishment for identity theft. Whoever, fraudulently or dishonestly make use of the electronic signature, password or any other unique identification feature of any other person, shall be punished.",
		Category:   "Indian Cyber Law",
	},
	{
		ID:         "7",
		Term:       "VPN (Virtual Private Network)",
		Definition: "A technology that creates a safe and encrypted connection over a less secure network, such as the public internet. VPNs can be used to access region-restricted websites, shield your browsing activity from prying eyes on public Wi-Fi, and more.",
		Category:   "Security Concepts",
	},
	{
		ID:         "8",
		Term:       "Encryption",
		Definition: "The process of converting information or data into a code, especially to prevent unauthorized access.",
		Category:   "Security Concepts",
	},
	{
		ID:         "9",
		Term:       "Firewall",
		Definition: "A network security system that monitors and controls incoming and outgoing network traffic based on predetermined security rules. Firewalls typically establish a barrier between a trusted internal network and untrusted external network, such as the Internet.",
		Category:   "Security Concepts",
	},
	{
		ID:         "10",
		Term:       "Social Engineering",
		Definition: "The use of deception to manipulate individuals into divulging confidential or personal information that may be used for fraudulent purposes.",
		Category:   "Cyber Attacks",
	},
}

// GlossaryTerms returns every glossary entry in display order.
func GlossaryTerms() []GlossaryTerm {
	out := make([]GlossaryTerm, len(glossaryTerms))
	copy(out, glossaryTerms)
	return out
}

// GlossaryByCategory filters entries by category (case-insensitive).
func GlossaryByCategory(category string) []GlossaryTerm {
	if category == "" {
		return GlossaryTerms()
	}
	var out []GlossaryTerm
	for _, g := range glossaryTerms {
		if strings.EqualFold(g.Category, category) {
			out = append(out, g)
		}
	}
	return out
}

// SearchGlossary matches the query against term names and definitions.
func SearchGlossary(query string) []GlossaryTerm {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return GlossaryTerms()
	}
	var out []GlossaryTerm
	for _, g := range glossaryTerms {
		if strings.Contains(strings.ToLower(g.Term), q) || strings.Contains(strings.ToLower(g.Definition), q) {
			out = append(out, g)
		}
	}
	return out
}
