// Package legal holds the answer policy, the offline fallback guides, language
// helpers and the legal form templates.
package legal

import "strings"

// Fixed replies.
const (
	identityEN = "I am a legal chat bot"
	identityHI = "मैं कानूनी जानकारी में विशेषज्ञता वाला एक एआई सहायक हूं।"

	offTopicEN = "I primarily provide information on cyber law. Please ask a cyber law-related question."
	offTopicHI = "मैं मुख्यतः साइबर कानून से संबंधित जानकारी प्रदान करता/करती हूँ। कृपया साइबर कानून पर प्रश्न पूछें।"

	noLegalSignalEN = "My function is to provide information on legal topics. Please frame your question accordingly."
	noLegalSignalHI = "मैं केवल कानूनी जानकारी प्रदान कर सकता/सकती हूँ। कृपया एक कानूनी प्रश्न पूछें।"
)

const attributionEN = `

**Source and Disclaimer:**
- This information is based on Indian legal framework: Bharatiya Nyaya Sanhita (BNS), 2023, Bharatiya Nagarik Suraksha Sanhita (BNSS), 2023, and Bharatiya Sakshya Adhiniyam (BSA), 2023
- This is general information only. For specific cases, consult a qualified lawyer
- Laws are complex and may vary by case and jurisdiction`

const attributionHI = `

**स्रोत और अस्वीकरण:**
- यह जानकारी भारतीय कानूनी ढांचे के आधार पर है: भारतीय न्याय संहिता (BNS), 2023, भारतीय नागरिक सुरक्षा संहिता (BNSS), 2023, और भारतीय साक्ष्य अधिनियम (BSA), 2023
- यह सामान्य जानकारी है और विशिष्ट मामलों के लिए योग्य वकील से सलाह लें
- कानून जटिल हैं और मामले के अनुसार भिन्न हो सकते हैं`

const cyberGuidanceEN = "Practical steps to prevent cybercrime:\n" +
	"- Use strong, unique passwords and a reputable password manager\n" +
	"- Enable 2FA/MFA everywhere (authenticator app or security key)\n" +
	"- Keep OS, browser, apps, router/IoT firmware up to date\n" +
	"- Be phishing-smart: avoid unsolicited links/QRs/attachments; type important URLs yourself\n" +
	"- Prefer mobile hotspot or trusted VPN over public Wi‑Fi for sensitive actions\n" +
	"- Turn on bank/UPI/card transaction alerts; never share OTP/PIN\n" +
	"- Tighten social media privacy; limit personal data exposure\n" +
	"- Maintain 3‑2‑1 backups and test restores\n" +
	"If victimized: disconnect, run a full scan, change passwords, contact your bank, and report at cybercrime.gov.in (India) or your national cybercrime portal."

const cyberGuidanceHI = "साइबर अपराध से बचाव के लिए व्यावहारिक कदम:\n" +
	"- मजबूत और अलग-अलग पासवर्ड रखें; पासवर्ड मैनेजर का उपयोग करें\n" +
	"- हर जगह 2‑FA/MFA सक्षम करें (ऑथेंटिकेटर ऐप/सिक्योरिटी की)\n" +
	"- सिस्टम, ब्राउज़र, ऐप्स और राउटर फर्मवेयर को अपडेट रखें\n" +
	"- संदिग्ध लिंक/QR/अटैचमेंट न खोलें; यूआरएल खुद टाइप करें\n" +
	"- सार्वजनिक Wi‑Fi पर संवेदनशील काम न करें; जरूरत हो तो हॉटस्पॉट/VPN इस्तेमाल करें\n" +
	"- बैंक/UPI अलर्ट चालू रखें; अनजान कॉल/SMS/OTP न साझा करें\n" +
	"- सोशल मीडिया गोपनीयता सेटिंग्स सख्त रखें; अति-साझेदारी से बचें\n" +
	"- 3‑2‑1 बैकअप रखें और रिस्टोर टेस्ट करें\n" +
	"यदि धोखा हो जाए: नेटवर्क से डिस्कनेक्ट करें, स्कैन चलाएँ, पासवर्ड बदलें, बैंक को तुरंत सूचित करें, और 1930/\n" +
	"cybercrime.gov.in पर रिपोर्ट करें।"

// Keyword lists are matched as lower-case substrings.
var (
	identityTriggers = []string{
		"who are you", "what are you", "who is this",
		"identify yourself", "what is your name", "are you a bot",
	}

	legalQuestionKeywords = []string{
		"law", "legal", "rights", "police", "court", "complaint", "fir", "appeal", "rti", "eviction",
		"divorce", "custody", "contract", "agreement", "charge", "arrest", "evidence", "bail", "sue", "lawsuit",
		"bns", "bharatiya nyaya sanhita", "bnss", "bharatiya nagarik suraksha sanhita",
		"bsa", "bharatiya sakshya adhiniyam", "ipc", "crpc", "evidence act",
		"constitution", "article", "fundamental rights", "legal aid", "advocate", "lawyer",
		"judgment", "verdict", "legal precedent", "case law", "statute", "act", "section",
		"cyber", "cyber crime", "cybercrime", "information technology act", "it act", "data privacy",
		"online fraud", "phishing", "upi fraud", "bank fraud", "sextortion", "harassment", "stalking",
		"electronic evidence", "social media", "identity theft", "ransomware", "malware", "hacking",
	}

	cyberKeywords = []string{
		"cyber", "cyber crime", "cybercrime", "online fraud", "phishing", "scam", "otp", "upi", "bank fraud",
		"data privacy", "privacy", "social media", "identity theft", "sextortion", "harassment", "stalking",
		"ransomware", "malware", "hacking", "password", "2fa", "mfa", "vpn", "it act", "information technology act",
	}

	foreignIdentityPatterns = []string{
		"i am chatgpt", "i am gpt", "i am a language model", "i am an ai", "i am ai", "i am a chatbot",
		"this is chatgpt", "chatgpt", "openai", "this is gemini", "this is gemma", "i am an llm",
	}

	legalAnswerKeywords = []string{
		"law", "legal", "cyber", "cybercrime", "it act", "information technology act", "data privacy",
		"online fraud", "phishing", "social media", "electronic evidence", "court", "police", "rights",
		"complaint", "fir", "appeal", "contract", "bns", "bnss", "bsa",
	}

	attributionIndicators = []string{
		"according to", "as per", "under", "section", "article", "act of", "law of",
		"bns", "bnss", "bsa", "ipc", "crpc", "constitution", "supreme court",
		"high court", "judgment", "case law", "legal precedent", "statute",
	}
)

// IsIdentityQuestion reports whether text asks who the assistant is.
func IsIdentityQuestion(text string) bool {
	return containsAny(normalize(text), identityTriggers)
}

// IsLegalQuestion is a keyword heuristic for legal intent. Short identity
// questions are never legal.
func IsLegalQuestion(text string) bool {
	t := normalize(text)
	if len(strings.Fields(t)) <= 5 && IsIdentityQuestion(t) {
		return false
	}
	return containsAny(t, legalQuestionKeywords)
}

// IsCyberQuestion reports whether text concerns online safety.
func IsCyberQuestion(text string) bool {
	t := normalize(text)
	if t == "" {
		return false
	}
	return containsAny(t, cyberKeywords)
}

// ApplyPolicy shapes a raw answer before it reaches the user. The rules run in
// order and the first match wins:
//
//  1. identity questions get the fixed identity line
//  2. "what is ..." and "explain" questions keep the answer, with attribution
//  3. non-legal questions get cyber guidance or a refusal
//  4. answers claiming another assistant identity are replaced
//  5. answers without any legal signal are replaced
//  6. everything else gets attribution appended when missing
func ApplyPolicy(answer, question, language string) string {
	hindi := strings.HasPrefix(language, "hi")

	if IsIdentityQuestion(question) {
		return pick(hindi, identityHI, identityEN)
	}

	ans := strings.TrimSpace(answer)
	lower := strings.ToLower(ans)
	q := strings.ToLower(question)

	if strings.HasPrefix(q, "what is") || strings.Contains(q, "explain") {
		return withAttribution(ans, hindi)
	}

	if !IsLegalQuestion(question) {
		if IsCyberQuestion(question) {
			return pick(hindi, cyberGuidanceHI, cyberGuidanceEN) + pick(hindi, attributionHI, attributionEN)
		}
		return pick(hindi, offTopicHI, offTopicEN)
	}

	if containsAny(lower, foreignIdentityPatterns) {
		return pick(hindi, identityHI, identityEN)
	}

	if !containsAny(lower, legalAnswerKeywords) {
		if IsCyberQuestion(question) {
			return pick(hindi, cyberGuidanceHI, cyberGuidanceEN) + pick(hindi, attributionHI, attributionEN)
		}
		return pick(hindi, noLegalSignalHI, noLegalSignalEN)
	}

	return withAttribution(ans, hindi)
}

// HasAttribution reports whether text already cites a legal source.
func HasAttribution(text string) bool {
	return containsAny(strings.ToLower(text), attributionIndicators)
}

func withAttribution(text string, hindi bool) string {
	if HasAttribution(text) {
		return text
	}
	return text + pick(hindi, attributionHI, attributionEN)
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
