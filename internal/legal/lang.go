package legal

import (
	"strings"
	"unicode/utf8"
)

// DefaultLanguage is used when detection or validation has nothing better.
const DefaultLanguage = "en"

var supportedLanguages = map[string]struct{}{
	"en": {}, "hi": {}, "or": {}, "bn": {}, "ta": {}, "te": {},
	"mr": {}, "gu": {}, "kn": {}, "ml": {}, "pa": {},
}

// scriptBlocks maps the Unicode block of a leading rune to a language code.
// Devanagari is shared by Hindi and Marathi; Hindi is assumed.
var scriptBlocks = []struct {
	lo, hi rune
	code   string
}{
	{0x0900, 0x097F, "hi"},
	{0x0980, 0x09FF, "bn"},
	{0x0A00, 0x0A7F, "pa"},
	{0x0A80, 0x0AFF, "gu"},
	{0x0B00, 0x0B7F, "or"},
	{0x0B80, 0x0BFF, "ta"},
	{0x0C00, 0x0C7F, "te"},
	{0x0C80, 0x0CFF, "kn"},
	{0x0D00, 0x0D7F, "ml"},
}

// IsSupportedLanguage reports whether code is one of the accepted language codes.
func IsSupportedLanguage(code string) bool {
	_, ok := supportedLanguages[code]
	return ok
}

// DetectLanguage guesses a language code from the script of the first character.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultLanguage
	}
	r, _ := utf8.DecodeRuneInString(text)
	for _, b := range scriptBlocks {
		if r >= b.lo && r <= b.hi {
			return b.code
		}
	}
	return DefaultLanguage
}

// ResolveLanguage returns requested when it is supported, the detected
// language of question when requested is blank, and English otherwise.
func ResolveLanguage(requested, question string) string {
	code := strings.ToLower(strings.TrimSpace(requested))
	if code == "" {
		return DetectLanguage(question)
	}
	if IsSupportedLanguage(code) {
		return code
	}
	return DefaultLanguage
}

// SystemInstruction precedes every prompt sent to the remote model.
const SystemInstruction = "You are a helpful legal AI for Indian law. Answer clearly and practically. If unsure, advise consulting a qualified lawyer."

var promptTemplates = map[string]string{
	"en": `You are a legal AI assistant specializing in Indian law. Provide clear, practical legal advice based on Indian legal framework. Focus on:
1. Relevant Indian laws and regulations
2. Practical steps the person can take
3. Available legal remedies and procedures
4. Important deadlines and time limits
5. When to consult a lawyer
6. Available legal aid resources

Keep responses helpful, accurate, and actionable. If you're unsure about specific legal details, recommend consulting a qualified lawyer.

Question: {question}

Provide legal advice:`,

	"hi": `आप भारतीय कानून में विशेषज्ञता रखने वाले कानूनी AI सहायक हैं। भारतीय कानूनी ढांचे के आधार पर स्पष्ट, व्यावहारिक कानूनी सलाह दें। इन पर ध्यान दें:
1. प्रासंगिक भारतीय कानून और नियम
2. व्यक्ति द्वारा उठाए जा सकने वाले व्यावहारिक कदम
3. उपलब्ध कानूनी उपचार और प्रक्रियाएं
4. महत्वपूर्ण समय सीमाएं
5. वकील से कब सलाह लें
6. उपलब्ध कानूनी सहायता संसाधन

प्रतिक्रियाएं सहायक, सटीक और कार्रवाई योग्य रखें। यदि आप विशिष्ट कानूनी विवरणों के बारे में अनिश्चित हैं, तो योग्य वकील से सलाह लेने की सिफारिश करें।

प्रश्न: {question}

कानूनी सलाह दें:`,

	"or": `ଆପଣ ଭାରତୀୟ ଆଇନରେ ବିଶେଷଜ୍ଞତା ଥିବା ଆଇନଗତ AI ସହାୟକ ଅଟନ୍ତି। ଭାରତୀୟ ଆଇନଗତ ଢାଞ୍ଚା ଉପରେ ଆଧାର କରି ସ୍ପଷ୍ଟ, ବ୍ୟବହାରିକ ଆଇନଗତ ପରାମର୍ଶ ଦିଅନ୍ତୁ। ଏହା ଉପରେ ଧ୍ୟାନ ଦିଅନ୍ତୁ:
1. ପ୍ରାସଙ୍ଗିକ ଭାରତୀୟ ଆଇନ ଏବଂ ନିୟମ
2. ବ୍ୟକ୍ତି ଦ୍ୱାରା ନିଆଯାଇପାରିବା ବ୍ୟବହାରିକ ପଦକ୍ଷେପ
3. ଉପଲବ୍ଧ ଆଇନଗତ ପ୍ରତିକାର ଏବଂ ପ୍ରକ୍ରିୟା
4. ଗୁରୁତ୍ୱପୂର୍ଣ୍ଣ ସମୟ ସୀମା
5. କେବେ ବକୀଳଙ୍କ ସହ ପରାମର୍ଶ ନିଅନ୍ତୁ
6. ଉପଲବ୍ଧ ଆଇନଗତ ସହାୟତା ସମ୍ବଳ

ପ୍ରତିକ୍ରିୟା ସହାୟକ, ସଠିକ ଏବଂ କାର୍ଯ୍ୟକାରୀ ରଖନ୍ତୁ। ଯଦି ଆପଣ ବିଶେଷ ଆଇନଗତ ବିବରଣୀ ବିଷୟରେ ଅନିଶ୍ଚିତ ଅଟନ୍ତି, ତେବେ ଯୋଗ୍ୟ ବକୀଳଙ୍କ ସହ ପରାମର୍ଶ ନେବାକୁ ପରାମର୍ଶ ଦିଅନ୍ତୁ।

ପ୍ରଶ୍ନ: {question}

ଆଇନଗତ ପରାମର୍ଶ ଦିଅନ୍ତୁ:`,
}

// Prompt renders the model prompt for question in language, English when no
// template exists for that language.
func Prompt(question, language string) string {
	tmpl, ok := promptTemplates[language]
	if !ok {
		tmpl = promptTemplates["en"]
	}
	return strings.Replace(tmpl, "{question}", strings.TrimSpace(question), 1)
}
