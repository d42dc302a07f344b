package legal

import "strings"

// clarificationPrompt is returned for blank questions.
const clarificationPrompt = "Could you please provide a question that addresses a specific legal issue."

var unableMessages = map[string]string{
	"en": "I apologize, but I'm currently unable to provide detailed legal advice. Please consult a qualified lawyer for your specific situation.",
	"hi": "मैं क्षमा चाहता हूं, लेकिन मैं वर्तमान में विस्तृत कानूनी सलाह प्रदान करने में असमर्थ हूं। कृपया अपनी विशिष्ट स्थिति के लिए योग्य वकील से सलाह लें।",
	"or": "ମୁଁ କ୍ଷମା ଚାହୁଁଛି, କିନ୍ତୁ ମୁଁ ବର୍ତ୍ତମାନ ବିସ୍ତୃତ ଆଇନଗତ ପରାମର୍ଶ ପ୍ରଦାନ କରିପାରୁ ନାହିଁ। ଦୟାକରି ଆପଣଙ୍କ ବିଶେଷ ପରିସ୍ଥିତି ପାଇଁ ଯୋଗ୍ୟ ବକୀଳଙ୍କ ସହ ପରାମର୍ଶ ନିଅନ୍ତୁ।",
}

// UnableMessage is the labeled "cannot answer" reply for language, English when
// no localized text exists.
func UnableMessage(language string) string {
	if msg, ok := unableMessages[language]; ok {
		return msg
	}
	return unableMessages["en"]
}

// guide is an offline answer selected by keyword.
type guide struct {
	topic    string
	keywords []string
	text     string
}

// guides are checked in order; the first keyword hit wins.
var guides = []guide{
	{
		topic:    "tenancy",
		keywords: []string{"tenant", "rent", "eviction", "landlord", "lease", "rental"},
		text: `**Tenant Rights in India - Comprehensive Guide**

**Key Rights You Have:**
1. **Right to Peaceful Enjoyment**: Your landlord cannot disturb your peaceful possession without proper notice
2. **Right to Essential Services**: Landlords must maintain water, electricity, and other essential services
3. **Right to Privacy**: Landlords cannot enter your premises without 24-hour notice
4. **Protection from Arbitrary Eviction**: Eviction requires proper legal notice and valid grounds
5. **Right to Fair Rent**: Rent increases must follow legal procedures and be reasonable

**Important Laws:**
- **Rent Control Acts** (varies by state)
- **Transfer of Property Act, 1882**
- **Model Tenancy Act, 2021** (if adopted by your state)

**What to Do if Your Rights are Violated:**
1. Document everything (photos, videos, written communications)
2. Send a legal notice to your landlord
3. File a complaint with the Rent Control Court
4. Contact local legal aid services

**Emergency Contacts:**
- Legal Aid: 1800-345-6789
- State Legal Services Authority

**⚠️ Important**: Laws vary by state. For specific cases, consult a local property lawyer.`,
	},
	{
		topic:    "criminal",
		keywords: []string{"fir", "police", "complaint", "crime", "criminal"},
		text: `**Filing FIR and Criminal Law in India**

**How to File an FIR:**
1. **Go to the nearest police station** where the incident occurred
2. **Provide complete details**: Date, time, location, description of incident
3. **Get acknowledgment**: Police must give you a copy of the FIR
4. **Follow up**: Keep track of investigation progress

**Your Rights During FIR Process:**
- Right to get a copy of FIR free of cost
- Right to know the status of investigation
- Right to legal representation
- Right to file complaint if police refuse to register FIR

**If Police Refuse to File FIR:**
1. Approach the Superintendent of Police (SP)
2. File a complaint with the Magistrate under Section 175(3) BNSS (formerly Section 156(3) CrPC)
3. Send a written complaint to the State Human Rights Commission

**Important Laws:**
- **Bharatiya Nagarik Suraksha Sanhita (BNSS), 2023**
- **Bharatiya Nyaya Sanhita (BNS), 2023**
- **Protection of Human Rights Act**

**Emergency Contacts:**
- Police: 112
- Women Helpline: 181
- Child Helpline: 1098

**⚠️ Important**: For serious crimes, contact a criminal lawyer immediately.`,
	},
	{
		topic:    "family",
		keywords: []string{"divorce", "marriage", "custody", "alimony", "maintenance"},
		text: `**Family Law in India - Marriage, Divorce & Custody**

**Divorce Process:**
1. **Grounds for Divorce**:
   - Adultery, cruelty, desertion
   - Conversion to another religion
   - Mental disorder, communicable disease
   - Mutual consent (simplest process)

2. **Court Procedures**:
   - File petition in Family Court
   - Mediation and counseling (mandatory)
   - Final hearing and decree

**Child Custody:**
- **Best Interest of Child** is the primary consideration
- Both parents can get joint custody
- Visitation rights for non-custodial parent
- Child's preference considered (if above 12 years)

**Maintenance/Alimony:**
- Spouse maintenance based on income and needs
- Child maintenance until 18 years (or longer if studying)
- Interim maintenance during proceedings

**Important Laws:**
- **Hindu Marriage Act, 1955**
- **Muslim Personal Law**
- **Special Marriage Act, 1954**
- **Guardians and Wards Act, 1890**

**⚠️ Important**: Family law varies by religion. Consult a family lawyer for specific advice.`,
	},
	{
		topic:    "contract",
		keywords: []string{"contract", "agreement", "breach", "damages", "employment"},
		text: `**Contract Law in India**

**Essential Elements of Valid Contract:**
1. **Offer and Acceptance**
2. **Consideration** (something of value)
3. **Competent Parties** (18+ years, sound mind)
4. **Free Consent** (not under coercion, fraud, misrepresentation)
5. **Lawful Object** (not illegal or immoral)

**Types of Contracts:**
- **Employment Contracts**: Governed by labor laws
- **Service Agreements**: Professional services
- **Sales Contracts**: Goods and services
- **Lease Agreements**: Property rental

**Breach of Contract Remedies:**
1. **Specific Performance**: Court orders performance
2. **Damages**: Monetary compensation
3. **Injunction**: Court order to stop certain actions
4. **Rescission**: Cancellation of contract

**Important Laws:**
- **Indian Contract Act, 1872**
- **Sale of Goods Act, 1930**
- **Industrial Disputes Act, 1947**

**What to Do if Contract is Breached:**
1. Send legal notice
2. Try mediation/negotiation
3. File suit in appropriate court
4. Seek interim relief if urgent

**⚠️ Important**: Contract law is complex. Consult a contract lawyer for specific cases.`,
	},
	{
		topic:    "consumer",
		keywords: []string{"consumer", "refund", "defective", "warranty"},
		text: `**Consumer Rights in India**

**Your Rights as a Consumer:**
1. **Right to Safety**: Protection from hazardous goods/services
2. **Right to Information**: Complete information about products
3. **Right to Choose**: Freedom to select from various options
4. **Right to be Heard**: Voice complaints and concerns
5. **Right to Redressal**: Seek compensation for unfair practices

**How to File Consumer Complaint:**
1. **District Consumer Commission** (up to ₹50 lakh)
2. **State Commission** (₹50 lakh to ₹2 crore)
3. **National Commission** (above ₹2 crore)

**Process:**
- File complaint with supporting documents (e-Daakhil portal accepts online filing)
- Pay nominal fee
- Hearing and evidence presentation
- Order and execution

**Important Laws:**
- **Consumer Protection Act, 2019**
- **Competition Act, 2002**

**⚠️ Important**: Keep all receipts and documents. File complaint within 2 years of cause of action.`,
	},
}

const generalGuide = `**General Legal Guidance for India**

**Your Fundamental Rights:**
1. **Right to Equality** (Article 14-18)
2. **Right to Freedom** (Article 19-22)
3. **Right against Exploitation** (Article 23-24)
4. **Right to Freedom of Religion** (Article 25-28)
5. **Cultural and Educational Rights** (Article 29-30)
6. **Right to Constitutional Remedies** (Article 32)

**Legal Aid Available:**
- **Free Legal Aid**: For those who cannot afford lawyers
- **Legal Services Authorities**: At district, state, and national levels
- **Lok Adalats**: For quick dispute resolution

**Important Legal Resources:**
- **Supreme Court of India**
- **High Courts** (state level)
- **District Courts** (local level)
- **Consumer Forums**
- **Family Courts**

**Emergency Legal Contacts:**
- Legal Aid: 1800-345-6789
- Women Helpline: 181
- Child Helpline: 1098
- Senior Citizen Helpline: 14567

**⚠️ Important Disclaimer**: 
This is general legal information. Laws are complex and vary by case. Always consult a qualified lawyer for specific legal advice. For urgent matters, contact legal aid services immediately.`

// FallbackTopic returns the guide topic chosen for question, "general" when no
// keyword matches.
func FallbackTopic(question string) string {
	q := strings.ToLower(question)
	for _, g := range guides {
		if containsAny(q, g.keywords) {
			return g.topic
		}
	}
	return "general"
}

// FallbackAnswer is the offline answer for question. It never fails: blank
// questions get a clarification prompt and unmatched ones the general guide.
// Guides are written in English; translation is not performed.
func FallbackAnswer(question string) string {
	if strings.TrimSpace(question) == "" {
		return clarificationPrompt
	}
	q := strings.ToLower(question)
	for _, g := range guides {
		if containsAny(q, g.keywords) {
			return g.text
		}
	}
	return generalGuide
}
