// Package language handles response-language selection: detection from
// script, explicit change requests, and the translated canned replies.
package language

import (
	"strings"
	"unicode"
)

const Default = "en"

// SupportedLanguages maps language codes to their display names.
var SupportedLanguages = map[string]string{
	"en": "English",
	"hi": "हिंदी (Hindi)",
	"te": "తెలుగు (Telugu)",
	"ta": "தமிழ் (Tamil)",
}

func IsSupported(code string) bool {
	_, ok := SupportedLanguages[code]
	return ok
}

// Detect guesses the language of a message from its script. Latin text
// defaults to English.
func Detect(text string) string {
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			return "hi"
		case unicode.Is(unicode.Telugu, r):
			return "te"
		case unicode.Is(unicode.Tamil, r):
			return "ta"
		}
	}
	return Default
}

// DetectChangeRequest checks for an explicit language-change utterance.
// Returns the requested code, the sentinel "show_selector" when the user
// asked to change without naming a language, or "" when no change was
// requested.
func DetectChangeRequest(text, current string) string {
	lower := strings.ToLower(text)

	named := map[string]string{
		"english": "en",
		"hindi":   "hi",
		"telugu":  "te",
		"tamil":   "ta",
	}
	changeWords := []string{"switch to", "change language", "speak in", "talk in", "reply in", "answer in", "language to"}
	hasChangeWord := false
	for _, w := range changeWords {
		if strings.Contains(lower, w) {
			hasChangeWord = true
			break
		}
	}

	for name, code := range named {
		if strings.Contains(lower, name) && hasChangeWord {
			if code == current {
				return ""
			}
			return code
		}
	}
	if strings.Contains(lower, "change language") || strings.Contains(lower, "language options") {
		return "show_selector"
	}
	return ""
}

// ParseSelection resolves a reply to the language selector menu.
func ParseSelection(text string) string {
	r := strings.ToLower(strings.TrimSpace(text))
	switch {
	case r == "1" || strings.Contains(r, "english"):
		return "en"
	case r == "2" || strings.Contains(r, "hindi"):
		return "hi"
	case r == "3" || strings.Contains(r, "telugu"):
		return "te"
	case r == "4" || strings.Contains(r, "tamil"):
		return "ta"
	default:
		return ""
	}
}

var translations = map[string]map[string]string{
	"language_changed": {
		"en": "Language changed to English. How can I help you?",
		"hi": "भाषा हिंदी में बदल दी गई है। मैं आपकी कैसे मदद कर सकता हूँ?",
		"te": "భాష తెలుగుకు మార్చబడింది. నేను మీకు ఎలా సహాయం చేయగలను?",
		"ta": "மொழி தமிழுக்கு மாற்றப்பட்டது. நான் எப்படி உதவ முடியும்?",
	},
	"greeting": {
		"en": "Hello! 👋 Welcome to the **VNR Vignana Jyothi Institute of Engineering and Technology (VNRVJIET)** admissions assistant.\n\nI can help you with:\n• Admission process & eligibility\n• Branch-wise cutoff ranks\n• Required documents\n• Fee structure & scholarships\n• Campus & hostel information\n\nHow can I assist you today?",
		"hi": "नमस्ते! 👋 **VNRVJIET** प्रवेश सहायक में आपका स्वागत है।\n\nमैं आपकी मदद कर सकता हूँ:\n• प्रवेश प्रक्रिया और पात्रता\n• ब्रांच-वार कटऑफ रैंक\n• आवश्यक दस्तावेज़\n• शुल्क संरचना और छात्रवृत्ति\n\nमैं आपकी कैसे सहायता कर सकता हूँ?",
		"te": "నమస్కారం! 👋 **VNRVJIET** అడ్మిషన్స్ అసిస్టెంట్‌కు స్వాగతం.\n\nనేను సహాయం చేయగలను:\n• అడ్మిషన్ ప్రక్రియ & అర్హత\n• బ్రాంచ్ వారీ కటాఫ్ ర్యాంకులు\n• అవసరమైన పత్రాలు\n• ఫీజు వివరాలు & స్కాలర్‌షిప్‌లు\n\nనేను మీకు ఎలా సహాయం చేయగలను?",
		"ta": "வணக்கம்! 👋 **VNRVJIET** சேர்க்கை உதவியாளருக்கு வரவேற்கிறோம்.\n\nநான் உதவ முடியும்:\n• சேர்க்கை செயல்முறை & தகுதி\n• பிரிவு வாரியான கட்ஆஃப் தரவரிசைகள்\n• தேவையான ஆவணங்கள்\n\nநான் எப்படி உதவ முடியும்?",
	},
	"out_of_scope": {
		"en": "I can assist only with admissions information related to **VNR Vignana Jyothi Institute of Engineering and Technology** (VNRVJIET). For other colleges, please refer to their official websites or counselling authorities.",
		"hi": "मैं केवल **VNRVJIET** से संबंधित प्रवेश जानकारी में सहायता कर सकता हूँ। अन्य कॉलेजों के लिए, कृपया उनकी आधिकारिक वेबसाइटों से संपर्क करें।",
		"te": "నేను **VNRVJIET** కు సంబంధించిన అడ్మిషన్ సమాచారంతో మాత్రమే సహాయం చేయగలను. ఇతర కళాశాలల కోసం, దయచేసి వారి అధికారిక వెబ్‌సైట్‌లను సంప్రదించండి.",
		"ta": "நான் **VNRVJIET** தொடர்பான சேர்க்கை தகவல்களில் மட்டுமே உதவ முடியும். பிற கல்லூரிகளுக்கு, அவற்றின் அதிகாரப்பூர்வ இணையதளங்களைப் பார்க்கவும்.",
	},
}

// Translation looks up a canned reply by key, falling back to English.
func Translation(key, lang string) string {
	if entries, ok := translations[key]; ok {
		if s, ok := entries[lang]; ok {
			return s
		}
		return entries[Default]
	}
	return ""
}

func GreetingMessage(lang string) string   { return Translation("greeting", lang) }
func OutOfScopeMessage(lang string) string { return Translation("out_of_scope", lang) }

// SelectorMessage is the numbered language menu.
func SelectorMessage(lang string) string {
	return "Please choose your preferred language / कृपया अपनी भाषा चुनें / దయచేసి మీ భాషను ఎంచుకోండి:\n\n" +
		"1️⃣ English\n2️⃣ हिंदी (Hindi)\n3️⃣ తెలుగు (Telugu)\n4️⃣ தமிழ் (Tamil)\n\n" +
		"Reply with the number or language name."
}

// Instruction tells the answer generator which language to respond in.
func Instruction(lang string) string {
	switch lang {
	case "hi":
		return "Respond in Hindi (हिंदी). Keep technical terms like branch codes and ranks in English."
	case "te":
		return "Respond in Telugu (తెలుగు). Keep technical terms like branch codes and ranks in English."
	case "ta":
		return "Respond in Tamil (தமிழ்). Keep technical terms like branch codes and ranks in English."
	default:
		return "Respond in English."
	}
}
