// Package langdetect identifies the language of incoming messages using
// Unicode script ranges, with marker-word fallback for romanized text.
// Covers English plus nine Indian languages.
package langdetect

import "strings"

// scriptRanges map a language to its Unicode block. Checked in order;
// script detection is the reliable signal for Indic text.
var scriptRanges = []struct {
	lang   string
	lo, hi rune
}{
	{"hi", 0x0900, 0x097F}, // Devanagari (Hindi, Marathi)
	{"ta", 0x0B80, 0x0BFF}, // Tamil
	{"te", 0x0C00, 0x0C7F}, // Telugu
	{"kn", 0x0C80, 0x0CFF}, // Kannada
	{"ml", 0x0D00, 0x0D7F}, // Malayalam
	{"bn", 0x0980, 0x09FF}, // Bengali
	{"gu", 0x0A80, 0x0AFF}, // Gujarati
	{"pa", 0x0A00, 0x0A7F}, // Punjabi (Gurmukhi)
}

// marathiMarkers split Marathi from Hindi; both write Devanagari.
var marathiMarkers = []string{"तुम्ही", "आहे", "मराठी"}

// langMarkers back up script detection for short or mixed text.
var langMarkers = []struct {
	lang    string
	markers []string
}{
	{"hi", []string{
		"आप", "है", "हैं", "में", "को", "का", "की", "के", "और", "से",
		"क्या", "कृपया", "अभी", "तुरंत", "बैंक", "खाता", "पैसे", "रुपये",
		"ओटीपी", "लिंक", "क्लिक", "वेरिफाई", "ब्लॉक", "सस्पेंड",
	}},
	{"ta", []string{
		"நீங்கள்", "என்ன", "இது", "உங்கள்", "வங்கி", "கணக்கு", "பணம்",
		"உடனடியாக", "சரிபார்க்க", "கிளிக்", "லிங்க்", "ஓடிபி",
	}},
	{"te", []string{
		"మీరు", "మీ", "బ్యాంక్", "ఖాతా", "డబ్బు", "వెంటనే", "క్లిక్",
		"లింక్", "ఓటీపీ", "వెరిఫై",
	}},
	{"kn", []string{
		"ನೀವು", "ನಿಮ್ಮ", "ಬ್ಯಾಂಕ್", "ಖಾತೆ", "ಹಣ", "ತಕ್ಷಣ", "ಕ್ಲಿಕ್",
		"ಲಿಂಕ್", "ಒಟಿಪಿ", "ವೆರಿಫೈ",
	}},
	{"ml", []string{
		"നിങ്ങൾ", "നിങ്ങളുടെ", "ബാങ്ക്", "അക്കൌണ്ട്", "പണം", "ഉടനെ",
		"ക്ലിക്ക്", "ലിങ്ക്", "ഒടിപി", "വെരിഫൈ",
	}},
	{"bn", []string{
		"আপনি", "আপনার", "ব্যাংক", "অ্যাকাউন্ট", "টাকা", "এখনই",
		"ক্লিক", "লিংক", "ওটিপি", "ভেরিফাই",
	}},
	{"mr", []string{
		"तुम्ही", "तुमचा", "बँक", "खाते", "पैसे", "आता", "लगेच",
		"क्लिक", "लिंक", "ओटीपी", "व्हेरिफाय",
	}},
	{"gu", []string{
		"તમે", "તમારું", "બેંક", "ખાતું", "પૈસા", "હમણાં", "તરત",
		"ક્લિક", "લિંક", "ઓટીપી", "વેરિફાય",
	}},
	{"pa", []string{
		"ਤੁਸੀਂ", "ਤੁਹਾਡਾ", "ਬੈਂਕ", "ਖਾਤਾ", "ਪੈਸੇ", "ਹੁਣੇ", "ਤੁਰੰਤ",
		"ਕਲਿੱਕ", "ਲਿੰਕ", "ਓਟੀਪੀ", "ਵੈਰੀਫਾਈ",
	}},
}

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"ml": "Malayalam",
	"bn": "Bengali",
	"mr": "Marathi",
	"gu": "Gujarati",
	"pa": "Punjabi",
}

// Detect returns the language code for text, defaulting to "en".
func Detect(text string) string {
	if text == "" {
		return "en"
	}

	for _, sr := range scriptRanges {
		if !containsScript(text, sr.lo, sr.hi) {
			continue
		}
		if sr.lang == "hi" {
			for _, marker := range marathiMarkers {
				if strings.Contains(text, marker) {
					return "mr"
				}
			}
		}
		return sr.lang
	}

	lower := strings.ToLower(text)
	for _, lm := range langMarkers {
		matches := 0
		for _, m := range lm.markers {
			if strings.Contains(lower, m) || strings.Contains(text, m) {
				matches++
			}
		}
		if matches >= 2 {
			return lm.lang
		}
	}

	return "en"
}

// Name returns the full language name for a code.
func Name(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

func containsScript(text string, lo, hi rune) bool {
	for _, r := range text {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
