package portfolio

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input caps differ per provider on purpose: each was tuned against
// that provider's context window and latency.
const (
	geminiMaxInputChars      = 500
	groqMaxInputChars        = 2000
	huggingFaceMaxInputChars = 1500
)

// clip truncates to at most limit bytes without splitting a rune, so
// multi-byte input never yields invalid UTF-8 in a prompt.
func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func clipWithEllipsis(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return clip(s, limit) + "..."
}

func buildGeminiPrompt(userInfo string) string {
	sb := &strings.Builder{}
	sb.WriteString("You are an expert web developer and designer specializing in modern, aesthetic portfolio websites. Create a stunning, professional single-page portfolio from the following information.\n\n")
	fmt.Fprintf(sb, "User Information:\n%s\n\n", clipWithEllipsis(userInfo, geminiMaxInputChars))
	sb.WriteString(`CRITICAL REQUIREMENTS:
1. Create a complete HTML document with <!DOCTYPE html>, <html>, <head>, and <body> tags
2. DO NOT include <link> or <script> tags for Tailwind CSS, Font Awesome, AOS, or Google Fonts (already loaded in parent app)
3. Use ONLY inline styles and inline JavaScript - embed all custom CSS in <style> tags in <head>

AVAILABLE LIBRARIES (Pre-loaded, just use them):
- Tailwind CSS utility classes
- Font Awesome 6.5.1 icons
- AOS scroll animations (data-aos attributes)
- Google Fonts: Inter (body), Poppins (headings), Playfair Display (accents)

DESIGN REQUIREMENTS:
- Sections: Hero, About, Skills, Experience, Projects, Education, Contact
- Vibrant gradients and glassmorphism cards, dark-mode friendly colors
- Generous spacing, rounded corners, smooth hover transitions
- Mobile-first responsive layout with sm:/md:/lg: breakpoints
- Staggered data-aos animations on major sections

Return ONLY the complete HTML code. Make it visually stunning, modern, and professional.`)
	return sb.String()
}

const groqSystemPrompt = "You are a professional portfolio website generator. Create complete HTML portfolios with embedded CSS."

func buildGroqPrompt(userInfo string) string {
	sb := &strings.Builder{}
	sb.WriteString("Based on the following user information, create a beautiful, modern, and responsive portfolio HTML page.\n\n")
	fmt.Fprintf(sb, "User Information:\n%s\n\n", clip(userInfo, groqMaxInputChars))
	sb.WriteString(`Requirements:
1. Create a complete, single-page HTML portfolio with embedded CSS
2. Include sections: Hero/Header, About, Skills, Experience, Education, Projects, Contact
3. Use modern, clean design with a professional color scheme (purple/indigo gradient theme)
4. Make it fully responsive (mobile-friendly)
5. Include smooth animations and transitions
6. Use semantic HTML5 elements
7. Add Font Awesome icons (via CDN) for visual appeal
8. Use Google Fonts for typography

Return ONLY the complete HTML code, no explanations or markdown code blocks. The HTML should be ready to render directly.`)
	return sb.String()
}

func buildHuggingFacePrompt(userInfo string) string {
	return fmt.Sprintf(
		"Create a complete HTML portfolio page with embedded CSS based on this information: %s. Return only HTML code, no explanations.",
		clip(userInfo, huggingFaceMaxInputChars),
	)
}
