package tools

import (
	"strings"
	"testing"
)

func TestHTMLToText(t *testing.T) {
	body := "<h2>Quotation</h2><p>Dear Ms. Shikongo,</p>" +
		"<table><tr><td>Double room</td><td>3</td></tr><tr><td>Shuttle</td><td>1</td></tr></table>" +
		"<p>Kind regards,<br>Your hosts</p>"

	text := htmlToText(body)

	for _, want := range []string{"Quotation", "Dear Ms. Shikongo,", "Double room", "Shuttle"} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q is missing %q", text, want)
		}
	}
	if strings.Contains(text, "<") {
		t.Errorf("text %q still contains markup", text)
	}
	if !strings.Contains(text, "\n") {
		t.Error("block elements should become line breaks")
	}
	if !strings.Contains(text, "Kind regards,\nYour hosts") {
		t.Errorf("text %q should break at <br>", text)
	}
}

func TestHTMLToText_EntitiesAndWhitespace(t *testing.T) {
	text := htmlToText("<p>Bed &amp; breakfast</p>\n\n<p>   </p><p>See you soon</p>")

	if !strings.Contains(text, "Bed & breakfast") {
		t.Errorf("text %q should decode entities", text)
	}
	if strings.Contains(text, "\n\n") {
		t.Errorf("text %q should collapse blank lines", text)
	}
}
