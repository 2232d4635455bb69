package access

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/m04kA/SMC-BlinkBooking/internal/domain"
	"github.com/m04kA/SMC-BlinkBooking/internal/integrations/resend"
)

const (
	emailDateFormat = "Monday, January 2, 2006"
	emailTimeFormat = "3:04 PM"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// confirmationEmail письмо с подтверждением и ссылкой на приватную страницу
func confirmationEmail(b *domain.Booking, s *domain.Slot, joinURL string, loc *time.Location) (resend.Email, error) {
	creator := ""
	if s.Creator != nil {
		creator = s.Creator.Username
	}

	start := s.StartTime.In(loc)
	end := s.EndTime.In(loc)
	date := start.Format(emailDateFormat)

	var md strings.Builder
	fmt.Fprintf(&md, "# Booking confirmed\n\n")
	fmt.Fprintf(&md, "You're booked with **%s**. Enjoy your call.\n\n", escapeMarkdown(creator))
	fmt.Fprintf(&md, "| | |\n|---|---|\n")
	fmt.Fprintf(&md, "| Date | %s |\n", date)
	fmt.Fprintf(&md, "| Time | %s – %s |\n", start.Format(emailTimeFormat), end.Format(emailTimeFormat))
	fmt.Fprintf(&md, "| Amount | %s %s |\n\n", b.AmountSol.StringFixed(domain.PriceLabelDecimals), domain.AssetSymbol)
	fmt.Fprintf(&md, "[View booking & meeting link](%s)\n\n", joinURL)
	if s.HasMeetLink() {
		fmt.Fprintf(&md, "Or join the meeting directly: <%s>\n\n", strings.TrimSpace(*s.MeetLink))
	}
	fmt.Fprintf(&md, "This link is only for you. Do not share it.\n")

	var html bytes.Buffer
	if err := markdown.Convert([]byte(md.String()), &html); err != nil {
		return resend.Email{}, fmt.Errorf("render email: %w", err)
	}

	return resend.Email{
		To:      strings.TrimSpace(*b.Email),
		Subject: fmt.Sprintf("Booking confirmed with %s – %s", creator, date),
		HTML:    html.String(),
	}, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`, `]`, `\]`, `<`, `\<`, `|`, `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
