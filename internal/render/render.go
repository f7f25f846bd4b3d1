// Package render formats job posts for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/justsurfingit/job-posts/internal/cache"
	"github.com/justsurfingit/job-posts/internal/models"
)

const displayDate = "Jan 02, 2006"

// Deadline formats a YYYY-MM-DD deadline for display. Unparseable values are returned as is.
func Deadline(s string) string {
	t, err := time.Parse(models.DeadlineLayout, s)
	if err != nil {
		return s
	}
	return t.Format(displayDate)
}

// PlainText converts the HTML description of a post into readable text.
func PlainText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tidy(b.String())
		case html.TextToken:
			writeText(&b, string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				b.WriteByte('\n')
			case "li":
				b.WriteString("\n- ")
			case "p", "div", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "div", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
				b.WriteByte('\n')
			}
		}
	}
}

// writeText appends text with inner whitespace collapsed. Whitespace at either
// end becomes a single space so words in adjacent tokens stay apart only when
// the source separated them.
func writeText(b *strings.Builder, text string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		if text != "" {
			space(b)
		}
		return
	}
	if r, _ := utf8.DecodeRuneInString(text); unicode.IsSpace(r) {
		space(b)
	}
	b.WriteString(strings.Join(words, " "))
	if r, _ := utf8.DecodeLastRuneInString(text); unicode.IsSpace(r) {
		space(b)
	}
}

func space(b *strings.Builder) {
	if s := b.String(); s != "" && s[len(s)-1] != ' ' && s[len(s)-1] != '\n' {
		b.WriteByte(' ')
	}
}

// tidy trims every line and squeezes runs of blank lines.
func tidy(s string) string {
	var out []string
	blank := true
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Openings writes the public "Current Job Openings" view of s.
func Openings(w io.Writer, s cache.State) error {
	switch {
	case s.Loading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case s.Error != "":
		_, err := fmt.Fprintf(w, "Error\n%s\n", s.Error)
		return err
	case len(s.Posts) == 0:
		_, err := fmt.Fprintln(w, "No job posts available yet")
		return err
	}

	if _, err := fmt.Fprintln(w, "Current Job Openings"); err != nil {
		return err
	}
	for _, p := range s.Posts {
		_, err := fmt.Fprintf(w, "\n%s\n[%s] %s | %s\n\n%s\n\nDeadline: %s   Posted: %s\n",
			p.Title, p.EmploymentType, p.Department, p.Location,
			PlainText(p.Description),
			Deadline(p.Deadline), p.CreatedAt.Local().Format(displayDate))
		if err != nil {
			return err
		}
	}
	return nil
}

// Table writes the management view: one row per post and a total.
func Table(w io.Writer, posts []models.JobPost) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJob Title\tDepartment\tLocation\tType\tDeadline")
	for _, p := range posts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Department, p.Location, p.EmploymentType, Deadline(p.Deadline))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total %d job posts\n", len(posts))
	return err
}
