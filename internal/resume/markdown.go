package resume

import (
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/dateutil"
	"github.com/alnah/go-folio/portfolio"
)

// markdownEscaper backslash-escapes characters that would turn plain text
// fields (names, titles) into Markdown markup.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"|", `\|`,
	"<", `\<`,
)

func escape(s string) string {
	return markdownEscaper.Replace(strings.TrimSpace(s))
}

// join drops empty parts and joins the rest with sep.
func join(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func link(label, href string) string {
	if strings.TrimSpace(href) == "" {
		return ""
	}
	return "[" + escape(label) + "](<" + strings.TrimSpace(href) + ">)"
}

// mdWriter accumulates Markdown blocks separated by blank lines.
type mdWriter struct {
	b strings.Builder
}

func (w *mdWriter) block(lines ...string) {
	text := join("\n", lines...)
	if text == "" {
		return
	}
	if w.b.Len() > 0 {
		w.b.WriteString("\n\n")
	}
	w.b.WriteString(text)
}

func (w *mdWriter) bullets(items []string) {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			lines = append(lines, "- "+it)
		}
	}
	w.block(lines...)
}

func (w *mdWriter) String() string {
	return w.b.String() + "\n"
}

// BuildMarkdown renders p as a resume in GitHub-flavored Markdown.
// Description fields are Markdown already and are only normalized; plain
// text fields are escaped. now drives the experience label.
func BuildMarkdown(p *portfolio.Portfolio, now time.Time) string {
	var w mdWriter
	a := p.About

	w.block("# " + escape(a.Name))
	w.block(join(" · ", escape(a.Role), escape(a.Location)))
	w.block(join(" · ",
		contactEmail(p),
		escape(p.Contact.Phone),
		link("GitHub", p.SocialLinks.Github),
		link("LinkedIn", p.SocialLinks.LinkedIn),
		link("Twitter", p.SocialLinks.Twitter),
	))

	w.block("## About")
	w.block(a.Tagline)
	w.block(prepareDescription(a.Description))
	w.bullets(a.Highlights)
	w.block(join(" · ",
		labeled("Experience", p.About.ExperienceLabel(now)),
		labeled("Availability", a.Availability),
		labeled("Looking for", a.LookingFor),
		labeled("Work type", strings.Join(a.PreferredWorkType, ", ")),
	))

	writeSkills(&w, p.Skills)
	writeExperience(&w, p.Experience)
	writeProjects(&w, p.Projects)
	writeEducation(&w, p.Education)

	if len(a.LanguagesSpoken) > 0 {
		w.block("## Languages")
		w.block(escape(strings.Join(a.LanguagesSpoken, ", ")))
	}
	return w.String()
}

func contactEmail(p *portfolio.Portfolio) string {
	email := p.Contact.Email
	if email == "" {
		email = p.SocialLinks.Email
	}
	if email == "" {
		return ""
	}
	return link(email, "mailto:"+email)
}

func labeled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return "**" + label + ":** " + escape(value)
}

func writeSkills(w *mdWriter, s portfolio.Skills) {
	cats := s.Categories()
	if len(cats) == 0 {
		return
	}
	w.block("## Skills")
	rows := []string{"| Area | Skills |", "|---|---|"}
	for _, c := range cats {
		names := make([]string, 0, len(c.Items))
		for _, sk := range c.Items {
			name := escape(sk.Name)
			if sk.Version != "" {
				name += " " + escape(sk.Version)
			}
			if sk.Level != "" {
				name += " (" + string(sk.Level) + ")"
			}
			names = append(names, name)
		}
		rows = append(rows, "| "+c.Name+" | "+strings.Join(names, ", ")+" |")
	}
	w.block(rows...)
}

func writeExperience(w *mdWriter, items []portfolio.Experience) {
	if len(items) == 0 {
		return
	}
	w.block("## Experience")
	for _, e := range items {
		w.block("### " + join(", ", escape(e.Position), escape(e.Company)))
		end := e.EndDate
		if end == "" && e.StartDate != "" {
			end = "Present"
		}
		if span := join(" - ", escape(e.StartDate), escape(end)); span != "" {
			w.block("*" + span + "*")
		}
		w.block(prepareDescription(e.Description))
	}
}

func writeProjects(w *mdWriter, items []portfolio.Project) {
	if len(items) == 0 {
		return
	}
	w.block("## Projects")
	for _, pr := range items {
		w.block("### " + escape(pr.Title))
		if meta := join(" · ", escape(pr.Role), escape(pr.Duration), escape(pr.TeamSize), escape(pr.Status)); meta != "" {
			w.block("*" + meta + "*")
		}
		w.block(prepareDescription(pr.Description))
		w.bullets(pr.KeyFeatures)
		w.block(join("  \n",
			labeled("Stack", strings.Join(pr.TechStack, ", ")),
			labeled("Impact", pr.Impact),
		))
		w.block(join(" · ", link("Source", pr.GithubLink), link("Live demo", pr.LiveDemo)))
	}
}

func writeEducation(w *mdWriter, items []portfolio.Education) {
	if len(items) == 0 {
		return
	}
	w.block("## Education")
	for _, e := range items {
		w.block("### " + join(", ", escape(e.Degree), escape(e.Institution)))
		if span := join(" - ", escape(e.StartYear), escape(e.EndYear)); span != "" {
			w.block("*" + span + "*")
		}
	}
}

// lastUpdated formats the document's update stamp for the page footer.
func lastUpdated(p *portfolio.Portfolio, format string) string {
	s, err := dateutil.Format(p.UpdatedAt, format)
	if err != nil {
		return ""
	}
	return s
}
