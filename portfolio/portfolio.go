// Package portfolio holds the single portfolio document served by the API:
// profile, skills, projects, experience, education, links and contact
// details, plus the stores that persist it.
package portfolio

import (
	"strings"
	"time"

	"github.com/alnah/go-folio/internal/dateutil"
)

// Portfolio is the whole document. JSON and YAML share field names so a
// document exported from the API can be saved as a store file unchanged.
type Portfolio struct {
	About       About        `json:"about" yaml:"about"`
	Skills      Skills       `json:"skills" yaml:"skills"`
	Projects    []Project    `json:"projects" yaml:"projects"`
	Experience  []Experience `json:"experience" yaml:"experience"`
	Education   []Education  `json:"education" yaml:"education"`
	SocialLinks SocialLinks  `json:"socialLinks" yaml:"socialLinks"`
	Contact     Contact      `json:"contact" yaml:"contact"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" yaml:"updatedAt"`
}

// About is the profile section. Description is Markdown.
type About struct {
	Name                string   `json:"name" yaml:"name"`
	Role                string   `json:"role" yaml:"role"`
	Description         string   `json:"description" yaml:"description"`
	ProfileImage        string   `json:"profileImage,omitempty" yaml:"profileImage,omitempty"`
	ResumeLink          string   `json:"resumeLink,omitempty" yaml:"resumeLink,omitempty"`
	Location            string   `json:"location,omitempty" yaml:"location,omitempty"`
	LookingFor          string   `json:"lookingFor,omitempty" yaml:"lookingFor,omitempty"`
	Availability        string   `json:"availability,omitempty" yaml:"availability,omitempty"`
	Highlights          []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	Tagline             string   `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	ExperienceStartDate string   `json:"experienceStartDate,omitempty" yaml:"experienceStartDate,omitempty"`
	LanguagesSpoken     []string `json:"languagesSpoken,omitempty" yaml:"languagesSpoken,omitempty"`
	PreferredWorkType   []string `json:"preferredWorkType,omitempty" yaml:"preferredWorkType,omitempty"`
}

// ExperienceLabel renders time since ExperienceStartDate ("8 months",
// "3+ years", "2.5+ years"). Empty when no valid start date is set.
func (a About) ExperienceLabel(now time.Time) string {
	if strings.TrimSpace(a.ExperienceStartDate) == "" {
		return ""
	}
	return dateutil.Experience(a.ExperienceStartDate, now)
}

// Skills groups skill items by category.
type Skills struct {
	Frontend []Skill `json:"frontend" yaml:"frontend"`
	Backend  []Skill `json:"backend" yaml:"backend"`
	DevOps   []Skill `json:"devops" yaml:"devops"`
	Other    []Skill `json:"other" yaml:"other"`
}

// Categories returns the non-empty categories in display order.
func (s Skills) Categories() []SkillCategory {
	all := []SkillCategory{
		{Name: "Frontend", Items: s.Frontend},
		{Name: "Backend", Items: s.Backend},
		{Name: "DevOps", Items: s.DevOps},
		{Name: "Other", Items: s.Other},
	}
	out := all[:0]
	for _, c := range all {
		if len(c.Items) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// SkillCategory is a named group of skills.
type SkillCategory struct {
	Name  string
	Items []Skill
}

// Skill is one technology with a proficiency level.
type Skill struct {
	Name    string `json:"name" yaml:"name"`
	Level   Level  `json:"level" yaml:"level"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Project is one showcased project. S3Folder and ImageCount locate its
// screenshots for the gallery.
type Project struct {
	Title               string   `json:"title" yaml:"title"`
	Description         string   `json:"description,omitempty" yaml:"description,omitempty"`
	DetailedDescription string   `json:"detailedDescription,omitempty" yaml:"detailedDescription,omitempty"`
	Role                string   `json:"role,omitempty" yaml:"role,omitempty"`
	Duration            string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	TeamSize            string   `json:"teamSize,omitempty" yaml:"teamSize,omitempty"`
	KeyFeatures         []string `json:"keyFeatures,omitempty" yaml:"keyFeatures,omitempty"`
	Challenges          string   `json:"challenges,omitempty" yaml:"challenges,omitempty"`
	Impact              string   `json:"impact,omitempty" yaml:"impact,omitempty"`
	Category            string   `json:"category,omitempty" yaml:"category,omitempty"`
	Status              string   `json:"status,omitempty" yaml:"status,omitempty"`
	VideoDemo           string   `json:"videoDemo,omitempty" yaml:"videoDemo,omitempty"`
	TechStack           []string `json:"techStack,omitempty" yaml:"techStack,omitempty"`
	GithubLink          string   `json:"githubLink,omitempty" yaml:"githubLink,omitempty"`
	LiveDemo            string   `json:"liveDemo,omitempty" yaml:"liveDemo,omitempty"`
	Image               string   `json:"image,omitempty" yaml:"image,omitempty"`
	S3Folder            string   `json:"s3Folder,omitempty" yaml:"s3Folder,omitempty"`
	ImageCount          int      `json:"imageCount,omitempty" yaml:"imageCount,omitempty"`
}

// Experience is one position held.
type Experience struct {
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	StartDate   string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Education is one degree.
type Education struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	StartYear   string `json:"startYear,omitempty" yaml:"startYear,omitempty"`
	EndYear     string `json:"endYear,omitempty" yaml:"endYear,omitempty"`
}

// SocialLinks are profile URLs. ResumeLink is the canonical resume URL.
type SocialLinks struct {
	Github     string `json:"github,omitempty" yaml:"github,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Twitter    string `json:"twitter,omitempty" yaml:"twitter,omitempty"`
	Instagram  string `json:"instagram,omitempty" yaml:"instagram,omitempty"`
	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	ResumeLink string `json:"resumeLink,omitempty" yaml:"resumeLink,omitempty"`
}

// Contact holds direct contact details.
type Contact struct {
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// ResumeURL returns the resume to show: socialLinks.resumeLink, falling
// back to about.resumeLink. Empty when neither is set.
func (p *Portfolio) ResumeURL() string {
	if u := strings.TrimSpace(p.SocialLinks.ResumeLink); u != "" {
		return u
	}
	return strings.TrimSpace(p.About.ResumeLink)
}
