package portfolio

import (
	"fmt"
	"strings"
)

// Field length limits. The document is public and user-edited, so every
// free-form field is bounded.
const (
	MaxNameLength        = 100
	MaxRoleLength        = 100
	MaxDescriptionLength = 10000 // Markdown body
	MaxShortTextLength   = 500   // tagline, challenges, impact...
	MaxURLLength         = 2048
	MaxEmailLength       = 254 // RFC 5321
	MaxPhoneLength       = 30
	MaxListLength        = 100 // entries in any list
	MaxImageCount        = 50
)

// Validate checks required fields, skill levels and field lengths.
func (p *Portfolio) Validate() error {
	if p == nil {
		return ErrNilPortfolio
	}

	a := p.About
	if err := required("about.name", a.Name); err != nil {
		return err
	}
	if err := required("about.role", a.Role); err != nil {
		return err
	}
	if err := required("about.description", a.Description); err != nil {
		return err
	}

	checks := []struct {
		field string
		value string
		max   int
	}{
		{"about.name", a.Name, MaxNameLength},
		{"about.role", a.Role, MaxRoleLength},
		{"about.description", a.Description, MaxDescriptionLength},
		{"about.profileImage", a.ProfileImage, MaxURLLength},
		{"about.resumeLink", a.ResumeLink, MaxURLLength},
		{"about.location", a.Location, MaxShortTextLength},
		{"about.lookingFor", a.LookingFor, MaxShortTextLength},
		{"about.availability", a.Availability, MaxShortTextLength},
		{"about.tagline", a.Tagline, MaxShortTextLength},
		{"about.experienceStartDate", a.ExperienceStartDate, MaxShortTextLength},
		{"socialLinks.github", p.SocialLinks.Github, MaxURLLength},
		{"socialLinks.linkedin", p.SocialLinks.LinkedIn, MaxURLLength},
		{"socialLinks.twitter", p.SocialLinks.Twitter, MaxURLLength},
		{"socialLinks.instagram", p.SocialLinks.Instagram, MaxURLLength},
		{"socialLinks.email", p.SocialLinks.Email, MaxEmailLength},
		{"socialLinks.resumeLink", p.SocialLinks.ResumeLink, MaxURLLength},
		{"contact.phone", p.Contact.Phone, MaxPhoneLength},
		{"contact.email", p.Contact.Email, MaxEmailLength},
		{"contact.address", p.Contact.Address, MaxShortTextLength},
	}
	for _, c := range checks {
		if err := validateFieldLength(c.field, c.value, c.max); err != nil {
			return err
		}
	}

	lists := map[string]int{
		"about.highlights":        len(a.Highlights),
		"about.languagesSpoken":   len(a.LanguagesSpoken),
		"about.preferredWorkType": len(a.PreferredWorkType),
		"projects":                len(p.Projects),
		"experience":              len(p.Experience),
		"education":               len(p.Education),
	}
	for field, n := range lists {
		if n > MaxListLength {
			return fmt.Errorf("%w: %s has %d entries (max %d)", ErrInvalidValue, field, n, MaxListLength)
		}
	}

	for _, cat := range []struct {
		name  string
		items []Skill
	}{
		{"frontend", p.Skills.Frontend},
		{"backend", p.Skills.Backend},
		{"devops", p.Skills.DevOps},
		{"other", p.Skills.Other},
	} {
		for i, s := range cat.items {
			field := fmt.Sprintf("skills.%s[%d]", cat.name, i)
			if err := required(field+".name", s.Name); err != nil {
				return err
			}
			if err := validateFieldLength(field+".name", s.Name, MaxNameLength); err != nil {
				return err
			}
			if !s.Level.Valid() {
				return fmt.Errorf("%w: %s.level %q", ErrInvalidLevel, field, s.Level)
			}
		}
	}

	for i, pr := range p.Projects {
		field := fmt.Sprintf("projects[%d]", i)
		if err := required(field+".title", pr.Title); err != nil {
			return err
		}
		if err := validateFieldLength(field+".detailedDescription", pr.DetailedDescription, MaxDescriptionLength); err != nil {
			return err
		}
		if pr.ImageCount < 0 || pr.ImageCount > MaxImageCount {
			return fmt.Errorf("%w: %s.imageCount must be between 0 and %d, got %d", ErrInvalidValue, field, MaxImageCount, pr.ImageCount)
		}
		if pr.ImageCount > 0 && strings.TrimSpace(pr.S3Folder) == "" {
			return fmt.Errorf("%w: %s.s3Folder (required when imageCount is set)", ErrMissingField, field)
		}
	}

	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}
