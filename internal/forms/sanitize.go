package forms

import "strings"

// Sanitize trims s and strips angle brackets.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func sanitizeAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = Sanitize(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Contact) sanitize() {
	c.Name = Sanitize(c.Name)
	c.Email = strings.ToLower(Sanitize(c.Email))
	c.Company = Sanitize(c.Company)
	c.Message = Sanitize(c.Message)
	c.Interests = sanitizeAll(c.Interests)
}

func (n *Newsletter) sanitize() {
	n.Email = strings.ToLower(Sanitize(n.Email))
	n.Source = Sanitize(n.Source)
	n.Interests = sanitizeAll(n.Interests)
}
