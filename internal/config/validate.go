package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func hasSource(ss []Source, name string) bool {
	for _, s := range ss {
		if s.Name == name {
			return true
		}
	}
	return false
}

// NormalizeAndValidate returns a trimmed copy of cfg plus everything a run
// should refuse to start on. Validation failures happen before any store
// access, so a bad config never leaves partial state behind.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	// ---- Defaults ----

	if out.Fetch.ReqPerSec <= 0 {
		out.Fetch.ReqPerSec = 1
	}
	if out.Fetch.Burst <= 0 {
		out.Fetch.Burst = 2
	}
	if out.Fetch.TimeoutSeconds <= 0 {
		out.Fetch.TimeoutSeconds = 60
	}
	if strings.TrimSpace(out.Fetch.UserAgent) == "" {
		out.Fetch.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121 Safari/537.36"
	}
	if out.Email.Enabled {
		if out.Email.Mailbox == "" {
			out.Email.Mailbox = "INBOX"
		}
		if out.Email.MaxMessages <= 0 {
			out.Email.MaxMessages = 50
		}
	}

	// ---- Normalization ----

	for i := range out.Sources {
		s := &out.Sources[i]
		s.Name = strings.TrimSpace(s.Name)
		s.Company = strings.TrimSpace(s.Company)
		s.URL = strings.TrimSpace(s.URL)
		s.Location = strings.TrimSpace(s.Location)
		s.Render = strings.ToLower(strings.TrimSpace(s.Render))
	}

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}
	out.Email.SubjectAny = trimList(out.Email.SubjectAny)

	// enabling the mailbox is enough to run it; an explicit "email" entry is
	// only needed to control run order or the fallback company
	if out.Email.Enabled && !hasSource(out.Sources, "email") {
		out.Sources = append(out.Sources, Source{Name: "email"})
	}

	// ---- Validation rules ----

	if len(out.Sources) == 0 {
		res.addErr("no sources configured")
	}

	names := map[string]bool{}
	for i, s := range out.Sources {
		if s.Name == "" {
			res.addErr("sources[%d]: name is required", i)
			continue
		}
		if names[s.Name] {
			res.addWarn("duplicate source name %q; both entries will run", s.Name)
		}
		names[s.Name] = true

		// the email extractor reads company and url off the alert cards, so
		// its entry needs neither
		if s.Name != "email" {
			if s.Company == "" {
				res.addErr("sources[%d] (%s): company is required", i, s.Name)
			}
			if s.URL == "" {
				res.addErr("sources[%d] (%s): url is required", i, s.Name)
			}
		}
		if s.Render != "" && s.Render != "browser" {
			res.addErr("sources[%d] (%s): render must be empty or \"browser\", got %q", i, s.Name, s.Render)
		}
	}

	if !out.Email.Enabled && hasSource(out.Sources, "email") {
		res.addErr("source \"email\" is configured but email.enabled=false")
	}
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if len(out.Email.SubjectAny) == 0 {
			res.addWarn("email.subject_any is empty; every unseen message will be scanned")
		}
	}

	return out, res
}
