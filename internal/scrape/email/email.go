// Package email turns unseen job-alert mails into raw posting candidates.
// It reads over IMAP with BODY.PEEK, so alert mails stay unread for whoever
// else consumes the mailbox.
package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/scrape/util"
)

type Extractor struct {
	cfg      config.Email
	password string
}

func New(cfg config.Email, password string) *Extractor {
	return &Extractor{cfg: cfg, password: password}
}

func (e *Extractor) Name() string { return "email" }

func (e *Extractor) Extract(ctx context.Context, src config.Source) ([]domain.RawCandidate, error) {
	addr := e.cfg.IMAPHost
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, e.cfg.IMAPPort)
	}

	c, err := dialAndLogin(addr, e.cfg.IMAPHost, e.cfg.Username, e.password)
	if err != nil {
		return nil, err
	}
	defer logoutAndClose(c)

	msgs, err := fetchUnseen(c, e.cfg.Mailbox, e.cfg.MaxMessages)
	if err != nil {
		return nil, err
	}

	matched := msgs[:0]
	for _, m := range msgs {
		if subjectMatches(m.Subject, e.cfg.SubjectAny) {
			matched = append(matched, m)
		}
	}
	log.Printf("[email] unseen=%d matched=%d", len(msgs), len(matched))

	// Parsing a few MiB of alert HTML per mail is the slow part; do it
	// concurrently, keep results in message order.
	perMsg := make([][]domain.RawCandidate, len(matched))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range matched {
		i := i
		g.Go(func() error {
			body := htmlBody(matched[i].Raw)
			if body == "" {
				return nil
			}
			cands, err := ParseAlertHTML(body, src)
			if err != nil {
				return fmt.Errorf("parse alert uid=%d: %w", matched[i].UID, err)
			}
			perMsg[i] = cands
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.RawCandidate
	for _, cands := range perMsg {
		all = append(all, cands...)
	}
	return util.DedupeByURL(all), nil
}

func subjectMatches(subject string, any []string) bool {
	if len(any) == 0 {
		return true
	}
	low := strings.ToLower(subject)
	for _, s := range any {
		if strings.Contains(low, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
