package email

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"github.com/example/spanbot/internal/config"
	"github.com/example/spanbot/internal/session"
)

// Inbox fetches feedback replies over IMAP.
type Inbox struct {
	cfg *config.Config
}

// NewInbox creates an IMAP inbox reader.
func NewInbox(cfg *config.Config) *Inbox {
	return &Inbox{cfg: cfg}
}

var _ session.Inbox = (*Inbox)(nil)

// RecentReply returns the plain-text body of the most recent message
// from the recipient since the cutoff. A message whose subject doesn't
// look like a reply to a digest is silently ignored (ok=false): that
// only costs a missed feedback check, never data.
func (i *Inbox) RecentReply(since time.Time) (string, bool, error) {
	addr := fmt.Sprintf("%s:%d", i.cfg.IMAPServer, i.cfg.IMAPPort)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return "", false, fmt.Errorf("connecting to IMAP server: %v", err)
	}
	defer c.Logout()

	if err := c.Login(i.cfg.GmailAddress, i.cfg.GmailAppPassword); err != nil {
		return "", false, fmt.Errorf("IMAP login: %v", err)
	}

	if _, err := c.Select("INBOX", true); err != nil {
		return "", false, fmt.Errorf("selecting INBOX: %v", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = since
	criteria.Header.Add("From", i.cfg.RecipientEmail)

	ids, err := c.Search(criteria)
	if err != nil {
		return "", false, fmt.Errorf("searching for replies: %v", err)
	}
	if len(ids) == 0 {
		return "", false, nil
	}

	// Only the most recent message counts.
	latest := ids[len(ids)-1]
	seqset := new(imap.SeqSet)
	seqset.AddNum(latest)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}
	messages := make(chan *imap.Message, 1)

	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	msg := <-messages
	if err := <-done; err != nil {
		return "", false, fmt.Errorf("fetching message: %v", err)
	}
	if msg == nil {
		return "", false, nil
	}

	if msg.Envelope != nil && !subjectMatches(msg.Envelope.Subject) {
		log.Printf("Ignoring message with unrelated subject: %q", msg.Envelope.Subject)
		return "", false, nil
	}

	r := msg.GetBody(section)
	if r == nil {
		return "", false, nil
	}

	body, err := plainTextBody(r)
	if err != nil {
		return "", false, fmt.Errorf("reading message body: %v", err)
	}
	return body, body != "", nil
}

// subjectMatches is the reply heuristic: either a reply marker or the
// digest subject itself.
func subjectMatches(subject string) bool {
	lower := strings.ToLower(subject)
	return strings.Contains(lower, "daily spanish") || strings.Contains(lower, "re:")
}

// plainTextBody extracts the first text/plain part of the message.
func plainTextBody(r io.Reader) (string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", err
	}

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		if h, ok := p.Header.(*mail.InlineHeader); ok {
			ct, _, err := h.ContentType()
			if err != nil {
				continue
			}
			if ct == "text/plain" {
				b, err := io.ReadAll(p.Body)
				if err != nil {
					return "", err
				}
				return string(b), nil
			}
		}
	}
	return "", nil
}
