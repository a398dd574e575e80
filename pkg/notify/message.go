package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"strings"
	"time"
)

const (
	anonymousSender = "Anonymous"
	fallbackMessage = "User is interested in this item."
)

// Message is a rendered enquiry email.
type Message struct {
	EnquiryID int64     `json:"enquiryId"`
	ItemName  string    `json:"itemName"`
	From      string    `json:"from"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"createdAt"`
}

// EnquiryDetails holds the enquiry as the buyer submitted it, before any
// defaults are applied.
type EnquiryDetails struct {
	ID        int64
	ItemName  string
	UserEmail string
	Message   string
	CreatedAt time.Time
}

// Addressing decides who the notification goes to and the sender used when
// the buyer left no address.
type Addressing struct {
	StoreEmail string
	MailFrom   string
}

var enquiryTemplate = template.Must(template.New("enquiry").Parse(`<h2>New Item Enquiry</h2>
<p><strong>Item:</strong> {{.ItemName}}</p>
<p><strong>From:</strong> {{.Sender}}</p>
<p><strong>Message:</strong> {{.Message}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<hr>
<p><em>This enquiry has been saved to the database.</em></p>
`))

func BuildEnquiryMessage(e EnquiryDetails, addr Addressing) (Message, error) {
	sender := e.UserEmail
	if sender == "" {
		sender = anonymousSender
	}
	body := e.Message
	if body == "" {
		body = fallbackMessage
	}
	from := headerValue(e.UserEmail)
	if from == "" {
		from = addr.MailFrom
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var html bytes.Buffer
	err := enquiryTemplate.Execute(&html, map[string]string{
		"ItemName": e.ItemName,
		"Sender":   sender,
		"Message":  body,
		"Date":     createdAt.Format(time.RFC1123),
	})
	if err != nil {
		return Message{}, fmt.Errorf("rendering enquiry email: %w", err)
	}

	return Message{
		EnquiryID: e.ID,
		ItemName:  e.ItemName,
		From:      from,
		To:        []string{addr.StoreEmail},
		Subject:   fmt.Sprintf("Enquiry for %s", e.ItemName),
		HTML:      html.String(),
		CreatedAt: createdAt,
	}, nil
}

// Raw formats the message as an RFC 5322 email with an HTML body.
func (m Message) Raw() []byte {
	var b strings.Builder
	to := make([]string, 0, len(m.To))
	for _, addr := range m.To {
		to = append(to, headerValue(addr))
	}

	fmt.Fprintf(&b, "From: %s\r\n", headerValue(m.From))
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(m.Subject)))
	fmt.Fprintf(&b, "Date: %s\r\n", m.CreatedAt.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTML)
	return []byte(b.String())
}

var headerBreaks = strings.NewReplacer("\r", "", "\n", "")

// headerValue drops line breaks so a value cannot start a new header.
func headerValue(v string) string {
	return strings.TrimSpace(headerBreaks.Replace(v))
}
