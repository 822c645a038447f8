package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Compose renders a message as a MIME document. Messages without
// attachments become plain text; with attachments a multipart/mixed
// document with base64-encoded parts.
func Compose(msg *Message) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(msg.Body)
		return buf.Bytes()
	}

	mw := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", "text/plain; charset=utf-8")
	part, _ := mw.CreatePart(bodyHeader)
	part.Write([]byte(msg.Body))

	for _, a := range msg.Attachments {
		mimeType := a.MIMEType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", mimeType)
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		part, _ := mw.CreatePart(header)

		encoded := base64.StdEncoding.EncodeToString(a.Data)
		// 76-char lines per RFC 2045
		for len(encoded) > 76 {
			part.Write([]byte(encoded[:76]))
			part.Write([]byte("\r\n"))
			encoded = encoded[76:]
		}
		part.Write([]byte(encoded))
	}

	mw.Close()
	return buf.Bytes()
}
