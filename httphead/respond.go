package httphead

import (
	"strconv"

	json "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"

	"github.com/keel-web/keel/conn"
)

// Respond assembles a minimal response around body and submits it. status is
// the status line tail, e.g. "200 OK".
func Respond(c *conn.Conn, status, contentType string, body []byte) error {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	_, _ = b.WriteString("HTTP/1.1 ")
	_, _ = b.WriteString(status)
	_, _ = b.WriteString("\r\nContent-Type: ")
	_, _ = b.WriteString(contentType)
	_, _ = b.WriteString("\r\nContent-Length: ")
	_, _ = b.WriteString(strconv.Itoa(len(body)))
	_, _ = b.WriteString("\r\n\r\n")
	_, _ = b.Write(body)

	return c.SendResponse(b.B)
}

// RespondJSON marshals v and sends it off as application/json.
func RespondJSON(c *conn.Conn, status string, v any) error {
	stream := json.ConfigDefault.BorrowStream(nil)
	defer json.ConfigDefault.ReturnStream(stream)

	stream.WriteVal(v)
	if stream.Error != nil {
		return stream.Error
	}

	return Respond(c, status, "application/json", stream.Buffer())
}
