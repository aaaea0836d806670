package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folio-labs/portfolio-server/internal/model"
)

func TestContactRendering(t *testing.T) {
	msg := model.ContactMessage{
		Name:    "Eve\r\nBcc: x@y.com",
		Email:   "eve@x.com",
		Message: "<script>alert(1)</script>\nsecond line",
	}

	t.Run("subject collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "New message from Eve Bcc: x@y.com", ContactSubject(msg))
	})

	t.Run("html escapes user input", func(t *testing.T) {
		body := ContactHTML(msg)
		assert.NotContains(t, body, "<script>")
		assert.Contains(t, body, "&lt;script&gt;")
		assert.Contains(t, body, "<br>second line")
	})

	t.Run("html carries reply address", func(t *testing.T) {
		assert.Contains(t, ContactHTML(msg), `<a href="mailto:eve@x.com">eve@x.com</a>`)
	})
}
