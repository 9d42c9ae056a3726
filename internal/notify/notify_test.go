package notify

import (
	"context"
	"testing"

	"github.com/lumina/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDemoRequestEscapesInput(t *testing.T) {
	req := db.DemoRequest{
		ID:         "abc",
		Name:       "Fr. John <Smith>",
		ParishName: "St. Mary's",
		Location:   "Austin, TX",
		Email:      "pastor@stmarys.org",
		Message:    db.NullableString("We have <b>400</b> families"),
	}

	body, err := RenderDemoRequest(req, "https://luminaapp.org/")
	require.NoError(t, err)

	assert.Contains(t, body, "Fr. John &lt;Smith&gt;")
	assert.Contains(t, body, "&lt;b&gt;400&lt;/b&gt;")
	assert.Contains(t, body, `href="https://luminaapp.org/admin"`)
	assert.NotContains(t, body, "Phone:")
}

func TestSplitRecipients(t *testing.T) {
	assert.Equal(t, []string{"sales@luminaapp.org", "ops@luminaapp.org"}, splitRecipients(" sales@luminaapp.org, ,ops@luminaapp.org "))
	assert.Nil(t, splitRecipients(""))
}

func TestResendNotifierWithoutRecipientsIsSilent(t *testing.T) {
	notifier := NewResendNotifier("re_test", "Lumina <noreply@luminaapp.org>", "", "http://localhost:8080")
	assert.NoError(t, notifier.DemoRequested(context.Background(), db.DemoRequest{ParishName: "St. Anne"}))
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, Nop{}.DemoRequested(context.Background(), db.DemoRequest{ID: "x"}))
}
