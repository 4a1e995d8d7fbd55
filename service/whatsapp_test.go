package service

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textilehub/models"
)

func TestCaption(t *testing.T) {
	assert.Equal(t,
		"📦 Hub Catalogue\n\n1 design attached. Check the images for details! 🎨",
		Caption("Hub", 1))
	assert.Equal(t,
		"📦 Hub Catalogue\n\n3 designs attached. Check the images for details! 🎨",
		Caption("Hub", 3))
}

func TestSummaryLines(t *testing.T) {
	designs := []*models.Design{
		{Fabric: "Silk", RetailPrice: 2500},
		{Fabric: "Cotton", RetailPrice: 123456},
	}
	assert.Equal(t, "1. Silk - ₹2,500\n2. Cotton - ₹1,23,456", SummaryLines(designs))
	assert.Equal(t, "", SummaryLines(nil))
}

func TestBroadcastLink(t *testing.T) {
	link := BroadcastLink("hello world & more")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "hello world & more", u.Query().Get("text"))
}

func TestMemberLink(t *testing.T) {
	link := MemberLink("919876543210", "caption text")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "caption text", u.Query().Get("text"))
}

func TestBroadcastQR(t *testing.T) {
	png, err := BroadcastQR(Caption("Hub", 2), 256)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
