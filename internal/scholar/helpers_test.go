// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"io"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustSelection(t *testing.T, r io.Reader) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	sel := doc.Find("div.gs_ri").First()
	require.Equal(t, 1, sel.Length())
	return sel
}
