package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Terminées", T("completed"))
	assert.Equal(t, "travail", T("categories.work"))
	assert.Equal(t, "no.such.key", T("no.such.key"))
	assert.True(t, Has("high"))
	assert.False(t, Has("categories"))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "4 mars 2025", FormatDate(d))
	assert.Equal(t, "04/03/2025", FormatDateShort(d))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Élevée", Capitalize("élevée"))
	assert.Equal(t, "", Capitalize(""))
}
