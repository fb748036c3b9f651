package pcpartpicker_automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLinks(t *testing.T) {
	got := ProductLinks([]string{
		"https://pl.pcpartpicker.com/product/FFxmP6/amd-ryzen-5-7600",
		"",
		"https://x-kom.pl/p/123",
		"https://pl.pcpartpicker.com/product/FFxmP6/amd-ryzen-5-7600",
		"https://pl.pcpartpicker.com/list/Xy12Ab",
		"https://pl.pcpartpicker.com/product/9nm323/amd-ryzen-5-7600x",
	})
	assert.Equal(t, []string{
		"https://pl.pcpartpicker.com/product/FFxmP6/amd-ryzen-5-7600",
		"https://pl.pcpartpicker.com/product/9nm323/amd-ryzen-5-7600x",
	}, got)
	assert.Empty(t, ProductLinks(nil))
}

func TestExportPartListFailsBeforeLaunchingBrowser(t *testing.T) {
	_, err := ExportPartList("!!", []string{"https://pcpartpicker.com/product/FFxmP6/amd"})
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = ExportPartList("pl", []string{"https://x-kom.pl/p/123"})
	assert.ErrorIs(t, err, ErrNoParts)
}

func TestListURL(t *testing.T) {
	got, err := listURL("https://pl.pcpartpicker.com/list/Xy12Ab")
	require.NoError(t, err)
	assert.Equal(t, "https://pl.pcpartpicker.com/list/Xy12Ab", got)

	got, err = listURL("[PCPartPicker Part List](https://pcpartpicker.com/list/Ab34Cd)")
	require.NoError(t, err)
	assert.Equal(t, "https://pcpartpicker.com/list/Ab34Cd", got)

	_, err = listURL("nothing here")
	assert.ErrorIs(t, err, ErrNoListURL)
}
