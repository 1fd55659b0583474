package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binsight/footfall-backend-go/internal/footfall"
)

func TestReadBinsCSV(t *testing.T) {
	t.Parallel()

	t.Run("parses a fully populated inventory", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"bin_id,lat,lon,bin_type,capacity_liters",
			"WB001,51.5010,-0.1400,general,240",
			"WB002,51.5020,-0.1410,recycling,360",
		}, "\n")

		result, err := ReadBinsCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Bins, 2)
		assert.Zero(t, result.Skipped)

		assert.Equal(t, "WB001", result.Bins[0].BinID)
		assert.Equal(t, 51.5010, result.Bins[0].Lat)
		assert.Equal(t, -0.1400, result.Bins[0].Lon)
		assert.Equal(t, "general", result.Bins[0].BinType)
		assert.Equal(t, 240, result.Bins[0].CapacityLiters)
		assert.Equal(t, 360, result.Bins[1].CapacityLiters)
	})

	t.Run("accepts alternative column spellings", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"id,latitude,lng,capacity",
			"X1,51.5,-0.14,240",
		}, "\n")

		result, err := ReadBinsCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Bins, 1)
		assert.Equal(t, "X1", result.Bins[0].BinID)
		assert.Equal(t, 240, result.Bins[0].CapacityLiters)
	})

	t.Run("carries an optional ward column", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"bin_id,lat,lon,ward",
			"W1,51.5,-0.14,St James's",
			"W2,51.51,-0.15,",
		}, "\n")

		result, err := ReadBinsCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Bins, 2)
		assert.Equal(t, "St James's", result.Bins[0].Ward)
		assert.Empty(t, result.Bins[1].Ward)
	})

	t.Run("generates IDs when the column is missing", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"lat,lon",
			"51.50,-0.14",
			"51.51,-0.15",
		}, "\n")

		result, err := ReadBinsCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Bins, 2)
		assert.Equal(t, "BIN00001", result.Bins[0].BinID)
		assert.Equal(t, "BIN00002", result.Bins[1].BinID)
	})

	t.Run("skips rows with bad coordinates", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"bin_id,lat,lon",
			"OK1,51.50,-0.14",
			"BAD1,not-a-number,-0.14",
			"BAD2,51.50,",
			"OK2,51.51,-0.15",
		}, "\n")

		result, err := ReadBinsCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Bins, 2)
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, "OK1", result.Bins[0].BinID)
		assert.Equal(t, "OK2", result.Bins[1].BinID)
	})

	t.Run("ignores unparseable capacity", func(t *testing.T) {
		t.Parallel()
		csv := strings.Join([]string{
			"lat,lon,capacity",
			"51.50,-0.14,unknown",
		}, "\n")

		result, err := ReadBinsCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Bins, 1)
		assert.Zero(t, result.Bins[0].CapacityLiters)
	})

	t.Run("rejects a header without coordinates", func(t *testing.T) {
		t.Parallel()
		_, err := ReadBinsCSV(strings.NewReader("bin_id,name\nA,B"))
		assert.ErrorIs(t, err, footfall.ErrData)
	})

	t.Run("rejects an inventory with no usable rows", func(t *testing.T) {
		t.Parallel()
		_, err := ReadBinsCSV(strings.NewReader("lat,lon\nx,y"))
		assert.ErrorIs(t, err, footfall.ErrData)
	})

	t.Run("rejects an empty file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadBinsCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, footfall.ErrData)
	})
}
