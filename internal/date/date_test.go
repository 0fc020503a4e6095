package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.August, d.Month())
	assert.Equal(t, 28, d.Day())
	assert.Equal(t, "2026-08-28", d.String())

	for _, bad := range []string{"", "28-08-2026", "2026-8-28", "2026-08-28T00:00:00Z", "not a date"} {
		_, err := Parse(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestNewNormalizes(t *testing.T) {
	// Out-of-range days roll over like time.Date.
	assert.Equal(t, MustParse("2026-03-01"), New(2026, time.February, 29))
	assert.Equal(t, MustParse("2024-02-29"), New(2024, time.February, 29))
}

func TestAdd(t *testing.T) {
	d := MustParse("2026-08-28")
	assert.Equal(t, MustParse("2026-08-29"), d.Add(1))
	assert.Equal(t, MustParse("2026-09-04"), d.Add(7))
	assert.Equal(t, MustParse("2026-07-31"), d.Add(-28))
	assert.Equal(t, d, d.Add(0))

	// Month and year boundaries.
	assert.Equal(t, MustParse("2027-01-01"), MustParse("2026-12-31").Add(1))
}

func TestOrdering(t *testing.T) {
	a := MustParse("2026-03-01")
	b := MustParse("2026-03-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.False(t, a.After(a))
}

func TestIsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, MustParse("2026-01-01").IsZero())
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2026-08-28")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-28"`, string(data))

	var got Date
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, d, got)

	require.Error(t, json.Unmarshal([]byte(`"garbage"`), &got))
	require.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestSQLRoundTrip(t *testing.T) {
	d := MustParse("2026-08-28")

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", v)

	var got Date
	require.NoError(t, got.Scan("2026-08-28"))
	assert.Equal(t, d, got)

	require.NoError(t, got.Scan([]byte("2026-08-28")))
	assert.Equal(t, d, got)

	require.NoError(t, got.Scan(time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, d, got)

	require.Error(t, got.Scan(42))
	require.Error(t, got.Scan("not a date"))
}
