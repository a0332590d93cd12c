package settings_test

import (
	"testing"
	"time"

	"github.com/momeni/fleetflow/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationMarshal(t *testing.T) {
	for in, out := range map[time.Duration]string{
		0:                           "0s",
		90 * time.Second:            "1m30s",
		2 * time.Hour:               "2h",
		3*time.Hour + 4*time.Minute: "3h4m",
		200 * time.Millisecond:      "200ms",
	} {
		d := settings.Duration(in)
		s := d.Marshal()
		require.NotNil(t, s)
		assert.Equal(t, out, *s)
		var back settings.Duration
		require.NoError(t, back.UnmarshalText([]byte(*s)))
		assert.Equal(t, d, back)
	}
	var nilD *settings.Duration
	assert.Nil(t, nilD.Marshal())
	_, err := nilD.MarshalText()
	assert.Error(t, err)
}

func TestVerifyRange(t *testing.T) {
	minb, maxb := 1, 10
	v := 20
	err := settings.VerifyRange("attempts", &v, &minb, &maxb)
	var oor *settings.OutOfRangeError[int]
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 20, oor.Value)
	assert.EqualError(t, err, "attempts (20) is not in [1, 10] range")

	v = 0
	err = settings.AtLeast("attempts", &v, 1)
	assert.EqualError(t, err, "attempts (0) is less than 1")
	assert.NoError(t, settings.VerifyRange("attempts", &v, nil, &maxb))
	assert.NoError(t, settings.VerifyRange[int]("attempts", nil, &minb, &maxb))
	assert.Error(t, settings.VerifyRange("attempts", &v, &maxb, &minb))
	assert.NoError(t, settings.Between("attempts", &maxb, 1, 10))

	d := settings.Duration(-time.Second)
	assert.EqualError(t, settings.AtLeast("leeway", &d, 0), "leeway (-1s) is less than 0s")
}

func TestNil2Zero(t *testing.T) {
	var b *bool
	settings.Nil2Zero(&b)
	require.NotNil(t, b)
	assert.False(t, *b)
}
