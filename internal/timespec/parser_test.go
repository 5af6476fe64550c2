package timespec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    time.Time
		wantErr bool
	}{
		{name: "seconds", spec: "30s", want: now.Add(30 * time.Second)},
		{name: "compound duration", spec: "1h30m", want: now.Add(90 * time.Minute)},
		{name: "rfc3339", spec: "2025-10-29T13:00:00Z", want: time.Date(2025, 10, 29, 13, 0, 0, 0, time.UTC)},
		{name: "empty", spec: "", wantErr: true},
		{name: "negative", spec: "-5m", wantErr: true},
		{name: "garbage", spec: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestDeadline(t *testing.T) {
	d, err := Deadline("", now)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = Deadline("10s", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(10*time.Second), d)

	_, err = Deadline("2025-10-29T11:00:00Z", now)
	assert.EqualError(t, err, "--until must be in the future")

	_, err = Deadline("soon", now)
	assert.ErrorContains(t, err, "invalid --until")
}
