package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", `"2025-10-01T19:30:00Z"`, time.Date(2025, 10, 1, 19, 30, 0, 0, time.UTC), false},
		{"offset", `"2025-10-01T19:30:00+03:00"`, time.Date(2025, 10, 1, 16, 30, 0, 0, time.UTC), false},
		{"naive", `"2025-10-01T19:30:00"`, time.Date(2025, 10, 1, 19, 30, 0, 0, time.UTC), false},
		{"naive with micros", `"2025-10-01T19:30:00.250000"`, time.Date(2025, 10, 1, 19, 30, 0, 250000000, time.UTC), false},
		{"space separated", `"2025-10-01 19:30:00"`, time.Date(2025, 10, 1, 19, 30, 0, 0, time.UTC), false},
		{"date only", `"2025-10-01"`, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"empty", `""`, time.Time{}, false},
		{"garbage", `"tomorrow"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	ts := NewTimestamp(time.Date(2025, 10, 1, 19, 30, 0, 0, time.UTC))
	data, err = json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-01T19:30:00Z"`, string(data))
	assert.Equal(t, "2025-10-01T19:30:00Z", ts.String())
	assert.Equal(t, "", Timestamp{}.String())
}
