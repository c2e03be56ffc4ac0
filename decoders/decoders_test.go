package decoders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livechart/models"
)

func TestK701_Decode(t *testing.T) {
	k701 := K701()

	tests := []struct {
		name string
		id   uint32
		data []byte
		want []models.Field
	}{
		{"rpm", rpmDID, []byte{0x1F, 0x40}, []models.Field{{Name: RPM, Value: 2000.0}}},
		{"throttle uses last byte", throttleDID, []byte{0x00, 0xFF}, []models.Field{{Name: Throttle, Value: 100.0}}},
		{"coolant", coolantDID, []byte{0x00, 0x78}, []models.Field{{Name: Coolant, Value: 80.0}}},
		{"gear", gearDID, []byte{0x00, 0x03}, []models.Field{{Name: Gear, Value: 3.0}}},
		{"injection time", injectionTimeDID, []byte{0x0B, 0xB8}, []models.Field{{Name: InjectionTime, Value: 3.0}}},
		{"clutch", clutchDID, []byte{0x01}, []models.Field{{Name: Clutch, Value: 1.0}}},
		{"short payload", rpmDID, []byte{0x01}, nil},
		{"unknown id", 0x7FF, []byte{0x01, 0x02}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, k701.Decode(tt.id, tt.data))
		})
	}
}

func TestRaw_Decode(t *testing.T) {
	fields := Raw{}.Decode(0x7E8, []byte{1, 2})

	assert.Equal(t, []models.Field{{Name: "0x7E8.0", Value: 1.0}, {Name: "0x7E8.1", Value: 2.0}}, fields)
}

func TestGet(t *testing.T) {
	decoder, err := Get("K701")
	require.NoError(t, err)
	assert.IsType(t, &SignalTable{}, decoder)

	_, err = Get("nope")
	require.Error(t, err)

	assert.Contains(t, K701().IDs(), uint32(rpmDID))
}
